// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (FINDER_* — runtime override)
//  2. Config file (~/.finder/config.yaml or ./config.yaml)
//  3. Default values
//
// Error handling uses sentinel errors so callers can check with errors.Is()
// and wrap with fmt.Errorf("%w: details", ErrXxx).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingSearchAPIKey indicates the internship search API key is not set.
	ErrMissingSearchAPIKey = errors.New("missing search API key")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidSearchBaseURL indicates the search provider base URL is invalid.
	ErrInvalidSearchBaseURL = errors.New("invalid search base URL")
)

// Supported AI providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config holds all application configuration.
type Config struct {
	// AI provider selection
	Provider  string `mapstructure:"provider"`
	ModelName string `mapstructure:"model_name"`

	// Ollama (only used when Provider == "ollama")
	OllamaHost string `mapstructure:"ollama_host"`

	// Internship search provider
	SearchAPIKey  string `mapstructure:"search_api_key"`
	SearchBaseURL string `mapstructure:"search_base_url"`

	// HTTP server
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy"`
	RateBurst   int      `mapstructure:"rate_burst"`

	// Observability: OTLP HTTP trace collector ("" disables tracing)
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

// Load reads configuration from defaults, an optional config file, and the
// environment, then validates it (fail-fast).
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}
	configDir := filepath.Join(home, ".finder")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults and env apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values on the given viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderGemini)
	v.SetDefault("model_name", "googleai/gemini-2.5-flash")
	v.SetDefault("ollama_host", "http://localhost:11434")

	v.SetDefault("search_base_url", "https://internships-api.p.rapidapi.com")

	v.SetDefault("addr", "127.0.0.1:3000")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("trust_proxy", false)
	v.SetDefault("rate_burst", 0)

	v.SetDefault("otlp_endpoint", "")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

// bindEnv wires FINDER_* environment variables to config keys.
// RAPID_API_KEY is also honored for compatibility with existing deployments.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("FINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit aliases outside the FINDER_ prefix.
	_ = v.BindEnv("search_api_key", "FINDER_SEARCH_API_KEY", "RAPID_API_KEY")
}

// Validate checks configuration consistency shared by all commands.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("%w: %q (supported: gemini, openai, ollama)", ErrInvalidProvider, c.Provider)
	}

	if strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("%w: model name is empty", ErrInvalidModelName)
	}

	if !strings.HasPrefix(c.SearchBaseURL, "http://") && !strings.HasPrefix(c.SearchBaseURL, "https://") {
		return fmt.Errorf("%w: %q", ErrInvalidSearchBaseURL, c.SearchBaseURL)
	}

	return nil
}

// ValidateServe checks requirements specific to running the HTTP server.
// The search API key is only needed when the service actually serves requests.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.SearchAPIKey) == "" {
		return fmt.Errorf("%w: set FINDER_SEARCH_API_KEY or RAPID_API_KEY", ErrMissingSearchAPIKey)
	}
	return nil
}

// SlogLevel maps the configured log level string to a slog.Level.
// Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
