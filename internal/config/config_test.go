package config

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/spf13/viper"
)

// defaultConfig builds a Config carrying only the registered defaults.
func defaultConfig(t *testing.T) *Config {
	t.Helper()

	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal defaults: %v", err)
	}
	return &cfg
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig(t)

	if cfg.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want %q", cfg.Provider, ProviderGemini)
	}
	if cfg.ModelName != "googleai/gemini-2.5-flash" {
		t.Errorf("ModelName = %q", cfg.ModelName)
	}
	if cfg.SearchBaseURL != "https://internships-api.p.rapidapi.com" {
		t.Errorf("SearchBaseURL = %q", cfg.SearchBaseURL)
	}
	if cfg.Addr != "127.0.0.1:3000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "unsupported provider",
			mutate:  func(c *Config) { c.Provider = "azure" },
			wantErr: ErrInvalidProvider,
		},
		{
			name:    "empty model name",
			mutate:  func(c *Config) { c.ModelName = "  " },
			wantErr: ErrInvalidModelName,
		},
		{
			name:    "search base url without scheme",
			mutate:  func(c *Config) { c.SearchBaseURL = "internships-api.p.rapidapi.com" },
			wantErr: ErrInvalidSearchBaseURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()

	var cfg *Config
	if err := cfg.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("Validate() on nil = %v, want ErrConfigNil", err)
	}
}

func TestValidateServe_RequiresSearchKey(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig(t)
	if err := cfg.ValidateServe(); !errors.Is(err, ErrMissingSearchAPIKey) {
		t.Errorf("ValidateServe() = %v, want ErrMissingSearchAPIKey", err)
	}

	cfg.SearchAPIKey = "test-key"
	if err := cfg.ValidateServe(); err != nil {
		t.Errorf("ValidateServe() with key: %v", err)
	}
}

func TestBindEnv_SearchKeyAliases(t *testing.T) {
	// t.Setenv is process-wide; no t.Parallel here.
	t.Setenv("RAPID_API_KEY", "legacy-key")

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.SearchAPIKey != "legacy-key" {
		t.Errorf("SearchAPIKey = %q, want RAPID_API_KEY value", cfg.SearchAPIKey)
	}

	t.Setenv("FINDER_SEARCH_API_KEY", "new-key")
	var cfg2 Config
	if err := v.Unmarshal(&cfg2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg2.SearchAPIKey != "new-key" {
		t.Errorf("SearchAPIKey = %q, want FINDER_SEARCH_API_KEY to take priority", cfg2.SearchAPIKey)
	}
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.in}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
