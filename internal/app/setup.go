package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/core/tracing"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jawellis/internship-finder/internal/assistant"
	"github.com/jawellis/internship-finder/internal/config"
	"github.com/jawellis/internship-finder/internal/conversation"
	"github.com/jawellis/internship-finder/internal/log"
	"github.com/jawellis/internship-finder/internal/search"
	"github.com/jawellis/internship-finder/internal/summary"
)

// tracerShutdownTimeout bounds how long Close waits for span export.
const tracerShutdownTimeout = 5 * time.Second

// Setup creates and initializes the application.
// Returns an App with embedded cleanup — call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (*App, error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	a := &App{Config: cfg, Logger: logger}

	// Tracing must be wired before Genkit initialization so spans from the
	// first request are captured.
	a.otelCleanup = provideTracing(ctx, cfg, logger)

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	searcher, err := search.NewClient(search.ClientConfig{
		APIKey:  cfg.SearchAPIKey,
		BaseURL: cfg.SearchBaseURL,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating search client: %w", err)
	}
	a.Searcher = searcher

	summarizer, err := summary.New(g, cfg.ModelName, logger)
	if err != nil {
		return nil, fmt.Errorf("creating summarizer: %w", err)
	}
	a.Summarizer = summarizer

	a.Conversations = conversation.NewStore()

	agent, err := assistant.New(assistant.Config{
		Genkit:        g,
		Conversations: a.Conversations,
		Fetcher:       searcher,
		Summarizer:    summarizer,
		Logger:        logger,
		ModelName:     cfg.ModelName,
	})
	if err != nil {
		return nil, fmt.Errorf("creating assistant agent: %w", err)
	}
	a.Agent = agent
	a.Flow = assistant.NewFlow(g, agent)

	return a, nil
}

// provideTracing exports spans to the configured OTLP HTTP collector.
// An empty endpoint disables tracing; the returned cleanup is then a no-op.
func provideTracing(ctx context.Context, cfg *config.Config, logger log.Logger) func() {
	if cfg.OTLPEndpoint == "" {
		return func() {}
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		logger.Warn("creating OTLP exporter, tracing disabled", "error", err)
		return func() {}
	}

	processor := sdktrace.NewBatchSpanProcessor(exporter)
	tracing.TracerProvider().RegisterSpanProcessor(processor)

	logger.Debug("OTLP tracing enabled", "endpoint", cfg.OTLPEndpoint)

	shutdown := tracing.TracerProvider().Shutdown
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideGenkit initializes Genkit with the configured AI provider.
// Supports gemini (default), openai, and ollama providers.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	var g *genkit.Genkit

	switch cfg.Provider {
	case config.ProviderOllama:
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g = genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
		if g == nil {
			return nil, errors.New("initializing genkit with ollama provider")
		}
		// Ollama requires explicit model registration (no auto-discovery)
		ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		logger.Info("initialized Genkit with ollama provider",
			"model", cfg.ModelName, "host", cfg.OllamaHost)

	case config.ProviderOpenAI:
		g = genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
		logger.Info("initialized Genkit with openai provider", "model", cfg.ModelName)

	default: // gemini
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with gemini provider")
		}
		logger.Info("initialized Genkit with gemini provider", "model", cfg.ModelName)
	}

	return g, nil
}
