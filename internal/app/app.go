// Package app provides application initialization and dependency wiring.
//
// App is the container that holds all long-lived components: Genkit, the
// search client, the summarizer, the conversation store, and the assistant
// agent with its flow.
package app

import (
	"github.com/firebase/genkit/go/genkit"

	"github.com/jawellis/internship-finder/internal/assistant"
	"github.com/jawellis/internship-finder/internal/config"
	"github.com/jawellis/internship-finder/internal/conversation"
	"github.com/jawellis/internship-finder/internal/log"
	"github.com/jawellis/internship-finder/internal/search"
	"github.com/jawellis/internship-finder/internal/summary"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit        *genkit.Genkit
	Conversations *conversation.Store
	Searcher      *search.Client
	Summarizer    *summary.Summarizer
	Agent         *assistant.Agent
	Flow          *assistant.Flow

	otelCleanup func()
}

// Close gracefully shuts down all resources.
func (a *App) Close() error {
	a.Logger.Info("shutting down application")

	if a.otelCleanup != nil {
		a.otelCleanup()
	}
	return nil
}
