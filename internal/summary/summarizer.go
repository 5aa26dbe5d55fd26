// Package summary implements the summarization adapter: given up to three
// fetched internships and the user's stated preferences, it asks the model
// for a per-record fit assessment with pros and cons.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/jawellis/internship-finder/internal/conversation"
	"github.com/jawellis/internship-finder/internal/log"
	"github.com/jawellis/internship-finder/internal/search"
)

// ToolName is the tool identifier registered with the model.
const ToolName = "summarizeInternships"

// ToolDescription is shown to the model when deciding whether to call the tool.
const ToolDescription = "Summarize each internship for fit, giving pros/cons vs user preferences."

// FallbackText is returned when the model produces no content.
const FallbackText = "No summary generated."

// descriptionPreviewWords is how many words of each description the prompt embeds.
const descriptionPreviewWords = 200

// Request is the input schema for the summarizeInternships tool.
//
// The records the model places here are ignored at dispatch time: the
// orchestrator's cached results are authoritative for which internships get
// summarized. The schema exists so the model can issue a well-formed call.
type Request struct {
	Internships     []search.Internship      `json:"internships" jsonschema_description:"List of internship objects (from fetchInternships)."`
	UserPreferences conversation.Preferences `json:"userPreferences" jsonschema_description:"User's field, location, paid."`
}

// Summarizer produces pros/cons narratives via a single model invocation.
type Summarizer struct {
	g         *genkit.Genkit
	modelName string
	logger    log.Logger
}

// New creates a Summarizer.
func New(g *genkit.Genkit, modelName string, logger log.Logger) (*Summarizer, error) {
	if g == nil {
		return nil, errors.New("genkit instance is required")
	}
	if modelName == "" {
		return nil, errors.New("model name is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Summarizer{g: g, modelName: modelName, logger: logger}, nil
}

// Summarize asks the model for a fit assessment of each record.
// The caller is responsible for capping records at three. Model errors
// propagate so the orchestrator can classify them; an empty model reply
// degrades to FallbackText.
func (s *Summarizer) Summarize(ctx context.Context, records []search.Internship, prefs conversation.Preferences) (string, error) {
	s.logger.Info("summarizing internships", "count", len(records), "field", prefs.Field)

	resp, err := genkit.Generate(ctx, s.g,
		ai.WithModelName(s.modelName),
		ai.WithPrompt(buildPrompt(records, prefs)),
	)
	if err != nil {
		return "", fmt.Errorf("generating summary: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		s.logger.Warn("model returned empty summary")
		return FallbackText, nil
	}
	return text, nil
}

// buildPrompt renders the single natural-language prompt for the summary turn.
func buildPrompt(records []search.Internship, prefs conversation.Preferences) string {
	var b strings.Builder

	paid := prefs.Paid
	if paid == "" {
		paid = "unspecified"
	}

	fmt.Fprintf(&b, `You are a helpful assistant.
A user asked for internships with these preferences:
- Field: %s
- Location: %s
- Paid: %s

Below are the details for each internship (including a brief description).
For each internship, do ALL of the following:
1. Write a concise summary (1-2 sentences) about what the internship/company offers, focusing on how it fits or does not fit the user's preferences.
2. Include a pros and cons list using markdown bullets (`+"`- Pro: ...`, `- Con: ...`"+`).
IMPORTANT:
- Do NOT just repeat raw fields or list data again.
- Only return the analysis.
- Be specific and honest.

Internships:
`, prefs.Field, prefs.Location, paid)

	for i, rec := range records {
		link := rec.URL
		if link == "" {
			link = "#"
		}
		fmt.Fprintf(&b, `Internship %d:
Title: %s
Organization: %s
Location: %s
Salary: %s
Description: %s...
Link: %s

`, i+1, orNA(rec.Title), orNA(rec.Organization), orNA(rec.Location), rec.Salary(), firstWords(rec.Description, descriptionPreviewWords), link)
	}

	return strings.TrimSpace(b.String())
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// firstWords returns at most n whitespace-separated words of s.
func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
