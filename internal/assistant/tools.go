package assistant

import (
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/jawellis/internship-finder/internal/search"
	"github.com/jawellis/internship-finder/internal/summary"
)

// defineTools registers the two protocol tools with Genkit and returns their
// refs for ai.WithTools.
//
// The decision turn uses ai.WithReturnToolRequests, so these handlers are not
// invoked on the hot path; registration delivers the input schemas to the
// model. The handlers still route through the same dispatch methods, so an
// auto-executed call (e.g. from the Genkit DevUI) behaves identically.
func (a *Agent) defineTools() []ai.ToolRef {
	fetchTool := genkit.DefineTool(a.g, search.ToolName, search.ToolDescription,
		func(ctx *ai.ToolContext, input search.Query) (string, error) {
			return a.dispatchFetch(ctx, map[string]any{
				"field":    input.Field,
				"location": input.Location,
			})
		})

	summarizeTool := genkit.DefineTool(a.g, summary.ToolName, summary.ToolDescription,
		func(ctx *ai.ToolContext, input summary.Request) (string, error) {
			return a.dispatchSummarize(ctx, map[string]any{
				"internships":     input.Internships,
				"userPreferences": input.UserPreferences,
			})
		})

	return []ai.ToolRef{fetchTool, summarizeTool}
}
