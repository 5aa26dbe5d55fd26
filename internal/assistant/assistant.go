// Package assistant implements the conversational orchestrator: it drives
// the model through the fixed two-tool protocol (fetchInternships, then
// optionally summarizeInternships) and streams the final reply.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/jawellis/internship-finder/internal/conversation"
	"github.com/jawellis/internship-finder/internal/log"
	"github.com/jawellis/internship-finder/internal/search"
	"github.com/jawellis/internship-finder/internal/summary"
)

// systemDirective is prepended to every transcript before it reaches the
// model. It pins the interaction protocol: gather field and location, fetch,
// show the list, then offer a summary.
const systemDirective = `You are a helpful and highly reliable internship assistant.
1. Greet the user warmly and ask them warmly about their internship preferences.
- Always ask the user about the field (industry) and if they prefer paid or unpaid. Ask for location last.
2. You MUST always use the fetchInternships tool as soon as you have both field and location.
- When "fetchInternships" is called, ALWAYS output the list of internships to the user.
- DO NOT invent internships and NEVER return an empty list.
3. AFTER showing the fetched list, ask if the user wants a summary explaining why these fit their preferences.
- Only call summarizeInternships if the user confirms they want a summary.
- Only provide a concise summary with pros and cons.
- Never guess, rewrite, or change the field or location; always use the user's input.
- Be friendly and concise.`

// StreamCallback receives each text chunk of the reply as it is generated.
// Returning an error aborts the stream.
type StreamCallback func(ctx context.Context, text string) error

// Fetcher retrieves internships for a field and location.
// *search.Client is the production implementation.
type Fetcher interface {
	Fetch(ctx context.Context, field, location string) search.Result
}

// Summarizer produces a fit assessment for fetched internships.
// *summary.Summarizer is the production implementation.
type Summarizer interface {
	Summarize(ctx context.Context, records []search.Internship, prefs conversation.Preferences) (string, error)
}

// Config contains all required parameters for the assistant agent.
type Config struct {
	Genkit        *genkit.Genkit
	Conversations *conversation.Store
	Fetcher       Fetcher
	Summarizer    Summarizer
	Logger        log.Logger

	// ModelName is the provider-qualified model name
	// (e.g. "googleai/gemini-2.5-flash", "ollama/llama3.3").
	ModelName string
}

// validate checks that all required parameters are present.
func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Conversations == nil {
		return errors.New("conversation store is required")
	}
	if cfg.Fetcher == nil {
		return errors.New("fetcher is required")
	}
	if cfg.Summarizer == nil {
		return errors.New("summarizer is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	return nil
}

// Agent is the internship assistant orchestrator.
//
// Agent is stateless apart from the injected conversation store; all
// configuration is captured immutably at construction, so a single Agent is
// safe for concurrent requests.
type Agent struct {
	g             *genkit.Genkit
	conversations *conversation.Store
	fetcher       Fetcher
	summarizer    Summarizer
	logger        log.Logger

	modelName string
	toolRefs  []ai.ToolRef
}

// New creates an Agent and registers its tools with Genkit.
//
// Tool registration happens here rather than in a separate setup step so the
// tool schemas and the dispatch logic cannot drift apart.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	a := &Agent{
		g:             cfg.Genkit,
		conversations: cfg.Conversations,
		fetcher:       cfg.Fetcher,
		summarizer:    cfg.Summarizer,
		logger:        cfg.Logger,
		modelName:     cfg.ModelName,
	}
	a.toolRefs = a.defineTools()

	a.logger.Info("assistant agent initialized",
		"model", a.modelName,
		"tools", len(a.toolRefs),
	)
	return a, nil
}

// Respond runs one assistant turn over the client-supplied transcript and
// streams the reply through cb.
//
// The turn is a fixed two-phase protocol: a non-streaming decision call that
// may request one tool, then (after dispatching the tool) a streaming
// continuation. At most the first requested tool call is honored per turn.
// The returned string is the complete reply text.
func (a *Agent) Respond(ctx context.Context, convID string, history []*ai.Message, cb StreamCallback) (string, error) {
	ctx = conversation.NewContext(ctx, convID)

	messages := make([]*ai.Message, 0, len(history)+1)
	messages = append(messages, ai.NewMessage(ai.RoleSystem, nil, ai.NewTextPart(systemDirective)))
	messages = append(messages, history...)

	// Decision turn: let the model pick a tool, but do not auto-execute it.
	// Dispatch stays in our hands so conversation state updates deterministically.
	decision, err := genkit.Generate(ctx, a.g,
		ai.WithModelName(a.modelName),
		ai.WithMessages(messages...),
		ai.WithTools(a.toolRefs...),
		ai.WithReturnToolRequests(true),
	)
	if err != nil {
		return "", fmt.Errorf("decision turn: %w", err)
	}

	requests := decision.ToolRequests()
	if len(requests) == 0 {
		return a.streamReply(ctx, messages, cb)
	}

	// Only the first tool call is honored; the protocol never needs more
	// than one per turn.
	req := requests[0]
	a.logger.Debug("model requested tool", "conversation", convID, "tool", req.Name)

	var output string
	switch req.Name {
	case search.ToolName:
		output, err = a.dispatchFetch(ctx, req.Input)
	case summary.ToolName:
		output, err = a.dispatchSummarize(ctx, req.Input)
	default:
		// Unknown tool name: ignore the request and answer directly rather
		// than failing the whole turn.
		a.logger.Warn("model requested unknown tool", "tool", req.Name)
		return a.streamReply(ctx, messages, cb)
	}
	if err != nil {
		return "", err
	}

	messages = append(messages, toolExchange(decision.Message, req, output)...)

	return a.streamReply(ctx, messages, cb)
}

// toolExchange returns the assistant message carrying the tool request and
// the matching tool-response message as an inseparable pair. Providers
// reject transcripts where a tool response has no matching request, so the
// two are never appended independently.
//
// The assistant message keeps only the tool-request parts of the decision:
// any text the model emitted alongside the call never reached the client,
// so replaying it would let the continuation reference a reply that was
// never shown.
func toolExchange(decision *ai.Message, req *ai.ToolRequest, output string) []*ai.Message {
	calls := make([]*ai.Part, 0, len(decision.Content))
	for _, part := range decision.Content {
		if part.Kind == ai.PartToolRequest {
			calls = append(calls, part)
		}
	}

	return []*ai.Message{
		ai.NewMessage(ai.RoleModel, decision.Metadata, calls...),
		ai.NewMessage(ai.RoleTool, nil, ai.NewToolResponsePart(&ai.ToolResponse{
			Name:   req.Name,
			Ref:    req.Ref,
			Output: output,
		})),
	}
}

// dispatchFetch decodes fetchInternships arguments, folds them into the
// conversation's preferences, runs the search, and caches the results.
func (a *Agent) dispatchFetch(ctx context.Context, rawArgs any) (string, error) {
	args, err := decodeArgs[search.Query](rawArgs)
	if err != nil {
		a.logger.Error("decoding fetchInternships arguments", "error", err)
		return "", err
	}

	convID := conversation.FromContext(ctx)
	prefs := a.conversations.MergePreferences(convID, conversation.Preferences{
		Field:    args.Field,
		Location: args.Location,
	})

	result := a.fetcher.Fetch(ctx, prefs.Field, prefs.Location)
	a.conversations.SetResults(convID, result.Internships)

	a.logger.Info("fetched internships",
		"conversation", convID,
		"field", prefs.Field,
		"location", prefs.Location,
		"count", len(result.Internships),
	)
	return result.Display, nil
}

// dispatchSummarize decodes summarizeInternships arguments for their
// preference payload, then summarizes the conversation's cached results.
// The records the model echoed into the arguments are ignored; the cache is
// authoritative, which keeps the model from summarizing invented listings.
func (a *Agent) dispatchSummarize(ctx context.Context, rawArgs any) (string, error) {
	args, err := decodeArgs[summary.Request](rawArgs)
	if err != nil {
		a.logger.Error("decoding summarizeInternships arguments", "error", err)
		return "", err
	}

	convID := conversation.FromContext(ctx)
	prefs := a.conversations.MergePreferences(convID, args.UserPreferences)
	records := a.conversations.Results(convID)

	text, err := a.summarizer.Summarize(ctx, records, prefs)
	if err != nil {
		return "", fmt.Errorf("summarizing internships: %w", err)
	}

	a.logger.Info("summarized internships", "conversation", convID, "count", len(records))
	return text, nil
}

// streamReply runs the streaming continuation over messages and returns the
// complete reply text. An empty model reply degrades to the generic failure
// reply, delivered through the same stream.
//
// WithReturnToolRequests keeps Genkit from auto-executing any tool call the
// model emits here; a turn dispatches at most one tool, and only from the
// decision phase. Requests surfacing in this phase are dropped.
func (a *Agent) streamReply(ctx context.Context, messages []*ai.Message, cb StreamCallback) (string, error) {
	opts := []ai.GenerateOption{
		ai.WithModelName(a.modelName),
		ai.WithMessages(messages...),
		ai.WithReturnToolRequests(true),
	}
	if cb != nil {
		opts = append(opts, ai.WithStreaming(func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
			for _, part := range chunk.Content {
				if part.Text == "" {
					continue
				}
				if err := cb(ctx, part.Text); err != nil {
					return err
				}
			}
			return nil
		}))
	}

	resp, err := genkit.Generate(ctx, a.g, opts...)
	if err != nil {
		return "", fmt.Errorf("reply turn: %w", err)
	}
	if reqs := resp.ToolRequests(); len(reqs) > 0 {
		a.logger.Debug("dropping tool request from reply turn", "tool", reqs[0].Name)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		a.logger.Warn("model returned empty reply")
		text = ReplyGenericFailure
		if cb != nil {
			if err := cb(ctx, text); err != nil {
				return "", err
			}
		}
	}
	return text, nil
}

// decodeArgs converts a tool request's Input into T. Providers deliver
// arguments either as a decoded map or as a raw JSON string; both forms are
// handled. Failures wrap ErrToolArguments.
func decodeArgs[T any](in any) (T, error) {
	var out T

	var raw []byte
	switch v := in.(type) {
	case nil:
		return out, nil
	case string:
		raw = []byte(v)
	case json.RawMessage:
		raw = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return out, fmt.Errorf("%w: %v", ErrToolArguments, err)
		}
		raw = b
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrToolArguments, err)
	}
	return out, nil
}
