package assistant

import (
	"context"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"

	"github.com/jawellis/internship-finder/internal/conversation"
	"github.com/jawellis/internship-finder/internal/log"
)

// Message is one transcript entry as clients send it: a role string and
// plain-text content.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Input defines the request payload for the ask flow.
type Input struct {
	ConversationID string    `json:"conversationId,omitempty"`
	Messages       []Message `json:"messages"`
}

// Output defines the completed response from the ask flow.
type Output struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversationId"`
}

// StreamChunk is the streaming output type for the ask flow.
type StreamChunk struct {
	Text string `json:"text"`
}

// FlowName is the registered name of the ask flow in Genkit.
const FlowName = "finder/ask"

// Flow is the type alias for the assistant's Genkit streaming flow.
// Exported for use in the api package.
type Flow = core.Flow[Input, Output, StreamChunk]

// Package-level singleton: genkit.DefineStreamingFlow panics when the same
// flow name is registered twice.
var (
	flowOnce sync.Once
	flow     *Flow
)

// NewFlow returns the ask flow singleton, initializing it on first call.
// Subsequent calls return the existing flow (parameters are ignored).
func NewFlow(g *genkit.Genkit, agent *Agent) *Flow {
	flowOnce.Do(func() {
		flow = agent.DefineFlow(g)
	})
	return flow
}

// ResetFlowForTesting resets the flow singleton so tests can initialize it
// with different configurations. Not safe for concurrent use.
func ResetFlowForTesting() {
	flowOnce = sync.Once{}
	flow = nil
}

// DefineFlow defines the Genkit streaming flow for the assistant.
//
// Use NewFlow instead of calling this directly; DefineFlow registers a
// global flow and panics when called twice.
//
// Turn failures are absorbed here: the flow classifies the error, streams
// the matching fixed reply, and completes normally. Clients read failures
// in-band from the text stream, never as transport errors. Context
// cancellation (client gone) is the one error that propagates.
func (a *Agent) DefineFlow(g *genkit.Genkit) *Flow {
	return genkit.DefineStreamingFlow(g, FlowName,
		func(ctx context.Context, input Input, streamCb func(context.Context, StreamChunk) error) (Output, error) {
			convID := input.ConversationID
			if convID == "" {
				convID = conversation.DefaultID
			}

			var cb StreamCallback
			if streamCb != nil {
				cb = func(ctx context.Context, text string) error {
					return streamCb(ctx, StreamChunk{Text: text})
				}
			}

			history := toAIMessages(a.logger, input.Messages)
			text, err := a.Respond(ctx, convID, history, cb)
			if err != nil {
				if ctx.Err() != nil {
					return Output{ConversationID: convID}, ctx.Err()
				}

				reply := ReplyForError(err)
				a.logger.Error("assistant turn failed",
					"conversation", convID,
					"error", err,
					"reply", reply,
				)
				if cb != nil {
					// Best-effort: the client may already be gone.
					_ = cb(ctx, reply)
				}
				return Output{Response: reply, ConversationID: convID}, nil
			}

			return Output{Response: text, ConversationID: convID}, nil
		},
	)
}

// toAIMessages converts wire messages to Genkit messages. Unrecognized roles
// are treated as user messages so a single malformed entry cannot fail the
// whole transcript.
func toAIMessages(logger log.Logger, msgs []Message) []*ai.Message {
	out := make([]*ai.Message, 0, len(msgs))
	for _, m := range msgs {
		role := ai.RoleUser
		switch m.Role {
		case "user", "human":
			role = ai.RoleUser
		case "assistant", "ai", "model":
			role = ai.RoleModel
		case "system":
			role = ai.RoleSystem
		case "tool":
			role = ai.RoleTool
		default:
			logger.Warn("unrecognized message role, treating as user", "role", m.Role)
		}
		out = append(out, ai.NewMessage(role, nil, ai.NewTextPart(m.Content)))
	}
	return out
}
