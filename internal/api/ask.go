package api

import (
	"encoding/json"
	"net/http"

	"github.com/jawellis/internship-finder/internal/assistant"
	"github.com/jawellis/internship-finder/internal/conversation"
	"github.com/jawellis/internship-finder/internal/log"
)

// conversationIDHeader carries the conversation ID when clients prefer not
// to put it in the body.
const conversationIDHeader = "X-Conversation-ID"

// maxAskBodyBytes caps the request body. Transcripts are plain text; 1MB is
// far beyond any context window.
const maxAskBodyBytes = 1 << 20

// askHandler serves the streaming assistant endpoint.
//
// POST /ask takes the full transcript and streams the reply as chunked
// text/plain. Turn failures arrive in-band as fixed reply sentences on a
// 200 response; only request validation produces a non-200 status.
type askHandler struct {
	logger log.Logger
	flow   *assistant.Flow
}

// askRequest mirrors the wire body. Messages stays raw so the handler can
// distinguish "absent" and "not an array" from an empty transcript.
type askRequest struct {
	ConversationID string          `json:"conversationId"`
	Messages       json.RawMessage `json:"messages"`
}

func (h *askHandler) ask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAskBodyBytes)

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("decoding ask request", "error", err)
		writeError(w, http.StatusBadRequest, "No messages provided")
		return
	}

	// A JSON null decodes into a nil slice without error, so the nil check
	// is what actually rejects {"messages": null}.
	var messages []assistant.Message
	if len(req.Messages) == 0 || json.Unmarshal(req.Messages, &messages) != nil || messages == nil {
		writeError(w, http.StatusBadRequest, "No messages provided")
		return
	}

	convID := req.ConversationID
	if convID == "" {
		convID = r.Header.Get(conversationIDHeader)
	}
	if convID == "" {
		convID = conversation.DefaultID
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	ctx := r.Context()
	input := assistant.Input{ConversationID: convID, Messages: messages}
	h.logger.Debug("ask stream started", "conversation", convID, "messages", len(messages))

	wrote := false
	for streamValue, err := range h.flow.Stream(ctx, input) {
		if ctx.Err() != nil {
			h.logger.Info("client disconnected", "conversation", convID)
			return
		}

		if err != nil {
			// The flow absorbs turn failures in-band; reaching here means
			// something below it broke. The client still gets a readable
			// sentence on the open stream.
			h.logger.Error("ask stream failed", "conversation", convID, "error", err)
			if _, werr := w.Write([]byte(assistant.ReplyForError(err))); werr != nil {
				h.logger.Debug("writing failure reply", "error", werr)
			}
			flusher.Flush()
			return
		}

		if streamValue.Done {
			break
		}

		if streamValue.Stream.Text != "" {
			if _, werr := w.Write([]byte(streamValue.Stream.Text)); werr != nil {
				// Write failure usually means the connection closed.
				h.logger.Debug("writing stream chunk", "error", werr)
				return
			}
			wrote = true
			flusher.Flush()
		}
	}

	h.logger.Debug("ask stream completed", "conversation", convID, "streamed", wrote)
}

// health is a simple health check endpoint for container probes.
func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
