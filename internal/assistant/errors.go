package assistant

import (
	"errors"
	"strings"
)

// ErrToolArguments indicates the model emitted a tool call whose arguments
// could not be decoded.
var ErrToolArguments = errors.New("invalid tool arguments")

// Fixed user-facing replies written into the response stream when a turn
// fails. Clients render stream text verbatim, so failures stay in-band.
const (
	// ReplyToolArguments is sent when a tool call carried undecodable arguments.
	ReplyToolArguments = "There was an error processing your request."

	// ReplyContextOverflow is sent when the model rejects the transcript for
	// token or context-length reasons.
	ReplyContextOverflow = "You've sent too many messages. Please start a new conversation."

	// ReplyGenericFailure covers every other model failure.
	ReplyGenericFailure = "Sorry, I didn't get a response. Please try again."
)

// contextOverflowMarkers are matched case-insensitively against provider
// error text. Providers do not agree on structured codes for context
// exhaustion, so substring matching on the message is the portable check.
var contextOverflowMarkers = []string{"token", "context", "length"}

// ReplyForError maps a turn failure to the fixed reply the user should see.
func ReplyForError(err error) string {
	if errors.Is(err, ErrToolArguments) {
		return ReplyToolArguments
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range contextOverflowMarkers {
		if strings.Contains(msg, marker) {
			return ReplyContextOverflow
		}
	}
	return ReplyGenericFailure
}
