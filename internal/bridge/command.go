// ABOUTME: Inbound command model for the session bridge.
// ABOUTME: Defines command kinds and prompt extraction from raw command text.

package bridge

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind identifies the inbound event types the bridge handles.
type Kind int

const (
	// KindHelp requests the static help text.
	KindHelp Kind = iota
	// KindReset clears the gateway-side conversation history for the chat.
	KindReset
	// KindChat forwards a prompt to the gateway. Raw carries the full
	// command text including the command token itself.
	KindChat
	// KindPlainText is a non-command message; the bridge ignores it.
	KindPlainText
)

// Command is one parsed inbound unit delivered by the frontend.
type Command struct {
	Kind Kind
	Raw  string
}

// extractPrompt strips the command token up to and including the first
// whitespace and trims the remainder. A command with no argument, or whose
// argument trims to empty, yields ErrMissingPrompt.
func extractPrompt(raw string) (string, error) {
	idx := strings.IndexFunc(raw, unicode.IsSpace)
	if idx < 0 {
		return "", ErrMissingPrompt
	}

	_, width := utf8.DecodeRuneInString(raw[idx:])
	prompt := strings.TrimSpace(raw[idx+width:])
	if prompt == "" {
		return "", ErrMissingPrompt
	}
	return prompt, nil
}
