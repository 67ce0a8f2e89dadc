// ABOUTME: Session bridge connecting chat commands to the Nova gateway.
// ABOUTME: Resolves continuity tokens, forwards prompts, and maps errors to user text.

package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/inferenco/nova-bridge/internal/nova"
	"github.com/inferenco/nova-bridge/internal/session"
)

const helpText = "Hello! I'm a Nova Gateway assistant.\n" +
	"\nUse these commands:\n" +
	"/help - Show this help message\n" +
	"/reset - Clear the conversation context\n" +
	"/chat - Chat with Nova Gateway\n" +
	"\nExample: /chat Hello, how are you?"

const (
	resetConfirmation        = "Conversation context cleared."
	emptyResponsePlaceholder = "Nova Gateway returned an empty response."
	missingPromptMessage     = "Please provide a message after /chat. Example: /chat Hello, how are you?"
	fallbackErrorMessage     = "Something went wrong while handling your request. Please try again."
)

// Gateway defines what the bridge needs from the Nova client.
type Gateway interface {
	SendPrompt(ctx context.Context, req nova.PromptRequest) (*nova.Response, error)
	ClearHistory(ctx context.Context, refID string) error
}

// Messenger delivers text and activity signals to a chat. Implementations
// belong to the frontend; the bridge never talks to Telegram directly.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendActivity(ctx context.Context, chatID int64) error
}

// Settings are the configured model parameters embedded in every prompt.
type Settings struct {
	Model     string
	Verbosity string
	MaxTokens uint32
	Reasoning nova.ReasoningSettings
}

// Bridge orchestrates inbound commands: it resolves continuity tokens,
// keeps a typing indicator running while the gateway call is outstanding,
// and formats results or failures for delivery. The bridge itself is
// stateless; all persistent state lives in the session store.
type Bridge struct {
	store     *session.Store
	gateway   Gateway
	messenger Messenger
	settings  Settings
	logger    *slog.Logger
}

// New creates a session bridge.
func New(store *session.Store, gateway Gateway, messenger Messenger, settings Settings, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		store:     store,
		gateway:   gateway,
		messenger: messenger,
		settings:  settings,
		logger:    logger.With("component", "bridge"),
	}
}

// HandleCommand processes one inbound unit for a chat. Errors other than
// *DeliveryError are recoverable: callers should pass them to NotifyError
// rather than aborting the dispatch.
func (b *Bridge) HandleCommand(ctx context.Context, chatID int64, cmd Command) error {
	switch cmd.Kind {
	case KindHelp:
		return b.deliver(ctx, chatID, helpText)
	case KindReset:
		return b.resetConversation(ctx, chatID)
	case KindChat:
		return b.forwardPrompt(ctx, chatID, cmd.Raw)
	case KindPlainText:
		// Plain messages are ignored; only commands are processed.
		return nil
	default:
		return fmt.Errorf("unknown command kind: %d", cmd.Kind)
	}
}

// NotifyError sends the user-facing rendering of a recoverable error to the
// chat. Delivery failures yield no message, since the channel that would
// carry it is the thing that failed.
func (b *Bridge) NotifyError(ctx context.Context, chatID int64, err error) error {
	var derr *DeliveryError
	if errors.As(err, &derr) {
		return nil
	}
	return b.deliver(ctx, chatID, userMessage(err))
}

// resetConversation clears the gateway-side history for the chat's token.
// On success the resolved token is written back unchanged: reset confirms
// the identity, it does not rotate it.
func (b *Bridge) resetConversation(ctx context.Context, chatID int64) error {
	token := b.store.ResolveOrCreate(chatID)

	typing := startTyping(ctx, b.messenger, chatID, b.logger)
	defer typing.Stop()

	if err := b.gateway.ClearHistory(ctx, token); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	b.store.ReplaceToken(chatID, token)

	b.logger.Info("conversation reset", "chat_id", chatID)
	return b.deliver(ctx, chatID, resetConfirmation)
}

// forwardPrompt extracts the prompt from the raw command text and sends it
// to the gateway under the chat's continuity token.
func (b *Bridge) forwardPrompt(ctx context.Context, chatID int64, raw string) error {
	prompt, err := extractPrompt(raw)
	if err != nil {
		return err
	}

	token := b.store.ResolveOrCreate(chatID)
	req := nova.NewPromptRequest(token, prompt, b.settings.Model, b.settings.Verbosity, b.settings.MaxTokens, b.settings.Reasoning)

	typing := startTyping(ctx, b.messenger, chatID, b.logger)
	defer typing.Stop()

	resp, err := b.gateway.SendPrompt(ctx, req)
	if err != nil {
		return fmt.Errorf("forwarding prompt: %w", err)
	}

	return b.deliver(ctx, chatID, formatResponse(resp))
}

// deliver sends text to the chat, wrapping failures as *DeliveryError so
// the dispatcher can tell a broken channel apart from per-event errors.
func (b *Bridge) deliver(ctx context.Context, chatID int64, text string) error {
	if err := b.messenger.SendText(ctx, chatID, text); err != nil {
		return &DeliveryError{Err: err}
	}
	return nil
}

// formatResponse normalizes an absent or blank gateway payload to a fixed
// placeholder; any other text passes through unmodified.
func formatResponse(resp *nova.Response) string {
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return emptyResponsePlaceholder
	}
	return resp.Text
}

// userMessage maps a recoverable error to its one-line chat rendering.
func userMessage(err error) string {
	var gerr *nova.GatewayError
	var terr *nova.TransportError
	switch {
	case errors.As(err, &gerr):
		return fmt.Sprintf("Nova Gateway error: %v", gerr)
	case errors.As(err, &terr):
		return fmt.Sprintf("Nova Gateway error: %v", terr)
	case errors.Is(err, ErrMissingPrompt):
		return missingPromptMessage
	default:
		return fallbackErrorMessage
	}
}
