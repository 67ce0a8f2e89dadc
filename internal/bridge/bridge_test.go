// ABOUTME: Tests for the session bridge command handling and error mapping.
// ABOUTME: Uses fake gateway and messenger collaborators; no network involved.

package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferenco/nova-bridge/internal/nova"
	"github.com/inferenco/nova-bridge/internal/session"
)

type fakeGateway struct {
	mu        sync.Mutex
	prompts   []nova.PromptRequest
	resp      *nova.Response
	promptErr error
	cleared   []string
	clearErr  error
}

func (f *fakeGateway) SendPrompt(_ context.Context, req nova.PromptRequest) (*nova.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, req)
	if f.promptErr != nil {
		return nil, f.promptErr
	}
	return f.resp, nil
}

func (f *fakeGateway) ClearHistory(_ context.Context, refID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, refID)
	return f.clearErr
}

type fakeMessenger struct {
	mu       sync.Mutex
	texts    []string
	chatIDs  []int64
	activity int
	sendErr  error
}

func (f *fakeMessenger) SendText(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.texts = append(f.texts, text)
	f.chatIDs = append(f.chatIDs, chatID)
	return nil
}

func (f *fakeMessenger) SendActivity(_ context.Context, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activity++
	return nil
}

func (f *fakeMessenger) sentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func testBridge(gateway *fakeGateway, messenger *fakeMessenger) (*Bridge, *session.Store) {
	store := session.NewStore()
	settings := Settings{
		Model:     "gpt-5-mini",
		Verbosity: "Medium",
		MaxTokens: 1024,
		Reasoning: nova.ReasoningSettings{Enabled: false},
	}
	return New(store, gateway, messenger, settings, nil), store
}

func TestHandleCommand_Help(t *testing.T) {
	gateway := &fakeGateway{}
	messenger := &fakeMessenger{}
	b, _ := testBridge(gateway, messenger)

	err := b.HandleCommand(context.Background(), 42, Command{Kind: KindHelp})
	require.NoError(t, err)

	texts := messenger.sentTexts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "/help - Show this help message")
	assert.Contains(t, texts[0], "/chat Hello, how are you?")
	assert.Empty(t, gateway.prompts, "help must not touch the gateway")
	assert.Empty(t, gateway.cleared)
}

func TestHandleCommand_PlainTextIgnored(t *testing.T) {
	gateway := &fakeGateway{}
	messenger := &fakeMessenger{}
	b, _ := testBridge(gateway, messenger)

	err := b.HandleCommand(context.Background(), 42, Command{Kind: KindPlainText, Raw: "hello there"})
	require.NoError(t, err)

	assert.Empty(t, messenger.sentTexts())
	assert.Empty(t, gateway.prompts)
}

func TestHandleCommand_Chat_ForwardsTrimmedPrompt(t *testing.T) {
	gateway := &fakeGateway{resp: &nova.Response{Text: "Hi"}}
	messenger := &fakeMessenger{}
	b, _ := testBridge(gateway, messenger)

	err := b.HandleCommand(context.Background(), 42, Command{Kind: KindChat, Raw: "/chat   hello  "})
	require.NoError(t, err)

	require.Len(t, gateway.prompts, 1)
	req := gateway.prompts[0]
	assert.Equal(t, "hello", req.Input)
	assert.Equal(t, "42", req.RefID)
	assert.Equal(t, "gpt-5-mini", req.Model)
	assert.Equal(t, "Medium", req.Verbosity)
	assert.Equal(t, uint32(1024), req.MaxTokens)
	assert.False(t, req.Reasoning)
	assert.Nil(t, req.ReasoningParams)

	assert.Equal(t, []string{"Hi"}, messenger.sentTexts())
}

func TestHandleCommand_Chat_BotSuffixForm(t *testing.T) {
	gateway := &fakeGateway{resp: &nova.Response{Text: "ok"}}
	messenger := &fakeMessenger{}
	b, _ := testBridge(gateway, messenger)

	err := b.HandleCommand(context.Background(), 42, Command{Kind: KindChat, Raw: "/chat@novabot hello"})
	require.NoError(t, err)

	require.Len(t, gateway.prompts, 1)
	assert.Equal(t, "hello", gateway.prompts[0].Input)
}

func TestHandleCommand_Chat_MissingPrompt(t *testing.T) {
	for _, raw := range []string{"/chat", "/chat   ", "/chat\t \t"} {
		gateway := &fakeGateway{}
		messenger := &fakeMessenger{}
		b, _ := testBridge(gateway, messenger)

		err := b.HandleCommand(context.Background(), 42, Command{Kind: KindChat, Raw: raw})
		assert.ErrorIs(t, err, ErrMissingPrompt, "raw=%q", raw)
		assert.Empty(t, gateway.prompts, "no gateway call for raw=%q", raw)
		assert.Empty(t, messenger.sentTexts())
	}
}

func TestHandleCommand_Chat_EmptyResponsePlaceholder(t *testing.T) {
	for _, text := range []string{"", "   "} {
		gateway := &fakeGateway{resp: &nova.Response{Text: text}}
		messenger := &fakeMessenger{}
		b, _ := testBridge(gateway, messenger)

		err := b.HandleCommand(context.Background(), 42, Command{Kind: KindChat, Raw: "/chat hello"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Nova Gateway returned an empty response."}, messenger.sentTexts(), "text=%q", text)
	}
}

func TestHandleCommand_Chat_GatewayFailure(t *testing.T) {
	gateway := &fakeGateway{promptErr: &nova.GatewayError{Status: 500, Message: "boom"}}
	messenger := &fakeMessenger{}
	b, _ := testBridge(gateway, messenger)

	err := b.HandleCommand(context.Background(), 42, Command{Kind: KindChat, Raw: "/chat hello"})

	var gerr *nova.GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Empty(t, messenger.sentTexts(), "no reply is sent on gateway failure")
}

func TestHandleCommand_Reset_Success(t *testing.T) {
	gateway := &fakeGateway{}
	messenger := &fakeMessenger{}
	b, store := testBridge(gateway, messenger)

	err := b.HandleCommand(context.Background(), 42, Command{Kind: KindReset})
	require.NoError(t, err)

	assert.Equal(t, []string{"42"}, gateway.cleared)
	assert.Equal(t, []string{"Conversation context cleared."}, messenger.sentTexts())

	// Reset confirms the token, it does not rotate it
	assert.Equal(t, "42", store.ResolveOrCreate(42))
}

func TestHandleCommand_Reset_GatewayFailure(t *testing.T) {
	gateway := &fakeGateway{clearErr: &nova.GatewayError{Status: 502, Message: "bad gateway"}}
	messenger := &fakeMessenger{}
	b, store := testBridge(gateway, messenger)

	err := b.HandleCommand(context.Background(), 42, Command{Kind: KindReset})

	var gerr *nova.GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Empty(t, messenger.sentTexts())
	assert.Equal(t, "42", store.ResolveOrCreate(42))
}

func TestHandleCommand_DeliveryFailure(t *testing.T) {
	gateway := &fakeGateway{}
	messenger := &fakeMessenger{sendErr: errors.New("network down")}
	b, _ := testBridge(gateway, messenger)

	err := b.HandleCommand(context.Background(), 42, Command{Kind: KindHelp})

	var derr *DeliveryError
	require.ErrorAs(t, err, &derr)
}

func TestNotifyError_GatewayError(t *testing.T) {
	messenger := &fakeMessenger{}
	b, _ := testBridge(&fakeGateway{}, messenger)

	err := fmt.Errorf("forwarding prompt: %w", &nova.GatewayError{Status: 500, Message: "boom"})
	require.NoError(t, b.NotifyError(context.Background(), 42, err))

	assert.Equal(t, []string{"Nova Gateway error: nova gateway error (500): boom"}, messenger.sentTexts())
}

func TestNotifyError_TransportError(t *testing.T) {
	messenger := &fakeMessenger{}
	b, _ := testBridge(&fakeGateway{}, messenger)

	err := fmt.Errorf("forwarding prompt: %w", &nova.TransportError{Err: errors.New("connection refused")})
	require.NoError(t, b.NotifyError(context.Background(), 42, err))

	texts := messenger.sentTexts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "Nova Gateway error:")
	assert.Contains(t, texts[0], "connection refused")
}

func TestNotifyError_MissingPrompt(t *testing.T) {
	messenger := &fakeMessenger{}
	b, _ := testBridge(&fakeGateway{}, messenger)

	require.NoError(t, b.NotifyError(context.Background(), 42, ErrMissingPrompt))

	assert.Equal(t, []string{"Please provide a message after /chat. Example: /chat Hello, how are you?"}, messenger.sentTexts())
}

func TestNotifyError_Fallback(t *testing.T) {
	messenger := &fakeMessenger{}
	b, _ := testBridge(&fakeGateway{}, messenger)

	require.NoError(t, b.NotifyError(context.Background(), 42, errors.New("unexpected")))

	assert.Equal(t, []string{"Something went wrong while handling your request. Please try again."}, messenger.sentTexts())
}

func TestNotifyError_DeliveryErrorSendsNothing(t *testing.T) {
	messenger := &fakeMessenger{}
	b, _ := testBridge(&fakeGateway{}, messenger)

	err := &DeliveryError{Err: errors.New("network down")}
	require.NoError(t, b.NotifyError(context.Background(), 42, err))

	assert.Empty(t, messenger.sentTexts())
}

func TestExtractPrompt(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"/chat hello", "hello", false},
		{"/chat hello world", "hello world", false},
		{"/chat\thello", "hello", false},
		{"/chat", "", true},
		{"/chat   ", "", true},
		{"/chat@novabot what's up?", "what's up?", false},
	}
	for _, tt := range tests {
		got, err := extractPrompt(tt.raw)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrMissingPrompt, "raw=%q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
	}
}
