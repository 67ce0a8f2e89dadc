// ABOUTME: HTTP client for the Nova inference gateway.
// ABOUTME: Sends prompts with rate-limit backoff and normalizes gateway failures.

package nova

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// promptPath is the single gateway endpoint for both prompts and history clears.
const promptPath = "/ai"

const (
	// maxAttempts bounds the retry loop for rate-limited prompt requests.
	maxAttempts = 3
	// retryBaseDelay is multiplied by the attempt number for linear backoff.
	retryBaseDelay = 500 * time.Millisecond
)

// GatewayError is a failure reported by the gateway itself, carrying the
// HTTP status and a human-readable message (gateway-supplied or synthesized
// from the raw response body).
type GatewayError struct {
	Status  int
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("nova gateway error (%d): %s", e.Status, e.Message)
}

// TransportError is a network, protocol, or decode failure that prevented a
// well-formed gateway response from being obtained.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("http error: %s", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client communicates with the Nova gateway HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a gateway client. The per-call timeout is enforced at
// the transport layer; trailing slashes on the base URL are ignored.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// SendPrompt posts a prompt to the gateway and decodes the response.
// Rate-limited attempts (429) are retried with linear backoff, 500ms times
// the attempt number, up to three attempts total; the final 429 is surfaced
// as a *GatewayError. Other non-success statuses fail without retry.
func (c *Client) SendPrompt(ctx context.Context, req PromptRequest) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("marshaling request: %w", err)}
	}

	var resp *http.Response
	for attempt := 1; ; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+promptPath, bytes.NewReader(body))
		if err != nil {
			return nil, &TransportError{Err: fmt.Errorf("creating request: %w", err)}
		}
		c.setHeaders(httpReq)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err = c.httpClient.Do(httpReq)
		if err != nil {
			return nil, &TransportError{Err: fmt.Errorf("sending prompt: %w", err)}
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxAttempts {
			break
		}

		// Rate limited: discard this response and back off before retrying
		resp.Body.Close()
		if err := sleepContext(ctx, retryBaseDelay*time.Duration(attempt)); err != nil {
			return nil, &TransportError{Err: fmt.Errorf("waiting for retry: %w", err)}
		}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, gatewayFailure(resp, synthesizePromptMessage)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decoding response: %w", err)}
	}
	return &out, nil
}

// ClearHistory deletes the gateway-side conversation history for the given
// continuity token. The ref_id query parameter is omitted when the token is
// empty. Single attempt; rate limiting is not retried here.
func (c *Client) ClearHistory(ctx context.Context, refID string) error {
	target := c.baseURL + promptPath
	if refID != "" {
		q := url.Values{}
		q.Set("ref_id", refID)
		target += "?" + q.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("creating request: %w", err)}
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("clearing history: %w", err)}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return gatewayFailure(resp, synthesizeClearMessage)
	}
	return nil
}

// setHeaders attaches the bearer token shared by all gateway calls.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// gatewayFailure reads the response body and builds a *GatewayError. A
// structured {"message": ...} field wins; otherwise a message embedding the
// status code and raw body is synthesized so the failure is never cryptic.
func gatewayFailure(resp *http.Response, synthesize func(status int, body string) string) error {
	raw, _ := io.ReadAll(resp.Body)
	body := string(raw)

	var payload errorResponse
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return &GatewayError{Status: resp.StatusCode, Message: payload.Message}
	}

	return &GatewayError{Status: resp.StatusCode, Message: synthesize(resp.StatusCode, body)}
}

func synthesizePromptMessage(status int, body string) string {
	if body == "" {
		return fmt.Sprintf("request failed with status %d", status)
	}
	return fmt.Sprintf("request failed with status %d: %s", status, body)
}

func synthesizeClearMessage(status int, body string) string {
	if body == "" {
		return fmt.Sprintf("failed to clear history: status %d", status)
	}
	return fmt.Sprintf("failed to clear history: status %d: %s", status, body)
}

// sleepContext waits for the given duration, returning early with the
// context's error if it is cancelled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
