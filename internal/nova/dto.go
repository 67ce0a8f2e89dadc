// ABOUTME: Wire types for the Nova gateway HTTP API.
// ABOUTME: Mirrors the POST /ai request body and its response/error payloads.

package nova

// PromptRequest is the JSON body for POST /ai. Optional fields are omitted
// from the wire when unset. Immutable once built.
type PromptRequest struct {
	RefID           string           `json:"ref_id,omitempty"`
	Input           string           `json:"input"`
	Model           string           `json:"model"`
	Verbosity       string           `json:"verbosity"`
	MaxTokens       uint32           `json:"max_tokens"`
	Reasoning       bool             `json:"reasoning"`
	ReasoningParams *ReasoningParams `json:"reasoning_params,omitempty"`
	ImageURLs       []string         `json:"image_urls,omitempty"`
}

// ReasoningParams carries the optional reasoning tuning forwarded to the gateway.
type ReasoningParams struct {
	Effort string `json:"effort,omitempty"`
}

// ReasoningSettings is the configured reasoning behavior for outgoing prompts.
type ReasoningSettings struct {
	Enabled bool
	Effort  string
}

// Response is the gateway's reply to a prompt. An absent or blank text
// payload is a valid response, not an error.
type Response struct {
	Text string `json:"text"`
}

// errorResponse is the optional JSON body accompanying non-success statuses.
type errorResponse struct {
	Message string `json:"message"`
}

// NewPromptRequest assembles a prompt request with the configured model
// parameters. ReasoningParams are attached only when reasoning is enabled.
func NewPromptRequest(refID, input, model, verbosity string, maxTokens uint32, reasoning ReasoningSettings) PromptRequest {
	req := PromptRequest{
		RefID:     refID,
		Input:     input,
		Model:     model,
		Verbosity: verbosity,
		MaxTokens: maxTokens,
		Reasoning: reasoning.Enabled,
	}
	if reasoning.Enabled {
		req.ReasoningParams = &ReasoningParams{Effort: reasoning.Effort}
	}
	return req
}
