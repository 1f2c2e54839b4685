// Package api defines the wire types of the distribution server endpoints
// exercised by the smoke test.
//
// Only the fields the checks read are modelled. The server returns more;
// unknown fields are ignored on decode.
package api

// HealthStatusOK is the status reported by a ready server.
const HealthStatusOK = "OK"

// HealthResponse is returned by GET /v1/health.
type HealthResponse struct {
	// Status is "OK" once every provider is initialized.
	Status string `json:"status"`
}

// Model is one entry of GET /v1/models.
//
// Older servers identify models with "identifier", OpenAI-compatible ones
// with "id"; either may be set.
type Model struct {
	ID         string `json:"id,omitempty"`
	Identifier string `json:"identifier,omitempty"`

	// ProviderID is the inference provider serving the model.
	ProviderID string `json:"provider_id,omitempty"`

	// ModelType is "llm" or "embedding".
	ModelType string `json:"model_type,omitempty"`
}

// Name returns whichever identifier the server populated.
func (m Model) Name() string {
	if m.Identifier != "" {
		return m.Identifier
	}
	return m.ID
}

// ModelsResponse is returned by GET /v1/models.
type ModelsResponse struct {
	Data []Model `json:"data"`
}

// ChatMessage is a single OpenAI-style chat message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the body of POST /v1/chat/completions.
type ChatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

// ChatCompletionChoice is one generated alternative.
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

// ChatCompletionResponse is returned by POST /v1/chat/completions.
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
}

// ErrorResponse is the error body returned by the server.
type ErrorResponse struct {
	// Detail is the human-readable error message.
	Detail string `json:"detail"`
}
