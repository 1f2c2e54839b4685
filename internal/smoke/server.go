package smoke

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tsingmao/stackdist/internal/api"
)

var (
	// ErrUnhealthy is returned when the server never reports a healthy status.
	ErrUnhealthy = errors.New("server did not become healthy")

	// ErrModelNotListed is returned when /v1/models lacks the expected model.
	ErrModelNotListed = errors.New("model not listed by server")

	// ErrEmptyCompletion is returned when a chat completion has no content.
	ErrEmptyCompletion = errors.New("chat completion returned no content")
)

// chatPrompt is sent by the chat completion check.
const chatPrompt = "Hello! Reply with a short greeting."

// ServerClient talks to a running distribution server.
type ServerClient struct {
	client *resty.Client
}

// NewServerClient returns a client for the server at baseURL. timeout bounds
// each request.
func NewServerClient(baseURL string, timeout time.Duration) *ServerClient {
	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetError(&api.ErrorResponse{}).
		SetHeader("Accept", "application/json")
	return &ServerClient{client: cli}
}

// Health queries GET /v1/health.
//
// Returns:
//   - nil when the server reports "OK"
//   - Error describing the transport failure or the reported status
func (s *ServerClient) Health(ctx context.Context) error {
	var out api.HealthResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/health")
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	if err := mapHTTPError(resp); err != nil {
		return err
	}
	if out.Status != api.HealthStatusOK {
		return fmt.Errorf("health status %q", out.Status)
	}
	return nil
}

// Models queries GET /v1/models.
func (s *ServerClient) Models(ctx context.Context) ([]api.Model, error) {
	var out api.ModelsResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/models")
	if err != nil {
		return nil, fmt.Errorf("models request: %w", err)
	}
	if err := mapHTTPError(resp); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// RequireModel checks that model is listed by GET /v1/models.
func (s *ServerClient) RequireModel(ctx context.Context, model string) error {
	models, err := s.Models(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(models))
	for _, m := range models {
		if m.Name() == model {
			return nil
		}
		names = append(names, m.Name())
	}
	return fmt.Errorf("%w: %s (available: %s)", ErrModelNotListed, model, strings.Join(names, ", "))
}

// Chat sends a single-turn POST /v1/chat/completions and returns the reply.
func (s *ServerClient) Chat(ctx context.Context, model string) (string, error) {
	var out api.ChatCompletionResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(api.ChatCompletionRequest{
			Model:     model,
			Messages:  []api.ChatMessage{{Role: "user", Content: chatPrompt}},
			MaxTokens: 64,
		}).
		SetResult(&out).
		Post("/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if err := mapHTTPError(resp); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return out.Choices[0].Message.Content, nil
}

// mapHTTPError turns a non-2xx response into an error carrying the server's
// detail message when it sent one.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if e, ok := resp.Error().(*api.ErrorResponse); ok && e.Detail != "" {
		body = e.Detail
	}
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}
