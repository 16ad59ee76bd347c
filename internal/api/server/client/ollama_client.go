package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaClient represents a client for the Ollama API
type OllamaClient struct {
	Client
}

// OllamaClientInterface is what the handlers need from the inference server.
type OllamaClientInterface interface {
	ListModels(ctx context.Context) ([]OllamaModel, error)
	Chat(ctx context.Context, model string, messages []OllamaMessage) (*OllamaMessageResponse, error)
}

const (
	ollamaModelsPath = "/api/tags"
	ollamaChatPath   = "/api/chat"

	// upstream error bodies are only read for logging
	maxErrorBody = 4 << 10
)

// NewOllamaClient creates a new Ollama API client. It does not contact the server.
func NewOllamaClient(baseURL string, timeout time.Duration) (*OllamaClient, error) {
	c, err := NewClient(ClientConfig{
		BaseURL:    baseURL,
		ModelsPath: ollamaModelsPath,
		ChatPath:   ollamaChatPath,
		Timeout:    timeout,
	})
	if err != nil {
		return nil, err
	}
	return &OllamaClient{Client: *c}, nil
}

type OllamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []OllamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type OllamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OllamaMessageResponse struct {
	Model              string        `json:"model"`
	CreatedAt          string        `json:"created_at"`
	Message            OllamaMessage `json:"message"`
	Done               bool          `json:"done"`
	DoneReason         string        `json:"done_reason,omitempty"`
	TotalDuration      int64         `json:"total_duration"`
	LoadDuration       int64         `json:"load_duration"`
	PromptEvalCount    int           `json:"prompt_eval_count"`
	PromptEvalDuration int64         `json:"prompt_eval_duration"`
	EvalCount          int           `json:"eval_count"`
	EvalDuration       int64         `json:"eval_duration"`
	Error              string        `json:"error,omitempty"`
}

type ModelsResponse struct {
	Models []OllamaModel `json:"models"`
}

type OllamaModel struct {
	Name       string       `json:"name"`
	ModifiedAt time.Time    `json:"modified_at"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest"`
	Details    ModelDetails `json:"details"`
}

type Families []string

// ModelDetails Details represents the details of a model.
type ModelDetails struct {
	Format            string   `json:"format"`
	Family            string   `json:"family"`
	Families          Families `json:"families"`
	ParameterSize     string   `json:"parameter_size"`
	QuantizationLevel string   `json:"quantization_level"`
}

// ListModels fetches the locally available models. The gateway only uses it as a liveness probe.
func (c *OllamaClient) ListModels(ctx context.Context) ([]OllamaModel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.GetModelsURL(), nil)
	if err != nil {
		return nil, &UpstreamError{Kind: KindUnknown, Message: "failed to create models request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	var response ModelsResponse
	if err := c.do(req, &response); err != nil {
		return nil, err
	}
	return response.Models, nil
}

// Chat sends a single non-streaming chat request and returns the complete reply.
func (c *OllamaClient) Chat(ctx context.Context, model string, messages []OllamaMessage) (*OllamaMessageResponse, error) {
	bts, err := json.Marshal(OllamaChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return nil, &UpstreamError{Kind: KindUnknown, Message: "failed to encode chat request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.GetChatURL(), bytes.NewReader(bts))
	if err != nil {
		return nil, &UpstreamError{Kind: KindUnknown, Message: "failed to create chat request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var response OllamaMessageResponse
	if err := c.do(req, &response); err != nil {
		return nil, err
	}
	if response.Error != "" {
		return nil, &UpstreamError{Kind: KindUnknown, Message: response.Error}
	}
	return &response, nil
}

// do executes req and decodes a successful JSON body into out. Every error it
// returns is an *UpstreamError.
func (c *OllamaClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return statusError(resp.StatusCode, readErrorMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// the body is read under the client timeout too
		if upstreamErr := transportError(err); upstreamErr.Kind == KindTimeout {
			return upstreamErr
		}
		return &UpstreamError{Kind: KindUnknown, StatusCode: resp.StatusCode, Message: "failed to decode upstream response", Cause: err}
	}
	return nil
}

// readErrorMessage extracts Ollama's {"error": "..."} message, falling back to the raw body.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

// UnmarshalJSON handles the custom unmarshalling for Families.
func (f *Families) UnmarshalJSON(data []byte) error {
	// If the JSON data is "null", return an empty Families slice.
	if string(data) == "null" {
		*f = Families{}
		return nil
	}

	// Otherwise, unmarshal the data as a regular slice of strings.
	var families []string
	if err := json.Unmarshal(data, &families); err != nil {
		return err
	}
	*f = Families(families)
	return nil
}
