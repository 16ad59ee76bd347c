// Package api is the client side of the gateway, used by the terminal console.
package api

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

	serverClient "github.com/bz888/gunther/internal/api/server/client"
	"github.com/bz888/gunther/internal/logger"
)

const maxErrorBody = 4096

// Error is a non-2xx answer from the gateway. Message is what the user should see.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Client talks to a running gateway over HTTP.
type Client struct {
	chatURL   string
	healthURL string
	http      *http.Client
	log       *logger.Logger
}

func NewClient(gatewayURL string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(gatewayURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid gateway URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid gateway URL %q: scheme must be http or https", gatewayURL)
	}

	return &Client{
		chatURL:   base.JoinPath("api", "chat").String(),
		healthURL: base.JoinPath("api", "health").String(),
		http:      &http.Client{Timeout: timeout},
		log:       logger.NewLogger("api client"),
	}, nil
}

// Chat sends one message and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(serverClient.ChatRequest{Message: text})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp serverClient.ChatResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Health fetches the gateway's view of the inference server.
func (c *Client) Health(ctx context.Context) (*serverClient.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return nil, err
	}

	var resp serverClient.HealthResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).Error("Failed to reach the gateway")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &Error{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
		c.log.WithField("status", resp.StatusCode).WithError(apiErr).Warn("Gateway returned an error")
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}

// errorMessage picks the user-facing text from an error body: the validation
// summary, then a string detail, then the status text.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil && detail != "" {
			return detail
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}
