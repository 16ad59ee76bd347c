package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client holds the resolved endpoints of an upstream HTTP API.
type Client struct {
	base      *url.URL
	http      *http.Client
	modelsUrl *url.URL
	chatUrl   *url.URL
}

// ClientConfig holds the configuration for the client
type ClientConfig struct {
	BaseURL    string
	ModelsPath string
	ChatPath   string
	// Timeout bounds every upstream call, including reading the body.
	Timeout time.Duration
}

// NewClient validates the base URL and resolves the endpoint paths against it.
func NewClient(config ClientConfig) (*Client, error) {
	raw := strings.TrimSpace(config.BaseURL)
	if raw == "" {
		return nil, errors.New("upstream address is empty")
	}
	// "localhost:11434" and "127.0.0.1:11434" are accepted the way Ollama's
	// own clients accept them.
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	baseURL, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream address %q: %w", config.BaseURL, err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid upstream address %q: unsupported scheme %q", config.BaseURL, baseURL.Scheme)
	}
	if baseURL.Host == "" {
		return nil, fmt.Errorf("invalid upstream address %q: missing host", config.BaseURL)
	}
	baseURL.Path = strings.TrimSuffix(baseURL.Path, "/")

	return &Client{
		base:      baseURL,
		http:      &http.Client{Timeout: config.Timeout},
		modelsUrl: baseURL.JoinPath(config.ModelsPath),
		chatUrl:   baseURL.JoinPath(config.ChatPath),
	}, nil
}

func (c *Client) GetModelsURL() string {
	return c.modelsUrl.String()
}

func (c *Client) GetChatURL() string {
	return c.chatUrl.String()
}
