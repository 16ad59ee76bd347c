package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OllamaClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewOllamaClient(server.URL, 2*time.Second)
	require.NoError(t, err)
	return c
}

func TestNewOllamaClientResolvesEndpoints(t *testing.T) {
	c, err := NewOllamaClient("http://ollama:11434/", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "http://ollama:11434/api/tags", c.GetModelsURL())
	assert.Equal(t, "http://ollama:11434/api/chat", c.GetChatURL())

	c, err = NewOllamaClient("localhost:11434", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/api/chat", c.GetChatURL())
}

func TestNewOllamaClientRejectsMalformedAddress(t *testing.T) {
	for _, addr := range []string{"", "   ", "ftp://ollama:21", "http://", "http://[::1"} {
		_, err := NewOllamaClient(addr, time.Second)
		assert.Error(t, err, "address %q", addr)
	}
}

func TestChatSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req OllamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gunther", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, []OllamaMessage{{Role: RoleUser, Content: "hello"}}, req.Messages)

		_ = json.NewEncoder(w).Encode(OllamaMessageResponse{
			Model:   "gunther",
			Message: OllamaMessage{Role: RoleAssistant, Content: "hi there"},
			Done:    true,
		})
	})

	resp, err := c.Chat(context.Background(), "gunther", []OllamaMessage{{Role: RoleUser, Content: "hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Message.Content)
}

func TestChatStatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    ErrorKind
		message string
	}{
		{"model missing", http.StatusNotFound, `{"error":"model \"gunther\" not found, try pulling it first"}`, KindNotFound, `model "gunther" not found, try pulling it first`},
		{"bad request", http.StatusBadRequest, `{"error":"invalid message"}`, KindBadRequest, "invalid message"},
		{"server error", http.StatusInternalServerError, `{"error":"llama runner crashed"}`, KindServerError, "llama runner crashed"},
		{"overloaded", http.StatusServiceUnavailable, "busy", KindServerError, "busy"},
		{"other status", http.StatusTeapot, "", KindStatus, http.StatusText(http.StatusTeapot)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Chat(context.Background(), "gunther", nil)
			require.Error(t, err)

			var upstreamErr *UpstreamError
			require.True(t, errors.As(err, &upstreamErr))
			assert.Equal(t, tt.kind, upstreamErr.Kind)
			assert.Equal(t, tt.status, upstreamErr.StatusCode)
			assert.Equal(t, tt.message, upstreamErr.Message)
		})
	}
}

func TestChatConnectionRefused(t *testing.T) {
	// reserve a port, then close it so nothing listens there
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	c, err := NewOllamaClient("http://"+addr, time.Second)
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), "gunther", nil)
	assert.Equal(t, KindConnection, KindOf(err))
}

func TestChatTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewOllamaClient(server.URL, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), "gunther", nil)
	assert.Equal(t, KindTimeout, KindOf(err))
}

func TestChatMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := c.Chat(context.Background(), "gunther", nil)
	assert.Equal(t, KindUnknown, KindOf(err))
}

func TestChatErrorInSuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"unexpected EOF"}`))
	})

	_, err := c.Chat(context.Background(), "gunther", nil)
	require.Error(t, err)
	assert.Equal(t, KindUnknown, KindOf(err))
	assert.Contains(t, err.Error(), "unexpected EOF")
}

func TestListModels(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"gunther:latest","size":42,"details":{"family":"llama","families":null}}]}`))
	})

	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "gunther:latest", models[0].Name)
	assert.Equal(t, "llama", models[0].Details.Family)
	assert.NotNil(t, models[0].Details.Families)
	assert.Empty(t, models[0].Details.Families)
}

func TestListModelsServerDown(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.ListModels(context.Background())
	assert.Equal(t, KindServerError, KindOf(err))
}

func TestChatTruncatedSuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"gunther","message":{"role":"assistant","content":"hi`))
	})

	_, err := c.Chat(context.Background(), "gunther", []OllamaMessage{{Role: RoleUser, Content: "hello"}})
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, KindUnknown, upstreamErr.Kind)
	assert.Equal(t, http.StatusOK, upstreamErr.StatusCode)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
