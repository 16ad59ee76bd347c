package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bz888/gunther/internal/api/server/client"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockOllamaClient struct {
	mock.Mock
}

func (m *MockOllamaClient) ListModels(ctx context.Context) ([]client.OllamaModel, error) {
	args := m.Called(ctx)
	models, _ := args.Get(0).([]client.OllamaModel)
	return models, args.Error(1)
}

func (m *MockOllamaClient) Chat(ctx context.Context, model string, messages []client.OllamaMessage) (*client.OllamaMessageResponse, error) {
	args := m.Called(ctx, model, messages)
	resp, _ := args.Get(0).(*client.OllamaMessageResponse)
	return resp, args.Error(1)
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/chat", h.Chat)
	router.GET("/api/health", h.Health)
	return router
}

func serve(t *testing.T, router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postChat(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func userMessage(content string) []client.OllamaMessage {
	return []client.OllamaMessage{{Role: client.RoleUser, Content: content}}
}

func reply(content string) *client.OllamaMessageResponse {
	return &client.OllamaMessageResponse{
		Model:   DefaultModel,
		Message: client.OllamaMessage{Role: client.RoleAssistant, Content: content},
		Done:    true,
	}
}
