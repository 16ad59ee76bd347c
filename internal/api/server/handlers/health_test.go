package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bz888/gunther/internal/api/server/client"
	"github.com/bz888/gunther/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func getHealth() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/api/health", nil)
}

func TestHealthConnected(t *testing.T) {
	mockClient := new(MockOllamaClient)
	mockClient.On("ListModels", mock.Anything).
		Return([]client.OllamaModel{{Name: "gunther:latest"}}, nil).Once()

	router := newTestRouter(NewHandler(client.Ready(mockClient), 100, nil))
	w := serve(t, router, getHealth())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","upstream":"connected"}`, w.Body.String())
	mockClient.AssertExpectations(t)
}

func TestHealthUpstreamUnavailable(t *testing.T) {
	failures := []error{
		&client.UpstreamError{Kind: client.KindConnection, Message: "connection refused"},
		&client.UpstreamError{Kind: client.KindTimeout, Message: "deadline exceeded"},
		&client.UpstreamError{Kind: client.KindServerError, StatusCode: 500},
		errors.New("something else entirely"),
	}

	for _, failure := range failures {
		mockClient := new(MockOllamaClient)
		mockClient.On("ListModels", mock.Anything).Return(nil, failure).Once()

		router := newTestRouter(NewHandler(client.Ready(mockClient), 100, nil))
		w := serve(t, router, getHealth())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"degraded","upstream":"unavailable"}`, w.Body.String())
		mockClient.AssertExpectations(t)
	}
}

func TestHealthNotInitialized(t *testing.T) {
	router := newTestRouter(NewHandler(client.Unavailable(errors.New("bad address")), 100, nil))
	w := serve(t, router, getHealth())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"degraded","upstream":"not_initialized"}`, w.Body.String())
}

func TestHealthIsIdempotent(t *testing.T) {
	mockClient := new(MockOllamaClient)
	mockClient.On("ListModels", mock.Anything).Return([]client.OllamaModel{}, nil).Twice()

	router := newTestRouter(NewHandler(client.Ready(mockClient), 100, metrics.NewCollector()))
	first := serve(t, router, getHealth())
	second := serve(t, router, getHealth())

	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	mockClient.AssertExpectations(t)
}
