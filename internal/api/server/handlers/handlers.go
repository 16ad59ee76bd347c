package handlers

import (
	"github.com/bz888/gunther/internal/api/server/client"
	"github.com/bz888/gunther/internal/logger"
	"github.com/bz888/gunther/internal/metrics"
)

// DefaultModel is the only model the gateway talks to.
const DefaultModel = "gunther"

// RequestIDKey is the gin context key under which the request ID middleware stores the ID.
const RequestIDKey = "request_id"

// Handler serves the chat and health endpoints. It holds no per-request
// state and is safe for concurrent use.
type Handler struct {
	upstream  client.Upstream
	maxLength int
	model     string
	metrics   *metrics.Collector

	chatLog   *logger.Logger
	healthLog *logger.Logger
}

// NewHandler wires the handlers to an upstream built once at startup.
// collector may be nil.
func NewHandler(upstream client.Upstream, maxLength int, collector *metrics.Collector) *Handler {
	return &Handler{
		upstream:  upstream,
		maxLength: maxLength,
		model:     DefaultModel,
		metrics:   collector,
		chatLog:   logger.NewLogger("chat"),
		healthLog: logger.NewLogger("health"),
	}
}
