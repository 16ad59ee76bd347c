package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bz888/gunther/internal/api/server/client"
	"github.com/gin-gonic/gin"
)

const healthProbeTimeout = 5 * time.Second

// Health handles GET /api/health. It always answers 200; upstream trouble is
// reported in the body.
func (h *Handler) Health(c *gin.Context) {
	ollama, ok := h.upstream.Client()
	if !ok {
		h.healthLog.WithError(h.upstream.Err()).Warn("Health check: Ollama client not initialized")
		h.metrics.SetUpstreamUp(false)
		c.JSON(http.StatusOK, client.HealthResponse{
			Status:   client.StatusDegraded,
			Upstream: client.UpstreamNotInitialized,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
	defer cancel()

	start := time.Now()
	_, err := ollama.ListModels(ctx)
	elapsed := time.Since(start)

	if err != nil {
		kind := client.KindOf(err).String()
		h.metrics.RecordUpstream("list_models", elapsed, kind)
		h.metrics.SetUpstreamUp(false)
		h.healthLog.WithError(err).WithField("kind", kind).Error("Health check failed for Ollama")
		c.JSON(http.StatusOK, client.HealthResponse{
			Status:   client.StatusDegraded,
			Upstream: client.UpstreamUnavailable,
		})
		return
	}

	h.metrics.RecordUpstream("list_models", elapsed, "")
	h.metrics.SetUpstreamUp(true)
	c.JSON(http.StatusOK, client.HealthResponse{
		Status:   client.StatusOK,
		Upstream: client.UpstreamConnected,
	})
}
