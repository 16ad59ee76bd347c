package server

import (
	"net/http"

	"github.com/bz888/gunther/internal/api/server/client"
	"github.com/bz888/gunther/internal/api/server/handlers"
	"github.com/gin-gonic/gin"
)

const (
	EndPointHealth  = "/api/health"
	EndPointChat    = "/api/chat"
	EndPointMetrics = "/metrics"
	EndPointOpenAPI = handlers.OpenAPIPath
	EndPointDocs    = "/api/docs"
)

func (s *Server) registerRoutes() {
	s.engine.GET(EndPointHealth, s.handler.Health)
	s.engine.POST(EndPointChat, s.handler.Chat)
	s.engine.GET(EndPointMetrics, gin.WrapH(s.metrics.Handler()))
	s.engine.GET(EndPointOpenAPI, s.handler.OpenAPI)
	s.engine.GET(EndPointDocs, s.handler.SwaggerUI)

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, client.ErrorResponse{Detail: "Not Found"})
	})
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, client.ErrorResponse{Detail: "Method Not Allowed"})
	})
}
