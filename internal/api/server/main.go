package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/bz888/gunther/internal/api/server/client"
	"github.com/bz888/gunther/internal/api/server/handlers"
	"github.com/bz888/gunther/internal/config"
	"github.com/bz888/gunther/internal/logger"
	"github.com/bz888/gunther/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

const (
	shutdownTimeout   = 10 * time.Second
	startupProbeLimit = 5 * time.Second
)

// Server is the HTTP gateway in front of the inference server.
type Server struct {
	cfg      *config.Config
	upstream client.Upstream
	metrics  *metrics.Collector
	handler  *handlers.Handler
	engine   *gin.Engine
	log      *logger.Logger
}

// New builds the gateway. The upstream is constructed once by the caller and
// shared by every request; collector may be nil.
func New(cfg *config.Config, upstream client.Upstream, collector *metrics.Collector) *Server {
	if !cfg.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:      cfg,
		upstream: upstream,
		metrics:  collector,
		handler:  handlers.NewHandler(upstream, cfg.MaxLength, collector),
		log:      logger.NewLogger("server"),
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(
		requestID(),
		requestLogger(logger.NewLogger("http")),
		gin.CustomRecoveryWithWriter(io.Discard, s.recover),
	)
	s.engine = engine
	s.registerRoutes()

	return s
}

// Handler returns the gin engine wrapped in the CORS policy. Only the
// configured API_URL origin is allowed.
func (s *Server) Handler() http.Handler {
	policy := cors.New(cors.Options{
		AllowedOrigins:   []string{s.cfg.APIURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return policy.Handler(s.engine)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.probeUpstream(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Server started on http://%s/", listener.Addr())
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// probeUpstream checks the inference server once at startup. A failure is
// only reported; the gateway keeps serving and answers degraded health.
func (s *Server) probeUpstream(ctx context.Context) {
	ollama, ok := s.upstream.Client()
	if !ok {
		s.log.WithError(s.upstream.Err()).Warn("Ollama client not initialized, chat requests will be rejected")
		s.metrics.SetUpstreamUp(false)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, startupProbeLimit)
	defer cancel()

	models, err := ollama.ListModels(ctx)
	if err != nil {
		s.log.WithError(err).WithField("kind", client.KindOf(err).String()).Warn("Ollama server not reachable at startup")
		s.metrics.SetUpstreamUp(false)
		return
	}

	available := false
	for _, m := range models {
		if m.Name == handlers.DefaultModel || m.Name == handlers.DefaultModel+":latest" {
			available = true
			break
		}
	}
	if !available {
		s.log.WithField("model", handlers.DefaultModel).Warn("Model not found on the Ollama server")
	}
	s.log.WithField("models", len(models)).Info("Ollama client initialized")
	s.metrics.SetUpstreamUp(true)
}

func (s *Server) recover(c *gin.Context, recovered any) {
	s.log.WithField(handlers.RequestIDKey, c.GetString(handlers.RequestIDKey)).
		Errorf("Unexpected error: %v", recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, client.ErrorResponse{Detail: handlers.MsgUnknown})
}
