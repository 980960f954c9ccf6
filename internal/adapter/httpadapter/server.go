package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/hazard-verify-service/internal/domain"
)

// Verifier produces hazard decisions and corroboration summaries.
type Verifier interface {
	Verify(ctx context.Context, report domain.Report) domain.FusedResult
	Aggregates(ctx context.Context) ([]domain.AggregateEntry, domain.HistoryStatus)
}

// Server exposes the verification API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	verifier   Verifier
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /verify-hazard, /aggregates,
// /healthz, /readyz, and /metrics routes.
func NewServer(addr string, verifier Verifier, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		verifier: verifier,
		logger:   logger,
	}

	mux.HandleFunc("POST /verify-hazard", s.handleVerify)
	mux.HandleFunc("GET /aggregates", s.handleAggregates)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
