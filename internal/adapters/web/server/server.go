package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/lcalzada-xor/authgate/internal/adapters/reporting"
	"github.com/lcalzada-xor/authgate/internal/adapters/web/handlers"
	"github.com/lcalzada-xor/authgate/internal/adapters/web/ws"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
	"github.com/lcalzada-xor/authgate/internal/core/services/stats"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr        string
	AuthService ports.AuthService
	Blacklist   ports.BlacklistGate
	Requests    ports.RequestLogStore
	WSManager   *ws.Manager

	AuthHandler      *handlers.AuthHandler
	ThreatHandler    *handlers.ThreatHandler
	StatsHandler     *handlers.StatsHandler
	LogHandler       *handlers.LogHandler
	BlacklistHandler *handlers.BlacklistHandler
	UserHandler      *handlers.UserHandler
	ReportHandler    *handlers.ReportHandler

	srv *http.Server
}

// Deps collects everything the server needs wired in.
type Deps struct {
	Addr      string
	Auth      ports.AuthService
	Gate      ports.ThreatGate
	Blacklist ports.BlacklistGate
	Ledger    ports.ThreatLedger
	Requests  ports.RequestLogStore
	Users     ports.UserRepository
	Stats     *stats.StatsService
	WSManager *ws.Manager
}

// NewServer creates a new web server.
func NewServer(deps Deps) *Server {
	return &Server{
		Addr:        deps.Addr,
		AuthService: deps.Auth,
		Blacklist:   deps.Blacklist,
		Requests:    deps.Requests,
		WSManager:   deps.WSManager,

		AuthHandler:      handlers.NewAuthHandler(deps.Auth, deps.Gate),
		ThreatHandler:    handlers.NewThreatHandler(deps.Stats, deps.Ledger),
		StatsHandler:     handlers.NewStatsHandler(deps.Stats),
		LogHandler:       handlers.NewLogHandler(deps.Requests),
		BlacklistHandler: handlers.NewBlacklistHandler(deps.Blacklist),
		UserHandler:      handlers.NewUserHandler(deps.Users),
		ReportHandler:    handlers.NewReportHandler(deps.Stats, reporting.NewPDFExporter()),
	}
}

// Run starts the server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	handler := SetupRoutes(s)

	instrumentedHandler := otelhttp.NewHandler(handler, "authgate-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		slog.Info("web server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("web server shutdown error", "error", err)
		}
	}()

	slog.Info("web server listening", "addr", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// BroadcastLog sends a log message to all connected dashboard clients.
func (s *Server) BroadcastLog(message string, level string) {
	s.WSManager.BroadcastLog(message, level)
}
