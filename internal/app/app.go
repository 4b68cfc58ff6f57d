// Package app wires the whole system together. It is the facade the
// entrypoint talks to; everything below it is ports and adapters.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lcalzada-xor/authgate/internal/adapters/audit"
	"github.com/lcalzada-xor/authgate/internal/adapters/classifier"
	"github.com/lcalzada-xor/authgate/internal/adapters/storage"
	webserver "github.com/lcalzada-xor/authgate/internal/adapters/web/server"
	"github.com/lcalzada-xor/authgate/internal/adapters/web/ws"
	"github.com/lcalzada-xor/authgate/internal/config"
	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/services/auth"
	"github.com/lcalzada-xor/authgate/internal/core/services/blacklist"
	"github.com/lcalzada-xor/authgate/internal/core/services/features"
	"github.com/lcalzada-xor/authgate/internal/core/services/gate"
	"github.com/lcalzada-xor/authgate/internal/core/services/stats"
	"github.com/lcalzada-xor/authgate/internal/telemetry"
)

// sessionPruneTTL is how long an idle session entry survives in the
// time-since-last tracker before the prune loop drops it.
const sessionPruneTTL = 2 * time.Hour

// Application holds the core components and acts as the facade for the
// entire system.
type Application struct {
	Config *config.Config

	Storage     *storage.SQLiteAdapter
	Blacklist   *blacklist.Gate
	Gate        *gate.ThreatGate
	AuthService *auth.AuthService
	Stats       *stats.StatsService
	WebServer   *webserver.Server

	sessions *features.SessionTracker
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{Config: cfg}
	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}
	return app, nil
}

func (app *Application) bootstrap() error {
	telemetry.InitMetrics()

	store, err := storage.NewSQLiteAdapter(app.Config.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	app.Storage = store

	// The blacklist gate serves every request from memory; the durable
	// store only feeds it at startup and receives write-throughs.
	app.Blacklist = blacklist.New(store)
	if err := app.Blacklist.Load(context.Background()); err != nil {
		return fmt.Errorf("loading blacklist: %w", err)
	}
	slog.Info("blacklist loaded", "entries", app.Blacklist.Len())

	auditor, err := audit.NewCSVLogger(app.Config.AuditPath)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}

	app.sessions = features.NewSessionTracker()
	extractor := features.NewExtractor(app.sessions)

	oracle := classifier.NewHTTPClient(app.Config.OracleURL, app.Config.OracleTimeout)

	app.Gate = gate.New(extractor, oracle, store, app.Blacklist, auditor, app.Config.FailureMode)
	app.AuthService = auth.NewAuthService(store, app.Config.SessionTTL)
	app.Stats = stats.NewStatsService(store, store)

	wsManager := ws.NewManager()
	app.Gate.SetNotifier(wsManager)

	app.WebServer = webserver.NewServer(webserver.Deps{
		Addr:      app.Config.Addr,
		Auth:      app.AuthService,
		Gate:      app.Gate,
		Blacklist: app.Blacklist,
		Ledger:    store,
		Requests:  store,
		Users:     store,
		Stats:     app.Stats,
		WSManager: wsManager,
	})

	if err := app.ensureDefaultAdmin(context.Background()); err != nil {
		return fmt.Errorf("provisioning default admin: %w", err)
	}

	return nil
}

// ensureDefaultAdmin provisions the bootstrap account on first start so the
// dashboard is reachable before any user has registered.
func (app *Application) ensureDefaultAdmin(ctx context.Context) error {
	if _, err := app.Storage.GetUserByEmail(ctx, app.Config.DefaultAdmin); err == nil {
		return nil
	}

	admin := domain.User{
		FirstName: "Admin",
		Email:     app.Config.DefaultAdmin,
		Role:      domain.RoleAdmin,
	}
	if _, err := app.AuthService.Register(ctx, admin, app.Config.DefaultPassword); err != nil {
		return err
	}
	slog.Info("default admin account created", "email", app.Config.DefaultAdmin)
	return nil
}

// Run starts the web server and the session prune loop, blocking until the
// context is cancelled.
func (app *Application) Run(ctx context.Context) error {
	go app.pruneSessions(ctx)

	err := app.WebServer.Run(ctx)

	if closeErr := app.Storage.Close(); closeErr != nil {
		slog.Error("closing database", "error", closeErr)
	}
	return err
}

func (app *Application) pruneSessions(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := app.sessions.Prune(now, sessionPruneTTL); removed > 0 {
				slog.Debug("pruned idle sessions", "removed", removed)
			}
		}
	}
}
