package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/lcalzada-xor/authgate/internal/adapters/web/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(s *Server) http.Handler {
	router := mux.NewRouter()

	// The blacklist check fronts everything, including the websocket.
	router.Use(middleware.BlacklistMiddleware(s.Blacklist))

	// 5 login attempts per minute per IP
	loginLimiter := middleware.NewRateLimiter(5, 1*time.Minute)

	auth := middleware.AuthMiddleware(s.AuthService)
	protect := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}
	protectAdmin := func(h http.HandlerFunc) http.Handler {
		return auth(middleware.AdminOnly(h))
	}

	// WebSocket endpoint. Registered outside the request-log chain because
	// the log middleware's response wrapper would break the upgrade.
	router.Handle("/ws", protect(s.WSManager.HandleWebSocket))

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequestLogMiddleware(s.Requests))

	// Public endpoints
	api.Handle("/login", middleware.RateLimitMiddleware(loginLimiter)(http.HandlerFunc(s.AuthHandler.HandleLogin))).Methods(http.MethodPost)
	api.HandleFunc("/register", s.AuthHandler.HandleRegister).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.AuthHandler.HandleLogout).Methods(http.MethodPost)

	// Session
	api.Handle("/me", protect(s.AuthHandler.HandleMe)).Methods(http.MethodGet)
	api.Handle("/user/profile", protect(s.UserHandler.HandleProfile)).Methods(http.MethodGet)

	// Threat views
	api.Handle("/threats", protect(s.ThreatHandler.HandleRecent)).Methods(http.MethodGet)
	api.Handle("/threats/stats", protect(s.ThreatHandler.HandleStats)).Methods(http.MethodGet)
	api.Handle("/threats/types", protect(s.ThreatHandler.HandleTypes)).Methods(http.MethodGet)
	api.Handle("/threats/timeline", protect(s.ThreatHandler.HandleTimeline)).Methods(http.MethodGet)
	api.Handle("/threats/{id:[0-9]+}/status", protect(s.ThreatHandler.HandleUpdateStatus)).Methods(http.MethodPut)

	// Traffic views
	api.Handle("/stats/requests", protect(s.StatsHandler.HandleRequestStats)).Methods(http.MethodGet)
	api.Handle("/stats/traffic", protect(s.StatsHandler.HandleTraffic)).Methods(http.MethodGet)

	// Reports
	api.Handle("/reports/download", protect(s.ReportHandler.HandleDownload)).Methods(http.MethodGet)

	// Administration
	api.Handle("/logs", protectAdmin(s.LogHandler.HandleList)).Methods(http.MethodGet)
	api.Handle("/users", protectAdmin(s.UserHandler.HandleList)).Methods(http.MethodGet)
	api.Handle("/blacklist", protectAdmin(s.BlacklistHandler.HandleList)).Methods(http.MethodGet)
	api.Handle("/blacklist", protectAdmin(s.BlacklistHandler.HandleAdd)).Methods(http.MethodPost)
	api.Handle("/blacklist/{ip}", protectAdmin(s.BlacklistHandler.HandleDelete)).Methods(http.MethodDelete)

	// Metrics endpoint (protected - requires authentication)
	router.Handle("/metrics", protect(func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	}))

	return router
}
