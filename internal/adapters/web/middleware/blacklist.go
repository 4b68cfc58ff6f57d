package middleware

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/lcalzada-xor/authgate/internal/core/ports"
	"github.com/lcalzada-xor/authgate/internal/telemetry"
)

// ClientIP extracts the source IP of a request. RemoteAddr normally carries
// host:port but a bare host shows up behind some proxies and in tests.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// BlacklistMiddleware rejects requests from blacklisted IPs before any
// handler runs. The gate's Contains is an in-memory lookup, so this sits on
// the hot path of every request without touching the database.
func BlacklistMiddleware(gate ports.BlacklistGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate.Contains(ClientIP(r)) {
				telemetry.BlacklistHits.Inc()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Your IP is blacklisted",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
