package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lcalzada-xor/authgate/internal/adapters/web/ws"
	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/services/stats"
	"github.com/lcalzada-xor/authgate/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	telemetry.InitMetrics()
}

// Minimal fakes; router tests only need the wiring, not the behavior.

type fakeAuth struct {
	user *domain.User
}

func (f *fakeAuth) Login(ctx context.Context, creds domain.Credentials) (string, *domain.User, error) {
	return "tok", f.user, nil
}

func (f *fakeAuth) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "valid" && f.user != nil {
		return f.user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeAuth) Logout(ctx context.Context, token string) error { return nil }

func (f *fakeAuth) Register(ctx context.Context, user domain.User, password string) (*domain.User, error) {
	return &user, nil
}

type fakeGate struct{}

func (fakeGate) Evaluate(ctx context.Context, attempt domain.LoginAttempt) domain.Decision {
	return domain.Decision{Allow: true}
}

type fakeBlacklist struct {
	blocked map[string]bool
}

func (f *fakeBlacklist) Contains(ip string) bool { return f.blocked[ip] }

func (f *fakeBlacklist) Add(ctx context.Context, entry domain.BlacklistEntry) error { return nil }

func (f *fakeBlacklist) Remove(ctx context.Context, ip string) error { return nil }

func (f *fakeBlacklist) List(ctx context.Context) ([]domain.BlacklistEntry, error) {
	return nil, nil
}

type fakeLedger struct{}

func (fakeLedger) SaveThreat(ctx context.Context, record *domain.ThreatRecord) error { return nil }

func (fakeLedger) CountThreats(ctx context.Context, status domain.ThreatStatus) (int64, error) {
	return 0, nil
}

func (fakeLedger) CountByType(ctx context.Context) ([]domain.TypeCount, error) { return nil, nil }

func (fakeLedger) RecentThreats(ctx context.Context, limit int) ([]domain.ThreatRecord, error) {
	return nil, nil
}

func (fakeLedger) ThreatsSince(ctx context.Context, start time.Time) ([]domain.ThreatRecord, error) {
	return nil, nil
}

func (fakeLedger) UpdateThreatStatus(ctx context.Context, id uint, status domain.ThreatStatus) error {
	return nil
}

type fakeRequestLogs struct{}

func (fakeRequestLogs) SaveRequestLog(ctx context.Context, log domain.RequestLog) error { return nil }

func (fakeRequestLogs) ListRequestLogs(ctx context.Context, limit int) ([]domain.RequestLog, error) {
	return nil, nil
}

func (fakeRequestLogs) CountRequests(ctx context.Context) (int64, error) { return 0, nil }

func (fakeRequestLogs) AverageResponseTime(ctx context.Context) (float64, error) { return 0, nil }

func (fakeRequestLogs) RequestLogsSince(ctx context.Context, start time.Time) ([]domain.RequestLog, error) {
	return nil, nil
}

type fakeUsers struct{}

func (fakeUsers) SaveUser(ctx context.Context, user domain.User) error { return nil }

func (fakeUsers) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (fakeUsers) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (fakeUsers) ListUsers(ctx context.Context) ([]domain.User, error) { return nil, nil }

func testRouter(blocked map[string]bool, role domain.Role) http.Handler {
	ledger := fakeLedger{}
	requests := fakeRequestLogs{}
	srv := NewServer(Deps{
		Addr:      ":0",
		Auth:      &fakeAuth{user: &domain.User{ID: "u-1", Email: "ada@example.com", Role: role}},
		Gate:      fakeGate{},
		Blacklist: &fakeBlacklist{blocked: blocked},
		Ledger:    ledger,
		Requests:  requests,
		Users:     fakeUsers{},
		Stats:     stats.NewStatsService(ledger, requests),
		WSManager: ws.NewManager(),
	})
	return SetupRoutes(srv)
}

func TestRoutes_BlacklistedIPRejectedEverywhere(t *testing.T) {
	router := testRouter(map[string]bool{"203.0.113.7": true}, domain.RoleUser)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/login"},
		{http.MethodGet, "/api/threats"},
		{http.MethodGet, "/ws"},
	}
	for _, tc := range cases {
		var body *strings.Reader
		if tc.method == http.MethodPost {
			body = strings.NewReader(`{"email":"a@b.c","password":"x"}`)
		} else {
			body = strings.NewReader("")
		}
		req := httptest.NewRequest(tc.method, tc.path, body)
		req.RemoteAddr = "203.0.113.7:1234"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code, "path %s", tc.path)
		assert.Contains(t, rr.Body.String(), "blacklisted")
	}
}

func TestRoutes_ProtectedRequireAuth(t *testing.T) {
	router := testRouter(nil, domain.RoleUser)

	paths := []string{
		"/api/me",
		"/api/threats",
		"/api/threats/stats",
		"/api/stats/requests",
		"/metrics",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "198.51.100.1:1234"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "path %s", path)
	}
}

func TestRoutes_AdminEndpointsForbiddenForUsers(t *testing.T) {
	router := testRouter(nil, domain.RoleUser)

	for _, path := range []string{"/api/logs", "/api/users", "/api/blacklist"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "198.51.100.1:1234"
		req.Header.Set("Authorization", "Bearer valid")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code, "path %s", path)
	}
}

func TestRoutes_AdminEndpointsAllowedForAdmin(t *testing.T) {
	router := testRouter(nil, domain.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.RemoteAddr = "198.51.100.1:1234"
	req.Header.Set("Authorization", "Bearer valid")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutes_LoginFlow(t *testing.T) {
	router := testRouter(nil, domain.RoleUser)

	body := strings.NewReader(`{"email":"ada@example.com","password":"hunter2boat"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	req.RemoteAddr = "198.51.100.1:1234"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "tok")
}

func TestRoutes_LoginRateLimited(t *testing.T) {
	router := testRouter(nil, domain.RoleUser)

	var last int
	for i := 0; i < 6; i++ {
		body := strings.NewReader(`{"email":"ada@example.com","password":"hunter2boat"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/login", body)
		req.RemoteAddr = "198.51.100.1:1234"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		last = rr.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}
