package ports

import (
	"context"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
)

// ThreatGate is the inline classification gate consulted by the login
// endpoint before credentials are ever checked.
type ThreatGate interface {
	// Evaluate runs extraction, classification and enforcement for one
	// login attempt. It returns a decision even when the classifier fails;
	// the configured failure policy determines whether that decision
	// allows or denies.
	Evaluate(ctx context.Context, attempt domain.LoginAttempt) domain.Decision
}

// BlacklistGate is the deny-set consulted on the hot path of every inbound
// request. Contains must be O(1).
type BlacklistGate interface {
	Contains(ip string) bool
	Add(ctx context.Context, entry domain.BlacklistEntry) error
	Remove(ctx context.Context, ip string) error
	List(ctx context.Context) ([]domain.BlacklistEntry, error)
}

// FeatureAuditor records (feature vector, label) pairs for offline
// retraining. Append-only; this system never reads the log back.
type FeatureAuditor interface {
	Append(features domain.FeatureVector, label domain.SampleLabel) error
}

// ThreatNotifier pushes newly recorded threats to connected observers.
type ThreatNotifier interface {
	NotifyThreat(record domain.ThreatRecord)
}

// AuthService defines the business logic for dashboard authentication.
type AuthService interface {
	Login(ctx context.Context, creds domain.Credentials) (string, *domain.User, error)
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
	Register(ctx context.Context, user domain.User, password string) (*domain.User, error)
}
