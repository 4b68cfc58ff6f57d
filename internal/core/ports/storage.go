package ports

import (
	"context"
	"time"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
)

// ThreatLedger is the durable, append-only store of detected threats.
// Insertion order carries no timestamp guarantee (concurrent writers
// interleave); every query sorts explicitly.
type ThreatLedger interface {
	// SaveThreat appends a new record and fills in its assigned ID.
	SaveThreat(ctx context.Context, record *domain.ThreatRecord) error

	// CountThreats returns the total number of records, filtered by status
	// when status is non-empty.
	CountThreats(ctx context.Context, status domain.ThreatStatus) (int64, error)

	// CountByType groups record counts by threat type.
	CountByType(ctx context.Context) ([]domain.TypeCount, error)

	// RecentThreats returns the most recent records, newest first.
	RecentThreats(ctx context.Context, limit int) ([]domain.ThreatRecord, error)

	// ThreatsSince returns all records detected at or after start,
	// oldest first.
	ThreatsSince(ctx context.Context, start time.Time) ([]domain.ThreatRecord, error)

	// UpdateThreatStatus performs the operator transition
	// active -> blocked|mitigated.
	UpdateThreatStatus(ctx context.Context, id uint, status domain.ThreatStatus) error
}

// BlacklistStore is the durable side of the blacklist gate.
type BlacklistStore interface {
	// SaveBlacklistEntry inserts or refreshes an entry keyed by IP.
	SaveBlacklistEntry(ctx context.Context, entry domain.BlacklistEntry) error

	// ListBlacklist returns all entries, newest first.
	ListBlacklist(ctx context.Context) ([]domain.BlacklistEntry, error)

	// DeleteBlacklistEntry removes an entry (administrative action).
	DeleteBlacklistEntry(ctx context.Context, ip string) error
}

// RequestLogStore persists per-request access records for the traffic views.
type RequestLogStore interface {
	SaveRequestLog(ctx context.Context, log domain.RequestLog) error
	ListRequestLogs(ctx context.Context, limit int) ([]domain.RequestLog, error)
	CountRequests(ctx context.Context) (int64, error)
	AverageResponseTime(ctx context.Context) (float64, error)

	// RequestLogsSince returns all logs at or after start, oldest first.
	RequestLogsSince(ctx context.Context, start time.Time) ([]domain.RequestLog, error)
}

// UserRepository defines the persistence layer for dashboard accounts.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}
