package storage

import (
	"context"
	"testing"
	"time"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupInMemoryDB creates a fresh adapter backed by an in-memory database.
func setupInMemoryDB(t *testing.T) *SQLiteAdapter {
	adapter, err := NewSQLiteAdapter(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })
	return adapter
}

func newThreat(t *testing.T, ip string, typ domain.ThreatType, detectedAt time.Time) *domain.ThreatRecord {
	record, err := domain.NewThreatRecord(ip, typ, 0.9, domain.StatusBlocked)
	require.NoError(t, err)
	record.DetectedAt = detectedAt
	return record
}

func TestSaveThreat_AssignsID(t *testing.T) {
	adapter := setupInMemoryDB(t)
	ctx := context.Background()

	record := newThreat(t, "203.0.113.7", domain.ThreatSQLInjection, time.Now().UTC())
	record.Details = map[string]string{"endpoint": "/api/login"}

	require.NoError(t, adapter.SaveThreat(ctx, record))
	assert.NotZero(t, record.ID)

	stored, err := adapter.RecentThreats(ctx, 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, record.ID, stored[0].ID)
	assert.Equal(t, domain.ThreatSQLInjection, stored[0].ThreatType)
	assert.Equal(t, domain.StatusBlocked, stored[0].Status)
	assert.Equal(t, "/api/login", stored[0].Details["endpoint"])
}

func TestRecentThreats_NewestFirst(t *testing.T) {
	adapter := setupInMemoryDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		record := newThreat(t, "10.0.0.1", domain.ThreatBruteForce, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, adapter.SaveThreat(ctx, record))
	}

	recent, err := adapter.RecentThreats(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.True(t, recent[0].DetectedAt.After(recent[1].DetectedAt))
	assert.True(t, recent[1].DetectedAt.After(recent[2].DetectedAt))
}

func TestThreatsSince_OldestFirstAndInclusive(t *testing.T) {
	adapter := setupInMemoryDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		record := newThreat(t, "10.0.0.1", domain.ThreatXSS, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, adapter.SaveThreat(ctx, record))
	}

	since, err := adapter.ThreatsSince(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, since, 3)
	assert.Equal(t, base.Add(time.Hour).Unix(), since[0].DetectedAt.Unix())
	assert.True(t, since[0].DetectedAt.Before(since[1].DetectedAt))
}

func TestCountThreats_StatusFilter(t *testing.T) {
	adapter := setupInMemoryDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	blocked := newThreat(t, "10.0.0.1", domain.ThreatSQLInjection, now)
	require.NoError(t, adapter.SaveThreat(ctx, blocked))

	active, err := domain.NewThreatRecord("10.0.0.2", domain.ThreatBruteForce, 0.7, domain.StatusActive)
	require.NoError(t, err)
	require.NoError(t, adapter.SaveThreat(ctx, active))

	total, err := adapter.CountThreats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	blockedCount, err := adapter.CountThreats(ctx, domain.StatusBlocked)
	require.NoError(t, err)
	assert.Equal(t, int64(1), blockedCount)
}

func TestCountByType(t *testing.T) {
	adapter := setupInMemoryDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		require.NoError(t, adapter.SaveThreat(ctx, newThreat(t, "10.0.0.1", domain.ThreatSQLInjection, now)))
	}
	require.NoError(t, adapter.SaveThreat(ctx, newThreat(t, "10.0.0.2", domain.ThreatXSS, now)))

	counts, err := adapter.CountByType(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, domain.ThreatSQLInjection, counts[0].Type)
	assert.Equal(t, int64(3), counts[0].Count)
	assert.Equal(t, domain.ThreatXSS, counts[1].Type)
	assert.Equal(t, int64(1), counts[1].Count)
}

func TestUpdateThreatStatus(t *testing.T) {
	adapter := setupInMemoryDB(t)
	ctx := context.Background()

	record := newThreat(t, "10.0.0.1", domain.ThreatSQLInjection, time.Now().UTC())
	require.NoError(t, adapter.SaveThreat(ctx, record))

	require.NoError(t, adapter.UpdateThreatStatus(ctx, record.ID, domain.StatusMitigated))

	stored, err := adapter.RecentThreats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMitigated, stored[0].Status)

	assert.ErrorIs(t, adapter.UpdateThreatStatus(ctx, 9999, domain.StatusBlocked), domain.ErrThreatNotFound)
	assert.ErrorIs(t, adapter.UpdateThreatStatus(ctx, record.ID, "nonsense"), domain.ErrInvalidStatus)
}

func TestBlacklistStore_RoundTrip(t *testing.T) {
	adapter := setupInMemoryDB(t)
	ctx := context.Background()

	first, err := domain.NewBlacklistEntry("203.0.113.7", "Blocked due to SQL Injection attempt")
	require.NoError(t, err)
	require.NoError(t, adapter.SaveBlacklistEntry(ctx, *first))

	// Re-blocking the same IP must not duplicate the row.
	refreshed, err := domain.NewBlacklistEntry("203.0.113.7", "Blocked due to XSS Attack attempt")
	require.NoError(t, err)
	require.NoError(t, adapter.SaveBlacklistEntry(ctx, *refreshed))

	entries, err := adapter.ListBlacklist(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Blocked due to XSS Attack attempt", entries[0].Reason)

	require.NoError(t, adapter.DeleteBlacklistEntry(ctx, "203.0.113.7"))
	entries, err = adapter.ListBlacklist(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Deleting an absent IP is a no-op.
	assert.NoError(t, adapter.DeleteBlacklistEntry(ctx, "198.51.100.1"))
}

func TestRequestLogStore(t *testing.T) {
	adapter := setupInMemoryDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	times := []float64{10, 20, 30}
	for i, rt := range times {
		err := adapter.SaveRequestLog(ctx, domain.RequestLog{
			IP:           "10.0.0.1",
			Endpoint:     "/api/login",
			Method:       "POST",
			StatusCode:   200,
			ResponseTime: rt,
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	count, err := adapter.CountRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	avg, err := adapter.AverageResponseTime(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, avg, 0.001)

	listed, err := adapter.ListRequestLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, 30.0, listed[0].ResponseTime)

	since, err := adapter.RequestLogsSince(ctx, base.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, since, 2)
	assert.Equal(t, 20.0, since[0].ResponseTime)
}

func TestAverageResponseTime_Empty(t *testing.T) {
	adapter := setupInMemoryDB(t)

	avg, err := adapter.AverageResponseTime(context.Background())
	require.NoError(t, err)
	assert.Zero(t, avg)
}

func TestUserRepository(t *testing.T) {
	adapter := setupInMemoryDB(t)
	ctx := context.Background()

	user, err := domain.NewUser("u-1", "Ada", "Lovelace", "Ada@Example.com", domain.RoleAdmin)
	require.NoError(t, err)
	user.PasswordHash = "$2a$10$fakehash"
	require.NoError(t, adapter.SaveUser(ctx, *user))

	byEmail, err := adapter.GetUserByEmail(ctx, "ADA@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "u-1", byEmail.ID)
	assert.Equal(t, domain.RoleAdmin, byEmail.Role)

	byID, err := adapter.GetUserByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)

	_, err = adapter.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = adapter.GetUserByID(ctx, "u-404")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	users, err := adapter.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
