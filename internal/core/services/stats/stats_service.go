package stats

import (
	"context"
	"time"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
)

// StatsService computes the dashboard aggregates over the threat ledger and
// the request log. Histogram series are complete: every bucket in the window
// appears, zero-count buckets included. Storage order is never trusted;
// repositories sort and the bucketing here only needs timestamps.
type StatsService struct {
	ledger   ports.ThreatLedger
	requests ports.RequestLogStore
	now      func() time.Time
}

// NewStatsService creates a new statistics service.
func NewStatsService(ledger ports.ThreatLedger, requests ports.RequestLogStore) *StatsService {
	return &StatsService{
		ledger:   ledger,
		requests: requests,
		now:      time.Now,
	}
}

// ThreatStats returns the total/blocked/active counters.
func (s *StatsService) ThreatStats(ctx context.Context) (domain.ThreatStats, error) {
	total, err := s.ledger.CountThreats(ctx, "")
	if err != nil {
		return domain.ThreatStats{}, err
	}
	blocked, err := s.ledger.CountThreats(ctx, domain.StatusBlocked)
	if err != nil {
		return domain.ThreatStats{}, err
	}
	active, err := s.ledger.CountThreats(ctx, domain.StatusActive)
	if err != nil {
		return domain.ThreatStats{}, err
	}

	return domain.ThreatStats{
		TotalThreats:   total,
		BlockedThreats: blocked,
		ActiveThreats:  active,
	}, nil
}

// ThreatTypes returns the per-type record distribution.
func (s *StatsService) ThreatTypes(ctx context.Context) ([]domain.TypeCount, error) {
	return s.ledger.CountByType(ctx)
}

// RecentThreats returns the most recent records, newest first.
func (s *StatsService) RecentThreats(ctx context.Context, limit int) ([]domain.ThreatRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.ledger.RecentThreats(ctx, limit)
}

// BlockedTimeline builds the gap-free histogram of blocked threats over the
// window.
func (s *StatsService) BlockedTimeline(ctx context.Context, window domain.Window) ([]domain.TimelineBucket, error) {
	now := s.now()
	start := now.Add(-window.Duration())

	records, err := s.ledger.ThreatsSince(ctx, start)
	if err != nil {
		return nil, err
	}

	buckets := newSeries(window, now)
	for _, r := range records {
		if r.Status != domain.StatusBlocked {
			continue
		}
		if i, ok := buckets.index(r.DetectedAt); ok {
			buckets.points[i].Count++
		}
	}
	return buckets.points, nil
}

// Traffic builds the combined traffic monitor series: total requests plus
// detected and blocked threats per bucket.
func (s *StatsService) Traffic(ctx context.Context, window domain.Window) ([]domain.TrafficPoint, error) {
	now := s.now()
	start := now.Add(-window.Duration())

	logs, err := s.requests.RequestLogsSince(ctx, start)
	if err != nil {
		return nil, err
	}
	threats, err := s.ledger.ThreatsSince(ctx, start)
	if err != nil {
		return nil, err
	}

	series := newSeries(window, now)
	points := make([]domain.TrafficPoint, len(series.points))
	for i, b := range series.points {
		points[i].Label = b.Label
	}

	for _, l := range logs {
		if i, ok := series.index(l.Timestamp); ok {
			points[i].Total++
		}
	}
	for _, t := range threats {
		i, ok := series.index(t.DetectedAt)
		if !ok {
			continue
		}
		points[i].Detected++
		if t.Status == domain.StatusBlocked {
			points[i].Blocked++
		}
	}

	return points, nil
}

// RequestStats returns the total request count and average response time.
func (s *StatsService) RequestStats(ctx context.Context) (int64, float64, error) {
	count, err := s.requests.CountRequests(ctx)
	if err != nil {
		return 0, 0, err
	}
	avg, err := s.requests.AverageResponseTime(ctx)
	if err != nil {
		return 0, 0, err
	}
	return count, avg, nil
}

// ThreatReport assembles the printable summary for one window.
func (s *StatsService) ThreatReport(ctx context.Context, window domain.Window) (*domain.ThreatReport, error) {
	stats, err := s.ThreatStats(ctx)
	if err != nil {
		return nil, err
	}
	types, err := s.ledger.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.ledger.RecentThreats(ctx, 15)
	if err != nil {
		return nil, err
	}

	return &domain.ThreatReport{
		GeneratedAt: s.now().UTC(),
		Window:      window,
		Stats:       stats,
		ByType:      types,
		Recent:      recent,
	}, nil
}

// series is a gap-free bucket axis ending at now. The last bucket contains
// now; earlier buckets step back one granularity each.
type series struct {
	window domain.Window
	start  time.Time
	points []domain.TimelineBucket
}

func newSeries(window domain.Window, now time.Time) *series {
	size := window.BucketSize()
	count := window.BucketCount()
	last := now.Truncate(size)
	start := last.Add(-time.Duration(count-1) * size)

	points := make([]domain.TimelineBucket, count)
	for i := range points {
		t := start.Add(time.Duration(i) * size)
		points[i] = domain.TimelineBucket{
			Label: window.Label(t),
			Start: t,
		}
	}

	return &series{window: window, start: start, points: points}
}

// index maps a timestamp onto its bucket, reporting false for times outside
// the window.
func (s *series) index(t time.Time) (int, bool) {
	if t.Before(s.start) {
		return 0, false
	}
	i := int(t.Sub(s.start) / s.window.BucketSize())
	if i < 0 || i >= len(s.points) {
		return 0, false
	}
	return i, true
}
