package domain

import (
	"errors"
	"time"
)

// Window selects the lookback range for time-bucketed queries.
type Window string

const (
	WindowHour  Window = "hour"
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

var ErrUnknownWindow = errors.New("unknown histogram window")

// ParseWindow validates a range token from the API, defaulting to hour.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case WindowHour, WindowDay, WindowWeek, WindowMonth:
		return Window(s), nil
	case "":
		return WindowHour, nil
	}
	return "", ErrUnknownWindow
}

// BucketSize is the histogram granularity tied to the window: minute buckets
// for the hour view, hourly for the day view, daily for week and month.
func (w Window) BucketSize() time.Duration {
	switch w {
	case WindowHour:
		return time.Minute
	case WindowDay:
		return time.Hour
	default:
		return 24 * time.Hour
	}
}

// BucketCount is the number of buckets in a complete series for the window.
func (w Window) BucketCount() int {
	switch w {
	case WindowHour:
		return 60
	case WindowDay:
		return 24
	case WindowWeek:
		return 7
	default:
		return 30
	}
}

// Duration is the total span covered by the window.
func (w Window) Duration() time.Duration {
	return time.Duration(w.BucketCount()) * w.BucketSize()
}

// Label formats a bucket timestamp the way the dashboard renders the axis.
func (w Window) Label(t time.Time) string {
	switch w {
	case WindowHour:
		return t.UTC().Format("15:04")
	case WindowDay:
		return t.UTC().Format("15:00")
	default:
		return t.UTC().Format("1/2")
	}
}

// TimelineBucket is one point of a gap-free histogram series.
type TimelineBucket struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	Count int       `json:"count"`
}

// TrafficPoint is one point of the combined traffic monitor series.
type TrafficPoint struct {
	Label    string `json:"label"`
	Total    int    `json:"total"`
	Detected int    `json:"detected"`
	Blocked  int    `json:"blocked"`
}

// TypeCount pairs a threat type with its record count.
type TypeCount struct {
	Type  ThreatType `json:"name"`
	Count int64      `json:"count"`
}

// ThreatStats is the aggregate snapshot served to the dashboard.
type ThreatStats struct {
	TotalThreats   int64 `json:"totalThreats"`
	BlockedThreats int64 `json:"blockedThreats"`
	ActiveThreats  int64 `json:"activeThreats"`
}
