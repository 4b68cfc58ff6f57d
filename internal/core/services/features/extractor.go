package features

import (
	"strings"
	"time"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
)

// Extractor derives the fixed-length behavioral feature vector from one
// login attempt. Extraction is deterministic for a given attempt and clock;
// its only side effect is advancing the session's last-seen timestamp.
type Extractor struct {
	sessions *SessionTracker
	now      func() time.Time
}

// NewExtractor creates an extractor backed by the given session tracker.
func NewExtractor(sessions *SessionTracker) *Extractor {
	return &Extractor{
		sessions: sessions,
		now:      time.Now,
	}
}

// Extract builds the feature vector for an attempt. It never fails: missing
// fields degrade to zero-valued defaults.
func (e *Extractor) Extract(attempt domain.LoginAttempt) domain.FeatureVector {
	now := attempt.Time
	if now.IsZero() {
		now = e.now()
	}

	sessionKey := attempt.SessionKey
	if sessionKey == "" {
		sessionKey = attempt.ClientIP().String()
	}

	ip := attempt.ClientIP()

	var v domain.FeatureVector
	v[domain.FeatEmailLength] = float64(len(attempt.Email))
	v[domain.FeatPasswordLength] = float64(len(attempt.Password))
	v[domain.FeatPasswordSpecialChars] = float64(countSpecialChars(attempt.Password))
	v[domain.FeatIsPost] = boolFeature(attempt.Method == "POST")
	v[domain.FeatIsLoginEndpoint] = boolFeature(attempt.Path == domain.LoginEndpoint)
	v[domain.FeatUserAgentLength] = float64(len(attempt.UserAgent))
	v[domain.FeatIPOctet1] = float64(ip[0])
	v[domain.FeatIPOctet2] = float64(ip[1])
	v[domain.FeatIPOctet3] = float64(ip[2])
	v[domain.FeatIPOctet4] = float64(ip[3])
	v[domain.FeatTimeSinceLast] = e.sessions.Touch(sessionKey, now, domain.MaxTimeSinceLast)
	v[domain.FeatBodyFieldCount] = float64(attempt.FieldCount)
	v[domain.FeatHasSQL] = boolFeature(domain.ContainsSQLKeyword(attempt.Password))
	v[domain.FeatHasScript] = boolFeature(domain.ContainsScriptPattern(attempt.Password))
	v[domain.FeatHour] = float64(now.Hour())
	v[domain.FeatDay] = float64(now.Weekday())
	v[domain.FeatIsGmail] = boolFeature(strings.HasSuffix(attempt.Email, "@gmail.com"))
	v[domain.FeatIsYahoo] = boolFeature(strings.HasSuffix(attempt.Email, "@yahoo.com"))
	v[domain.FeatIsOutlook] = boolFeature(strings.HasSuffix(attempt.Email, "@outlook.com"))
	// v[domain.FeatDummy] stays 0: reserved column in the trained model.

	return v
}

// countSpecialChars counts characters outside [a-zA-Z0-9].
func countSpecialChars(s string) int {
	count := 0
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			count++
		}
	}
	return count
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
