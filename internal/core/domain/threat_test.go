package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapThreatLabel_Aliases(t *testing.T) {
	cases := []struct {
		label  string
		want   ThreatType
		mapped bool
	}{
		{"SQL_INJECTION", ThreatSQLInjection, true},
		{"XSS", ThreatXSS, true},
		{"BRUTE_FORCE", ThreatBruteForce, true},
		{"PORT_SCAN", ThreatPortScan, true},
		// Unknown labels pass through verbatim.
		{"DDoS", ThreatDDoS, false},
		{"ZERO_DAY", ThreatType("ZERO_DAY"), false},
	}

	for _, c := range cases {
		got, mapped := MapThreatLabel(c.label)
		assert.Equal(t, c.want, got, "label: %s", c.label)
		assert.Equal(t, c.mapped, mapped, "label: %s", c.label)
	}
}

func TestNewThreatRecord(t *testing.T) {
	rec, err := NewThreatRecord("10.0.0.9", ThreatBruteForce, 0.87, StatusBlocked)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.9", rec.IP)
	assert.Equal(t, ThreatBruteForce, rec.ThreatType)
	assert.Equal(t, StatusBlocked, rec.Status)
	assert.InDelta(t, 0.87, rec.Confidence, 1e-9)
	assert.False(t, rec.DetectedAt.IsZero())

	_, err = NewThreatRecord("", ThreatBruteForce, 0.5, StatusBlocked)
	assert.ErrorIs(t, err, ErrMissingSourceIP)

	_, err = NewThreatRecord("10.0.0.1", ThreatBruteForce, 0.5, ThreatStatus("quarantined"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestThreatStatus_IsValid(t *testing.T) {
	assert.True(t, StatusActive.IsValid())
	assert.True(t, StatusBlocked.IsValid())
	assert.True(t, StatusMitigated.IsValid())
	assert.False(t, ThreatStatus("deleted").IsValid())
}
