package domain

import (
	"errors"
	"time"
)

// ThreatType is the internal threat taxonomy. The set mirrors what the
// dashboard understands plus raw passthrough aliases kept for older oracle
// vocabularies.
type ThreatType string

const (
	ThreatSQLInjection ThreatType = "SQL Injection"
	ThreatXSS          ThreatType = "XSS Attack"
	ThreatBruteForce   ThreatType = "Brute Force"
	ThreatDDoS         ThreatType = "DDoS"
	ThreatMalware      ThreatType = "Malware"
	ThreatPhishing     ThreatType = "Phishing"
	ThreatPortScan     ThreatType = "Port scan"

	// Legacy passthrough aliases still accepted in persisted records.
	ThreatBruteForceRaw ThreatType = "BruteForce"
	ThreatSQLiRaw       ThreatType = "SQLi"
	ThreatXSSRaw        ThreatType = "XSS"
)

// labelAliases maps the oracle's label vocabulary onto the internal taxonomy.
// It is a best-effort alias table, not exhaustive: unmapped labels pass
// through verbatim.
var labelAliases = map[string]ThreatType{
	"SQL_INJECTION": ThreatSQLInjection,
	"XSS":           ThreatXSS,
	"BRUTE_FORCE":   ThreatBruteForce,
	"PORT_SCAN":     ThreatPortScan,
}

// MapThreatLabel translates an oracle label into a ThreatType. The boolean
// reports whether the label was a known alias; passthrough labels return
// false so callers can surface them in monitoring.
func MapThreatLabel(label string) (ThreatType, bool) {
	if t, ok := labelAliases[label]; ok {
		return t, true
	}
	return ThreatType(label), false
}

// ThreatStatus tracks the lifecycle of a recorded threat.
type ThreatStatus string

const (
	StatusActive    ThreatStatus = "active"
	StatusBlocked   ThreatStatus = "blocked"
	StatusMitigated ThreatStatus = "mitigated"
)

// IsValid checks if the status is a recognized lifecycle state.
func (s ThreatStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusBlocked, StatusMitigated:
		return true
	}
	return false
}

var (
	ErrMissingSourceIP = errors.New("threat source IP is required")
	ErrInvalidStatus   = errors.New("invalid threat status")
	ErrThreatNotFound  = errors.New("threat record not found")
)

// ThreatRecord is the durable record of one detected threat. Immutable once
// created except for the status transition performed by operator action.
type ThreatRecord struct {
	ID         uint              `json:"id"`
	IP         string            `json:"ip"`
	ThreatType ThreatType        `json:"threatType"`
	Status     ThreatStatus      `json:"status"`
	Confidence float64           `json:"confidence"`
	DetectedAt time.Time         `json:"detectedAt"`
	Details    map[string]string `json:"details,omitempty"`
}

// NewThreatRecord is the designated factory for threat records.
func NewThreatRecord(ip string, threatType ThreatType, confidence float64, status ThreatStatus) (*ThreatRecord, error) {
	if ip == "" {
		return nil, ErrMissingSourceIP
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	return &ThreatRecord{
		IP:         ip,
		ThreatType: threatType,
		Status:     status,
		Confidence: confidence,
		DetectedAt: time.Now().UTC(),
		Details:    map[string]string{},
	}, nil
}
