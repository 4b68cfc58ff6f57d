package domain

import (
	"net"
	"strings"
	"time"
)

// FeaturesLen is the fixed length of every feature vector. The oracle's model
// is trained against exactly this many columns; changing it is a breaking
// change to the wire contract.
const FeaturesLen = 20

// Positional indices into a FeatureVector. The order is part of the oracle
// contract and of the audit CSV layout.
const (
	FeatEmailLength = iota
	FeatPasswordLength
	FeatPasswordSpecialChars
	FeatIsPost
	FeatIsLoginEndpoint
	FeatUserAgentLength
	FeatIPOctet1
	FeatIPOctet2
	FeatIPOctet3
	FeatIPOctet4
	FeatTimeSinceLast
	FeatBodyFieldCount
	FeatHasSQL
	FeatHasScript
	FeatHour
	FeatDay
	FeatIsGmail
	FeatIsYahoo
	FeatIsOutlook
	FeatDummy
)

// FeatureNames are the canonical column names, in positional order. They head
// the audit CSV and key the named feature map sent to the oracle.
var FeatureNames = [FeaturesLen]string{
	"email_length", "password_length", "password_special_chars",
	"is_post", "is_login_endpoint", "user_agent_length",
	"ip_octet_1", "ip_octet_2", "ip_octet_3", "ip_octet_4",
	"time_since_last", "body_field_count",
	"has_sql", "has_script", "hour", "day",
	"is_gmail", "is_yahoo", "is_outlook", "dummy",
}

// FeatureVector is one extracted behavioral sample. It is constructed fresh
// per request and never mutated afterwards.
type FeatureVector [FeaturesLen]float64

// IsValid reports whether every element is a finite, non-negative number.
func (v FeatureVector) IsValid() bool {
	for _, f := range v {
		if f < 0 || f != f { // NaN never equals itself
			return false
		}
		if f > 1e308 {
			return false
		}
	}
	return true
}

// MaxTimeSinceLast caps the time-since-last-request feature (seconds).
const MaxTimeSinceLast = 3600

// LoginEndpoint is the path whose requests flow through the classification gate.
const LoginEndpoint = "/api/login"

// LoginAttempt is the slice of an inbound request the extractor looks at.
// Absent fields stay zero-valued; extraction degrades to defaults instead of
// failing.
type LoginAttempt struct {
	Email      string
	Password   string
	Method     string
	Path       string
	UserAgent  string
	RemoteIP   string
	FieldCount int

	// SessionKey identifies the logical client session for the
	// time-since-last feature. Usually the session cookie value, falling
	// back to the client IP.
	SessionKey string

	// Time is when the request was received. Zero means "now" to the
	// extractor.
	Time time.Time
}

// ClientIP returns the attempt's source address as a 4-byte IPv4, defaulting
// to 0.0.0.0 when absent, unparsable, or not representable as IPv4. The
// octets feed four separate feature slots, so the result is always exactly
// four bytes.
func (a LoginAttempt) ClientIP() net.IP {
	host := a.RemoteIP
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if ip := net.ParseIP(host); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4
		}
	}
	return net.IPv4zero.To4()
}

// SampleLabel is the binary training label attached to an audited vector.
type SampleLabel string

const (
	LabelBenign SampleLabel = "benign"
	LabelAttack SampleLabel = "attack"
)

// sqlKeywords are matched case-insensitively against the password field.
var sqlKeywords = []string{
	"SELECT", "UNION", "INSERT", "UPDATE", "DELETE", "DROP", "OR 1=1", "--",
}

// scriptPatterns are matched case-insensitively against the password field.
var scriptPatterns = []string{
	"<script", "javascript:", "onerror=", "onload=", "onmouseover=",
	"alert(", "document.", "window.", "eval(", "document.cookie",
	"document.write", "innerhtml", "outerhtml", "src=", "href=",
}

// ContainsSQLKeyword reports whether s carries one of the fixed SQL-injection
// keyword substrings.
func ContainsSQLKeyword(s string) bool {
	upper := strings.ToUpper(s)
	for _, kw := range sqlKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// ContainsScriptPattern reports whether s carries one of the fixed
// script-injection substrings.
func ContainsScriptPattern(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range scriptPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
