package domain

// BenignLabel is the oracle's sole allow signal. Matching is exact and
// case-sensitive.
const BenignLabel = "BENIGN"

// Verdict is the oracle's response: a free-form label plus a confidence in
// [0,1]. It is never persisted verbatim; non-benign verdicts are translated
// into ThreatRecords.
type Verdict struct {
	Label      string  `json:"threatType"`
	Confidence float64 `json:"confidence"`
}

// Benign reports whether the verdict carries the allow sentinel.
func (v Verdict) Benign() bool {
	return v.Label == BenignLabel
}

// Decision is what the gate hands back to the login endpoint.
type Decision struct {
	Allow      bool       `json:"allow"`
	ThreatType ThreatType `json:"threatType,omitempty"`
	Confidence float64    `json:"confidence,omitempty"`
	Message    string     `json:"message,omitempty"`

	// Unscored marks requests that passed without a verdict because the
	// classifier was unavailable and the gate is configured fail-open.
	Unscored bool `json:"-"`
}
