package domain

import "time"

// ThreatReport is the printable summary exported from the dashboard.
type ThreatReport struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Window      Window         `json:"window"`
	Stats       ThreatStats    `json:"stats"`
	ByType      []TypeCount    `json:"byType"`
	Recent      []ThreatRecord `json:"recent"`
}
