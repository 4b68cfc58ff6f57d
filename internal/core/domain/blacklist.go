package domain

import (
	"errors"
	"time"
)

var ErrEmptyBlacklistIP = errors.New("blacklist entry requires an IP")

// BlacklistEntry denies all traffic from one source address. Entries are
// permanent until removed by an administrator; the gate never expires them.
type BlacklistEntry struct {
	IP        string    `json:"ip"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewBlacklistEntry creates a validated blacklist entry.
func NewBlacklistEntry(ip, reason string) (*BlacklistEntry, error) {
	if ip == "" {
		return nil, ErrEmptyBlacklistIP
	}
	return &BlacklistEntry{
		IP:        ip,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}, nil
}
