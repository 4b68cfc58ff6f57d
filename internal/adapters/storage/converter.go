package storage

import (
	"encoding/json"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
)

func toThreatModel(r domain.ThreatRecord) ThreatModel {
	var details string
	if len(r.Details) > 0 {
		if raw, err := json.Marshal(r.Details); err == nil {
			details = string(raw)
		}
	}
	return ThreatModel{
		ID:         r.ID,
		IP:         r.IP,
		ThreatType: string(r.ThreatType),
		Status:     string(r.Status),
		Confidence: r.Confidence,
		DetectedAt: r.DetectedAt,
		Details:    details,
	}
}

func toThreatDomain(m ThreatModel) domain.ThreatRecord {
	var details map[string]string
	if m.Details != "" {
		// Corrupt details degrade to nil rather than failing the read.
		_ = json.Unmarshal([]byte(m.Details), &details)
	}
	return domain.ThreatRecord{
		ID:         m.ID,
		IP:         m.IP,
		ThreatType: domain.ThreatType(m.ThreatType),
		Status:     domain.ThreatStatus(m.Status),
		Confidence: m.Confidence,
		DetectedAt: m.DetectedAt,
		Details:    details,
	}
}

func toBlacklistModel(e domain.BlacklistEntry) BlacklistModel {
	return BlacklistModel{IP: e.IP, Reason: e.Reason, CreatedAt: e.CreatedAt}
}

func toBlacklistDomain(m BlacklistModel) domain.BlacklistEntry {
	return domain.BlacklistEntry{IP: m.IP, Reason: m.Reason, CreatedAt: m.CreatedAt}
}

func toRequestLogModel(l domain.RequestLog) RequestLogModel {
	return RequestLogModel{
		ID:           l.ID,
		IP:           l.IP,
		Endpoint:     l.Endpoint,
		Method:       l.Method,
		StatusCode:   l.StatusCode,
		ResponseTime: l.ResponseTime,
		Timestamp:    l.Timestamp,
	}
}

func toRequestLogDomain(m RequestLogModel) domain.RequestLog {
	return domain.RequestLog{
		ID:           m.ID,
		IP:           m.IP,
		Endpoint:     m.Endpoint,
		Method:       m.Method,
		StatusCode:   m.StatusCode,
		ResponseTime: m.ResponseTime,
		Timestamp:    m.Timestamp,
	}
}

func toUserModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
	}
}

func toUserDomain(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		LastLogin:    m.LastLogin,
	}
}
