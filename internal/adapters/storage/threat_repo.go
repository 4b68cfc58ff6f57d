package storage

import (
	"context"
	"time"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
)

// Ensure interface compliance
var _ ports.ThreatLedger = (*SQLiteAdapter)(nil)

// SaveThreat appends a new threat record and backfills its assigned ID.
func (a *SQLiteAdapter) SaveThreat(ctx context.Context, record *domain.ThreatRecord) error {
	model := toThreatModel(*record)
	model.ID = 0
	if err := a.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	record.ID = model.ID
	return nil
}

// CountThreats returns the total record count, filtered by status when set.
func (a *SQLiteAdapter) CountThreats(ctx context.Context, status domain.ThreatStatus) (int64, error) {
	query := a.db.WithContext(ctx).Model(&ThreatModel{})
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByType groups record counts by threat type, largest group first.
func (a *SQLiteAdapter) CountByType(ctx context.Context) ([]domain.TypeCount, error) {
	var rows []struct {
		ThreatType string
		Count      int64
	}
	err := a.db.WithContext(ctx).Model(&ThreatModel{}).
		Select("threat_type, COUNT(*) as count").
		Group("threat_type").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make([]domain.TypeCount, len(rows))
	for i, r := range rows {
		counts[i] = domain.TypeCount{Type: domain.ThreatType(r.ThreatType), Count: r.Count}
	}
	return counts, nil
}

// RecentThreats returns the most recent records, newest first.
func (a *SQLiteAdapter) RecentThreats(ctx context.Context, limit int) ([]domain.ThreatRecord, error) {
	var models []ThreatModel
	err := a.db.WithContext(ctx).
		Order("detected_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return threatsToDomain(models), nil
}

// ThreatsSince returns all records detected at or after start, oldest first.
func (a *SQLiteAdapter) ThreatsSince(ctx context.Context, start time.Time) ([]domain.ThreatRecord, error) {
	var models []ThreatModel
	err := a.db.WithContext(ctx).
		Where("detected_at >= ?", start).
		Order("detected_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return threatsToDomain(models), nil
}

// UpdateThreatStatus applies an operator status transition to one record.
func (a *SQLiteAdapter) UpdateThreatStatus(ctx context.Context, id uint, status domain.ThreatStatus) error {
	if !status.IsValid() {
		return domain.ErrInvalidStatus
	}
	result := a.db.WithContext(ctx).Model(&ThreatModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrThreatNotFound
	}
	return nil
}

func threatsToDomain(models []ThreatModel) []domain.ThreatRecord {
	records := make([]domain.ThreatRecord, len(models))
	for i, m := range models {
		records[i] = toThreatDomain(m)
	}
	return records
}
