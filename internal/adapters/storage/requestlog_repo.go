package storage

import (
	"context"
	"time"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
)

// Ensure interface compliance
var _ ports.RequestLogStore = (*SQLiteAdapter)(nil)

// SaveRequestLog persists one access record.
func (a *SQLiteAdapter) SaveRequestLog(ctx context.Context, log domain.RequestLog) error {
	model := toRequestLogModel(log)
	model.ID = 0
	return a.db.WithContext(ctx).Create(&model).Error
}

// ListRequestLogs returns the most recent records, newest first.
func (a *SQLiteAdapter) ListRequestLogs(ctx context.Context, limit int) ([]domain.RequestLog, error) {
	var models []RequestLogModel
	err := a.db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return requestLogsToDomain(models), nil
}

// CountRequests returns the total number of logged requests.
func (a *SQLiteAdapter) CountRequests(ctx context.Context) (int64, error) {
	var count int64
	if err := a.db.WithContext(ctx).Model(&RequestLogModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AverageResponseTime returns the mean response time in milliseconds over
// all logged requests, zero when nothing has been logged.
func (a *SQLiteAdapter) AverageResponseTime(ctx context.Context) (float64, error) {
	var avg *float64
	err := a.db.WithContext(ctx).Model(&RequestLogModel{}).
		Select("AVG(response_time)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// RequestLogsSince returns all logs at or after start, oldest first.
func (a *SQLiteAdapter) RequestLogsSince(ctx context.Context, start time.Time) ([]domain.RequestLog, error) {
	var models []RequestLogModel
	err := a.db.WithContext(ctx).
		Where("timestamp >= ?", start).
		Order("timestamp ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return requestLogsToDomain(models), nil
}

func requestLogsToDomain(models []RequestLogModel) []domain.RequestLog {
	logs := make([]domain.RequestLog, len(models))
	for i, m := range models {
		logs[i] = toRequestLogDomain(m)
	}
	return logs
}
