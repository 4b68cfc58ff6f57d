package storage

import (
	"context"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
	"gorm.io/gorm/clause"
)

// Ensure interface compliance
var _ ports.BlacklistStore = (*SQLiteAdapter)(nil)

// SaveBlacklistEntry inserts or refreshes an entry keyed by IP. Re-blocking
// an already blocked IP updates its reason and timestamp.
func (a *SQLiteAdapter) SaveBlacklistEntry(ctx context.Context, entry domain.BlacklistEntry) error {
	model := toBlacklistModel(entry)
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ip"}},
		UpdateAll: true,
	}).Create(&model).Error
}

// ListBlacklist returns all entries, newest first.
func (a *SQLiteAdapter) ListBlacklist(ctx context.Context) ([]domain.BlacklistEntry, error) {
	var models []BlacklistModel
	if err := a.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]domain.BlacklistEntry, len(models))
	for i, m := range models {
		entries[i] = toBlacklistDomain(m)
	}
	return entries, nil
}

// DeleteBlacklistEntry removes an entry. Deleting an absent IP is a no-op.
func (a *SQLiteAdapter) DeleteBlacklistEntry(ctx context.Context, ip string) error {
	return a.db.WithContext(ctx).Delete(&BlacklistModel{}, "ip = ?", ip).Error
}
