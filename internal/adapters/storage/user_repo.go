package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
	"gorm.io/gorm"
)

// Ensure interface compliance
var _ ports.UserRepository = (*SQLiteAdapter)(nil)

// SaveUser creates or updates a user.
func (a *SQLiteAdapter) SaveUser(ctx context.Context, user domain.User) error {
	model := toUserModel(user)
	return a.db.WithContext(ctx).Save(&model).Error
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (a *SQLiteAdapter) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserModel
	err := a.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	user := toUserDomain(model)
	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (a *SQLiteAdapter) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var model UserModel
	if err := a.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	user := toUserDomain(model)
	return &user, nil
}

// ListUsers returns all accounts, oldest first.
func (a *SQLiteAdapter) ListUsers(ctx context.Context) ([]domain.User, error) {
	var models []UserModel
	if err := a.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	users := make([]domain.User, len(models))
	for i, m := range models {
		users[i] = toUserDomain(m)
	}
	return users, nil
}
