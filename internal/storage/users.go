package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"recipe-recommender/internal/pkg/common"
)

// GetUser 依 userId 取得用戶
func (s *Store) GetUser(ctx context.Context, userID string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if isNotFound(err) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetOrCreateUser 取得用戶，不存在時以預設偏好建立
func (s *Store) GetOrCreateUser(ctx context.Context, userID string) (*User, error) {
	db := s.db.WithContext(ctx)

	user := NewUser(userID)
	// 並行建立時由唯一索引擋下重複
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	var stored User
	if err := db.Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &stored, nil
}

// SaveUser 儲存用戶（偏好、收藏、回饋紀錄）
func (s *Store) SaveUser(ctx context.Context, user *User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}
