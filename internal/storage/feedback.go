package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"
)

// UpsertFeedback 新增或覆寫 (userId, recipeId) 的回饋，回傳是否為新建立。
// 寫入完成後 fb 會帶回資料庫中的 id 與 createdAt
func (s *Store) UpsertFeedback(ctx context.Context, fb *Feedback) (bool, error) {
	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&Feedback{}).
		Where("user_id = ? AND recipe_id = ?", fb.UserID, fb.RecipeID).
		Count(&existing).Error; err != nil {
		return false, fmt.Errorf("failed to load feedback: %w", err)
	}

	// 同一組 (userId, recipeId) 並行寫入時由唯一索引轉為更新
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"rating", "review", "cooking_notes", "taste_rating", "difficulty_rating",
			"presentation_rating", "is_favorite", "would_cook_again", "tags", "updated_at",
		}),
	}).Create(fb).Error
	if err != nil {
		return false, fmt.Errorf("failed to save feedback: %w", err)
	}

	var stored Feedback
	if err := db.Where("user_id = ? AND recipe_id = ?", fb.UserID, fb.RecipeID).First(&stored).Error; err != nil {
		return false, fmt.Errorf("failed to load feedback: %w", err)
	}
	*fb = stored
	return existing == 0, nil
}

// RecipeRatingStats 回傳食譜所有回饋的平均評分與筆數
func (s *Store) RecipeRatingStats(ctx context.Context, recipeID string) (float64, int, error) {
	var row struct {
		Avg   float64
		Total int
	}
	err := s.db.WithContext(ctx).Model(&Feedback{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS total").
		Where("recipe_id = ?", recipeID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	return row.Avg, row.Total, nil
}

// ListFeedback 取得用戶的回饋，最新的在前；recipeID 為空時不過濾
func (s *Store) ListFeedback(ctx context.Context, userID, recipeID string, limit int) ([]Feedback, error) {
	db := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if recipeID != "" {
		db = db.Where("recipe_id = ?", recipeID)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	var items []Feedback
	if err := db.Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return items, nil
}

// RatedRecipeIDs 回傳用戶評分過的所有食譜
func (s *Store) RatedRecipeIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&Feedback{}).
		Where("user_id = ?", userID).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list rated recipes: %w", err)
	}
	return ids, nil
}

// SimilarUsers 找出其他給過高分的用戶：只計入評分不低於 minRating 的回饋，
// 平均不低於 minAvg 者依平均由高到低取前 limit 位
func (s *Store) SimilarUsers(ctx context.Context, excludeUserID string, minRating int, minAvg float64, limit int) ([]SimilarUser, error) {
	db := s.db.WithContext(ctx)

	var rows []struct {
		UserID    string
		AvgRating float64
	}
	err := db.Model(&Feedback{}).
		Select("user_id, AVG(rating) AS avg_rating").
		Where("user_id <> ? AND rating >= ?", excludeUserID, minRating).
		Group("user_id").
		Having("AVG(rating) >= ?", minAvg).
		Order("avg_rating DESC").
		Order("user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate similar users: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	userIDs := make([]string, len(rows))
	for i, r := range rows {
		userIDs[i] = r.UserID
	}

	var items []Feedback
	if err := db.Select("user_id", "recipe_id").
		Where("user_id IN ? AND rating >= ?", userIDs, minRating).
		Order("created_at ASC").Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load similar user feedback: %w", err)
	}

	byUser := make(map[string][]string, len(rows))
	for _, fb := range items {
		byUser[fb.UserID] = append(byUser[fb.UserID], fb.RecipeID)
	}

	users := make([]SimilarUser, 0, len(rows))
	for _, r := range rows {
		users = append(users, SimilarUser{UserID: r.UserID, AvgRating: r.AvgRating, RecipeIDs: byUser[r.UserID]})
	}
	return users, nil
}
