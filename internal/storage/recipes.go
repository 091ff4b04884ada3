package storage

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm/clause"

	"recipe-recommender/internal/pkg/common"
)

// SaveRecipe 依 recipeId 新增或覆寫食譜
func (s *Store) SaveRecipe(ctx context.Context, recipe common.Recipe) error {
	record := recordFromRecipe(recipe)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "ingredients", "instructions", "nutritional_info",
			"cooking_time", "difficulty", "cuisine_type", "meal_type", "tags", "image_url",
			"servings", "prep_time", "total_time", "source", "updated_at",
		}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// GetRecipe 依 recipeId 取得食譜
func (s *Store) GetRecipe(ctx context.Context, recipeID string) (common.Recipe, error) {
	var record RecipeRecord
	err := s.db.WithContext(ctx).Where("recipe_id = ?", recipeID).First(&record).Error
	if isNotFound(err) {
		return common.Recipe{}, common.ErrNotFound
	}
	if err != nil {
		return common.Recipe{}, fmt.Errorf("failed to get recipe: %w", err)
	}
	return record.ToRecipe(), nil
}

// RecipeExists 檢查食譜是否存在
func (s *Store) RecipeExists(ctx context.Context, recipeID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&RecipeRecord{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count > 0, nil
}

// CountRecipes 回傳已儲存的食譜數
func (s *Store) CountRecipes(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&RecipeRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}

// UpdateRecipeRating 更新食譜的平均評分與評分數
func (s *Store) UpdateRecipeRating(ctx context.Context, recipeID string, rating float64, total int) error {
	err := s.db.WithContext(ctx).Model(&RecipeRecord{}).
		Where("recipe_id = ?", recipeID).
		Updates(map[string]interface{}{"rating": rating, "total_ratings": total}).Error
	if err != nil {
		return fmt.Errorf("failed to update recipe rating: %w", err)
	}
	return nil
}

// FindRecipes 依推薦條件查詢候選食譜，評分高者優先
func (s *Store) FindRecipes(ctx context.Context, q RecipeQuery) ([]common.Recipe, error) {
	db := s.db.WithContext(ctx).Model(&RecipeRecord{})
	if len(q.ExcludeIDs) > 0 {
		db = db.Where("recipe_id NOT IN ?", q.ExcludeIDs)
	}
	if len(q.Cuisines) > 0 {
		lowered := make([]string, len(q.Cuisines))
		for i, c := range q.Cuisines {
			lowered[i] = strings.ToLower(c)
		}
		db = db.Where("LOWER(cuisine_type) IN ?", lowered)
	}
	if q.MinTime > 0 {
		db = db.Where("cooking_time >= ?", q.MinTime)
	}
	if q.MaxTime > 0 {
		db = db.Where("cooking_time <= ?", q.MaxTime)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	var records []RecipeRecord
	if err := db.Order("rating DESC").Order("total_ratings DESC").Order("recipe_id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find recipes: %w", err)
	}
	return toRecipes(records), nil
}

// RecipesByIDs 依 recipeId 取得食譜，評分高者優先；limit 為 0 表示不限制
func (s *Store) RecipesByIDs(ctx context.Context, ids []string, limit int) ([]common.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := s.db.WithContext(ctx).Where("recipe_id IN ?", ids)
	if limit > 0 {
		db = db.Limit(limit)
	}
	var records []RecipeRecord
	if err := db.Order("rating DESC").Order("recipe_id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find recipes by id: %w", err)
	}
	return toRecipes(records), nil
}

func toRecipes(records []RecipeRecord) []common.Recipe {
	recipes := make([]common.Recipe, 0, len(records))
	for _, r := range records {
		recipes = append(recipes, r.ToRecipe())
	}
	return recipes
}
