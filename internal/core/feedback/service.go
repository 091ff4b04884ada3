package feedback

import (
	"context"
	"errors"
	"math"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"recipe-recommender/internal/pkg/common"
	"recipe-recommender/internal/storage"
)

// 驗證限制
const (
	MinRating          = 1
	MaxRating          = 5
	MaxReviewLength    = 1000
	MaxCookingNotesLen = 500
	ListLimit          = 50
	// 評分達此值時學習菜系與烹飪時間
	LearningRating = 4
)

// SubmitRequest 回饋提交請求
type SubmitRequest struct {
	UserID             string         `json:"userId"`
	RecipeID           string         `json:"recipeId"`
	Rating             *float64       `json:"rating"`
	Review             string         `json:"review"`
	CookingNotes       string         `json:"cookingNotes"`
	TasteRating        *int           `json:"tasteRating"`
	DifficultyRating   *int           `json:"difficultyRating"`
	PresentationRating *int           `json:"presentationRating"`
	IsFavorite         bool           `json:"isFavorite"`
	WouldCookAgain     *bool          `json:"wouldCookAgain"`
	Tags               []string       `json:"tags"`
	RecipeData         *common.Recipe `json:"recipeData"`
}

// SubmitResult 提交結果
type SubmitResult struct {
	Message  string           `json:"message"`
	Feedback storage.Feedback `json:"feedback"`
	Created  bool             `json:"created"`
}

// Store 回饋服務需要的持久層操作
type Store interface {
	Transaction(ctx context.Context, fn func(tx *storage.Store) error) error
	ListFeedback(ctx context.Context, userID, recipeID string, limit int) ([]storage.Feedback, error)
}

// Service 回饋服務
type Service struct {
	store Store
}

// NewService 創建回饋服務
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Validate 檢查必填欄位與數值範圍
func (r *SubmitRequest) Validate() error {
	if r.UserID == "" || r.RecipeID == "" || r.Rating == nil {
		return common.NewValidationError("Missing required fields: userId, recipeId, rating")
	}
	rating := *r.Rating
	if rating < MinRating || rating > MaxRating {
		return common.NewFieldError("rating", "Rating must be between 1 and 5")
	}
	if rating != math.Trunc(rating) {
		return common.NewFieldError("rating", "Rating must be a whole number")
	}
	if utf8.RuneCountInString(r.Review) > MaxReviewLength {
		return common.NewFieldError("review", "Review must be at most 1000 characters")
	}
	if utf8.RuneCountInString(r.CookingNotes) > MaxCookingNotesLen {
		return common.NewFieldError("cookingNotes", "Cooking notes must be at most 500 characters")
	}
	for _, sub := range []struct {
		field string
		value *int
	}{
		{"tasteRating", r.TasteRating},
		{"difficultyRating", r.DifficultyRating},
		{"presentationRating", r.PresentationRating},
	} {
		if sub.value != nil && (*sub.value < MinRating || *sub.value > MaxRating) {
			return common.NewFieldError(sub.field, sub.field+" must be between 1 and 5")
		}
	}
	return nil
}

func (r *SubmitRequest) toRecord() *storage.Feedback {
	wouldCookAgain := true
	if r.WouldCookAgain != nil {
		wouldCookAgain = *r.WouldCookAgain
	}
	tags := datatypes.JSONSlice[string]{}
	if r.Tags != nil {
		tags = datatypes.JSONSlice[string](r.Tags)
	}
	return &storage.Feedback{
		UserID:             r.UserID,
		RecipeID:           r.RecipeID,
		Rating:             int(*r.Rating),
		Review:             r.Review,
		CookingNotes:       r.CookingNotes,
		TasteRating:        r.TasteRating,
		DifficultyRating:   r.DifficultyRating,
		PresentationRating: r.PresentationRating,
		IsFavorite:         r.IsFavorite,
		WouldCookAgain:     wouldCookAgain,
		Tags:               tags,
	}
}

// Submit 新增或更新回饋，並在同一交易中更新食譜評分與用戶偏好
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	record := req.toRecord()
	var created bool
	err := s.store.Transaction(ctx, func(tx *storage.Store) error {
		recipe, err := s.ensureRecipe(ctx, tx, req)
		if err != nil {
			return err
		}

		if created, err = tx.UpsertFeedback(ctx, record); err != nil {
			return err
		}

		avg, total, err := tx.RecipeRatingStats(ctx, req.RecipeID)
		if err != nil {
			return err
		}
		if recipe != nil {
			if err := tx.UpdateRecipeRating(ctx, req.RecipeID, common.Round1(avg), total); err != nil {
				return err
			}
		}

		return learnPreferences(ctx, tx, record, recipe)
	})
	if err != nil {
		return nil, err
	}

	message := "Feedback updated successfully"
	if created {
		message = "Feedback submitted successfully"
	}
	common.LogInfo("回饋已儲存",
		zap.String("user_id", record.UserID),
		zap.String("recipe_id", record.RecipeID),
		zap.Int("rating", record.Rating),
		zap.Bool("created", created),
	)
	return &SubmitResult{Message: message, Feedback: *record, Created: created}, nil
}

// ensureRecipe 取得回饋對應的食譜；不存在且附上 recipeData 時先儲存
func (s *Service) ensureRecipe(ctx context.Context, tx *storage.Store, req *SubmitRequest) (*common.Recipe, error) {
	recipe, err := tx.GetRecipe(ctx, req.RecipeID)
	if err == nil {
		return &recipe, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if req.RecipeData == nil {
		return nil, nil
	}

	data := *req.RecipeData
	data.ID = req.RecipeID
	data.Rating = 0
	data.TotalRatings = 0
	data.RecommendationScore = nil
	if data.Source == "" {
		data.Source = common.SourceAI
	}
	if err := tx.SaveRecipe(ctx, data); err != nil {
		return nil, err
	}
	return &data, nil
}

// learnPreferences 依回饋更新用戶的紀錄、收藏與偏好
func learnPreferences(ctx context.Context, tx *storage.Store, fb *storage.Feedback, recipe *common.Recipe) error {
	user, err := tx.GetOrCreateUser(ctx, fb.UserID)
	if err != nil {
		return err
	}

	if !contains(user.FeedbackHistory, fb.ID) {
		user.FeedbackHistory = append(user.FeedbackHistory, fb.ID)
	}

	if fb.IsFavorite {
		if !contains(user.FavoriteRecipes, fb.RecipeID) {
			user.FavoriteRecipes = append(user.FavoriteRecipes, fb.RecipeID)
		}
	} else {
		user.FavoriteRecipes = remove(user.FavoriteRecipes, fb.RecipeID)
	}

	if recipe != nil && fb.Rating >= LearningRating {
		if recipe.CuisineType != "" && !user.Preferences.HasFavoriteCuisine(recipe.CuisineType) {
			user.Preferences.FavoriteCuisines = append(user.Preferences.FavoriteCuisines, recipe.CuisineType)
		}
		if recipe.CookingTime > 0 {
			current := user.Preferences.PreferredCookingTime
			user.Preferences.PreferredCookingTime = int(math.Round(float64(current+recipe.CookingTime) / 2))
		}
	}

	return tx.SaveUser(ctx, user)
}

// List 取得用戶回饋，最新在前，最多 50 筆
func (s *Service) List(ctx context.Context, userID, recipeID string) ([]storage.Feedback, error) {
	if userID == "" {
		return nil, common.NewFieldError("userId", "userId is required")
	}
	items, err := s.store.ListFeedback(ctx, userID, recipeID, ListLimit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []storage.Feedback{}
	}
	return items, nil
}

func contains(items datatypes.JSONSlice[string], target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func remove(items datatypes.JSONSlice[string], target string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(items))
	for _, item := range items {
		if item != target {
			out = append(out, item)
		}
	}
	return out
}
