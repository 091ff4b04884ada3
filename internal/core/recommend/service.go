package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
	"recipe-recommender/internal/storage"
)

// 查詢參數
const (
	HistorySize         = 20
	CandidateMultiplier = 2
	SimilarUserLimit    = 10
	SimilarMinRating    = 4
	SimilarMinAverage   = 4.0
)

// Store 推薦服務需要的持久層操作
type Store interface {
	GetOrCreateUser(ctx context.Context, userID string) (*storage.User, error)
	ListFeedback(ctx context.Context, userID, recipeID string, limit int) ([]storage.Feedback, error)
	RatedRecipeIDs(ctx context.Context, userID string) ([]string, error)
	FindRecipes(ctx context.Context, q storage.RecipeQuery) ([]common.Recipe, error)
	RecipesByIDs(ctx context.Context, ids []string, limit int) ([]common.Recipe, error)
	SimilarUsers(ctx context.Context, excludeUserID string, minRating int, minAvg float64, limit int) ([]storage.SimilarUser, error)
}

// Catalog 資料庫沒有食譜時使用的範例食譜
type Catalog interface {
	Recipes() []common.Recipe
}

// UserPreferences 回應中的偏好摘要
type UserPreferences struct {
	Preferences
	TotalFeedback int `json:"totalFeedback"`
}

// Result 推薦結果
type Result struct {
	Recommendations []common.Recipe `json:"recommendations"`
	UserPreferences UserPreferences `json:"userPreferences"`
	TotalFound      int             `json:"totalFound"`
}

// Service 個人化推薦服務
type Service struct {
	store   Store
	catalog Catalog
	cfg     config.RecommendationConfig
}

// NewService 創建推薦服務
func NewService(store Store, catalog Catalog, cfg config.RecommendationConfig) *Service {
	return &Service{store: store, catalog: catalog, cfg: cfg}
}

// ClampLimit 未指定時使用預設值，並限制在 [1, MaxLimit]
func (s *Service) ClampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

// Recommend 為用戶產生推薦清單；不存在的用戶會以預設偏好建立
func (s *Service) Recommend(ctx context.Context, userID string, limit int) (*Result, error) {
	if userID == "" {
		return nil, common.NewFieldError("userId", "userId is required")
	}
	limit = s.ClampLimit(limit)

	user, err := s.store.GetOrCreateUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.store.ListFeedback(ctx, userID, "", HistorySize)
	if err != nil {
		return nil, err
	}
	rated, err := s.store.RatedRecipeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	difficulties, err := s.historyDifficulties(ctx, history)
	if err != nil {
		return nil, err
	}

	prefs := Preferences{
		FavoriteCuisines:     nonNil(user.Preferences.FavoriteCuisines),
		PreferredCookingTime: user.Preferences.PreferredCookingTime,
		DietaryRestrictions:  nonNil(user.Preferences.DietaryRestrictions),
	}

	var primary, collaborative []common.Recipe
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		primary, err = s.candidates(gctx, prefs, rated, limit*CandidateMultiplier)
		return err
	})
	if len(history) > 0 {
		g.Go(func() error {
			recipes, err := s.collaborative(gctx, userID, rated, limit)
			if err != nil {
				common.LogWarn("協同推薦失敗，略過",
					zap.String("user_id", userID),
					zap.Error(err),
				)
				return nil
			}
			collaborative = recipes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	preferred := PreferredDifficulty(difficulties)
	ranked := Rank(primary, prefs, difficulties)
	for i := range collaborative {
		score := Score(collaborative[i], prefs, preferred)
		collaborative[i].RecommendationScore = &score
	}

	final := Merge(ranked, collaborative, limit)
	common.LogDebug("推薦完成",
		zap.String("user_id", userID),
		zap.Int("primary", len(primary)),
		zap.Int("collaborative", len(collaborative)),
		zap.Int("returned", len(final)),
	)

	return &Result{
		Recommendations: final,
		UserPreferences: UserPreferences{Preferences: prefs, TotalFeedback: len(history)},
		TotalFound:      len(final),
	}, nil
}

// candidates 依偏好查詢候選；沒有結果時只排除已評分，仍沒有則使用範例食譜
func (s *Service) candidates(ctx context.Context, prefs Preferences, rated []string, limit int) ([]common.Recipe, error) {
	minTime, maxTime := TimeWindow(prefs.PreferredCookingTime)
	filtered := storage.RecipeQuery{
		ExcludeIDs: rated,
		Cuisines:   prefs.FavoriteCuisines,
		MinTime:    minTime,
		MaxTime:    maxTime,
		Limit:      limit,
	}
	recipes, err := s.store.FindRecipes(ctx, filtered)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	if len(recipes) > 0 {
		return recipes, nil
	}

	recipes, err = s.store.FindRecipes(ctx, storage.RecipeQuery{ExcludeIDs: rated, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to query general candidates: %w", err)
	}
	if len(recipes) > 0 {
		return recipes, nil
	}

	if s.catalog == nil {
		return nil, nil
	}
	var samples []common.Recipe
	for _, r := range s.catalog.Recipes() {
		if !common.ContainsFold(rated, r.ID) {
			samples = append(samples, r)
		}
	}
	return samples, nil
}

// collaborative 取得相似用戶喜歡但本用戶尚未評分的食譜
func (s *Service) collaborative(ctx context.Context, userID string, rated []string, limit int) ([]common.Recipe, error) {
	users, err := s.store.SimilarUsers(ctx, userID, SimilarMinRating, SimilarMinAverage, SimilarUserLimit)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}

	groups := make([][]string, len(users))
	for i, u := range users {
		groups[i] = u.RecipeIDs
	}
	ids := CollaborativeRecipeIDs(groups, rated)
	if len(ids) == 0 {
		return nil, nil
	}
	return s.store.RecipesByIDs(ctx, ids, limit)
}

// historyDifficulties 取得回饋紀錄中食譜的難度；找不到的食譜記為空字串
func (s *Service) historyDifficulties(ctx context.Context, history []storage.Feedback) ([]common.Difficulty, error) {
	if len(history) == 0 {
		return nil, nil
	}
	ids := make([]string, len(history))
	for i, fb := range history {
		ids[i] = fb.RecipeID
	}
	recipes, err := s.store.RecipesByIDs(ctx, ids, 0)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]common.Difficulty, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r.Difficulty
	}

	out := make([]common.Difficulty, len(history))
	for i, fb := range history {
		out[i] = byID[fb.RecipeID]
	}
	return out, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
