package recommend

import (
	"math"
	"sort"

	"recipe-recommender/internal/pkg/common"
)

// 推薦分數的加權
const (
	RatingWeight       = 2.0
	CuisineBonus       = 10.0
	TimeBonusClose     = 5.0
	TimeBonusNear      = 2.0
	TimeCloseMinutes   = 10
	TimeNearMinutes    = 20
	PopularityDivisor  = 10.0
	PopularityBonusCap = 5.0
	DifficultyBonus    = 3.0
	DefaultDifficulty  = common.DifficultyMedium
	MinWindowMinutes   = 15
)

// Preferences 推薦用的用戶偏好
type Preferences struct {
	FavoriteCuisines     []string `json:"favoriteCuisines"`
	PreferredCookingTime int      `json:"preferredCookingTime"`
	DietaryRestrictions  []string `json:"dietaryRestrictions"`
}

// PreferredDifficulty 回傳歷史中出現最多次的難度；同票取最先出現者，無歷史時為 medium。
// 空字串視為 medium
func PreferredDifficulty(history []common.Difficulty) common.Difficulty {
	if len(history) == 0 {
		return DefaultDifficulty
	}

	counts := make(map[common.Difficulty]int, 3)
	var order []common.Difficulty
	for _, d := range history {
		if d == "" {
			d = DefaultDifficulty
		}
		if _, ok := counts[d]; !ok {
			order = append(order, d)
		}
		counts[d]++
	}

	best := order[0]
	for _, d := range order[1:] {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

// Score 計算單一食譜的推薦分數
func Score(recipe common.Recipe, prefs Preferences, preferred common.Difficulty) float64 {
	score := recipe.Rating * RatingWeight

	if common.ContainsFold(prefs.FavoriteCuisines, recipe.CuisineType) {
		score += CuisineBonus
	}

	diff := recipe.CookingTime - prefs.PreferredCookingTime
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= TimeCloseMinutes:
		score += TimeBonusClose
	case diff <= TimeNearMinutes:
		score += TimeBonusNear
	}

	score += math.Min(float64(recipe.TotalRatings)/PopularityDivisor, PopularityBonusCap)

	if recipe.Difficulty == preferred {
		score += DifficultyBonus
	}
	return score
}

// Rank 為每個候選食譜附上推薦分數並由高到低排序，同分維持原順序。輸入不會被修改
func Rank(candidates []common.Recipe, prefs Preferences, history []common.Difficulty) []common.Recipe {
	preferred := PreferredDifficulty(history)

	ranked := make([]common.Recipe, len(candidates))
	for i, recipe := range candidates {
		s := Score(recipe, prefs, preferred)
		recipe.RecommendationScore = &s
		ranked[i] = recipe
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].RecommendationScore > *ranked[j].RecommendationScore
	})
	return ranked
}

// CollaborativeRecipeIDs 合併相似用戶喜歡的食譜，排除已評分的，保留首次出現順序
func CollaborativeRecipeIDs(userRecipes [][]string, rated []string) []string {
	skip := make(map[string]struct{}, len(rated))
	for _, id := range rated {
		skip[id] = struct{}{}
	}

	var ids []string
	for _, recipes := range userRecipes {
		for _, id := range recipes {
			if _, ok := skip[id]; ok {
				continue
			}
			skip[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// Merge 串接主要與協同推薦，依 recipeId 去重（先出現者保留）並截斷到 limit
func Merge(primary, collaborative []common.Recipe, limit int) []common.Recipe {
	seen := make(map[string]struct{}, len(primary)+len(collaborative))
	out := make([]common.Recipe, 0, limit)
	for _, group := range [][]common.Recipe{primary, collaborative} {
		for _, recipe := range group {
			if len(out) >= limit {
				return out
			}
			if _, ok := seen[recipe.ID]; ok {
				continue
			}
			seen[recipe.ID] = struct{}{}
			out = append(out, recipe)
		}
	}
	return out
}

// TimeWindow 回傳偏好烹飪時間 ±20% 的範圍，下限不低於 15 分鐘
func TimeWindow(preferred int) (int, int) {
	spread := float64(preferred) * 0.2
	lo := math.Max(MinWindowMinutes, float64(preferred)-spread)
	hi := float64(preferred) + spread
	return int(math.Ceil(lo)), int(math.Floor(hi))
}
