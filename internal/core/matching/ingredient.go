package matching

import (
	"strings"

	"recipe-recommender/internal/pkg/common"
)

// SimilarityThreshold 視為相似食材的最低相似度（不含）
const SimilarityThreshold = 0.7

// IngredientMatcher 將食譜食材分類為 exact / similar / substitute / missing
type IngredientMatcher struct {
	substitutions SubstitutionTable
}

// NewIngredientMatcher 創建食材配對器
func NewIngredientMatcher(substitutions SubstitutionTable) *IngredientMatcher {
	return &IngredientMatcher{substitutions: substitutions}
}

// Match 對每個食譜食材回傳一筆配對結果，順序與食譜食材相同
func (m *IngredientMatcher) Match(recipeIngredients []common.RecipeIngredient, userIngredients []string) []IngredientMatch {
	users := make([]string, len(userIngredients))
	for i, u := range userIngredients {
		users[i] = strings.ToLower(strings.TrimSpace(u))
	}

	matches := make([]IngredientMatch, 0, len(recipeIngredients))
	for _, ing := range recipeIngredients {
		matches = append(matches, m.matchOne(ing.Ingredient, users))
	}
	return matches
}

func (m *IngredientMatcher) matchOne(recipeIngredient string, users []string) IngredientMatch {
	r := strings.ToLower(strings.TrimSpace(recipeIngredient))

	for _, u := range users {
		if u == r {
			return IngredientMatch{
				UserIngredient:   recipeIngredient,
				RecipeIngredient: recipeIngredient,
				MatchType:        MatchExact,
				Confidence:       ConfidenceExact,
			}
		}
	}

	// 第一個超過門檻的即採用
	for _, u := range users {
		if Similarity(r, u) > SimilarityThreshold {
			return IngredientMatch{
				UserIngredient:   u,
				RecipeIngredient: recipeIngredient,
				MatchType:        MatchSimilar,
				Confidence:       ConfidenceSimilar,
			}
		}
	}

	if candidate, ok := m.substitutions.Find(r, users); ok {
		return IngredientMatch{
			UserIngredient:   candidate,
			RecipeIngredient: recipeIngredient,
			MatchType:        MatchSubstitute,
			Confidence:       ConfidenceSubstitute,
			Substitution:     candidate,
		}
	}

	return IngredientMatch{
		UserIngredient:   MissingSentinel,
		RecipeIngredient: recipeIngredient,
		MatchType:        MatchMissing,
		Confidence:       ConfidenceMissing,
	}
}
