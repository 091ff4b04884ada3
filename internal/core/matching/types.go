package matching

import "recipe-recommender/internal/pkg/common"

// MatchType 食材配對類型，四者互斥
type MatchType string

const (
	MatchExact      MatchType = "exact"
	MatchSimilar    MatchType = "similar"
	MatchSubstitute MatchType = "substitute"
	MatchMissing    MatchType = "missing"
)

// 各配對類型的固定信心值
const (
	ConfidenceExact      = 1.0
	ConfidenceSimilar    = 0.8
	ConfidenceSubstitute = 0.6
	ConfidenceMissing    = 0.0
)

// MissingSentinel 缺少食材時記錄的使用者食材
const MissingSentinel = "missing"

// Origin 候選食譜來源
type Origin string

const (
	OriginGenerated Origin = "generated"
	OriginCatalog   Origin = "catalog"
)

// IngredientMatch 單一食譜食材的配對結果
type IngredientMatch struct {
	UserIngredient   string    `json:"userIngredient"`
	RecipeIngredient string    `json:"recipeIngredient"`
	MatchType        MatchType `json:"matchType"`
	Confidence       float64   `json:"confidence"`
	Substitution     string    `json:"substitution,omitempty"`
}

// RecipeMatch 食譜配對評分結果，每次評分重新產生，不會儲存
type RecipeMatch struct {
	Recipe               common.Recipe     `json:"recipe"`
	Origin               Origin            `json:"origin,omitempty"`
	MatchScore           float64           `json:"matchScore"`
	IngredientMatches    []IngredientMatch `json:"ingredientMatches"`
	DietaryCompatibility float64           `json:"dietaryCompatibility"`
	CuisineMatch         float64           `json:"cuisineMatch"`
	TimeMatch            float64           `json:"timeMatch"`
	Explanation          string            `json:"explanation"`
}

// MissingIngredients 回傳配對結果中缺少的食譜食材
func (m RecipeMatch) MissingIngredients() []string {
	var missing []string
	for _, im := range m.IngredientMatches {
		if im.MatchType == MatchMissing {
			missing = append(missing, im.RecipeIngredient)
		}
	}
	return missing
}
