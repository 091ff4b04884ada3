package matching

import (
	"fmt"
	"math"
	"strings"

	"recipe-recommender/internal/pkg/common"
)

// 各子分數權重，總和為 1.0
const (
	WeightIngredient = 0.60
	WeightDietary    = 0.25
	WeightCuisine    = 0.10
	WeightTime       = 0.05
)

// maxUtilizationBonus 使用者食材利用率加分上限
const maxUtilizationBonus = 0.2

// Scorer 將四個子分數加權合併為單一配對分數
type Scorer struct {
	ingredients *IngredientMatcher
	dietary     *DietaryScorer
	cuisine     *CuisineMatcher
}

// NewScorer 以查詢表建立評分器
func NewScorer(tables Tables) *Scorer {
	return &Scorer{
		ingredients: NewIngredientMatcher(tables.Substitutions),
		dietary:     NewDietaryScorer(tables),
		cuisine:     NewCuisineMatcher(tables.CuisineAdjacency),
	}
}

// Score 計算單一食譜對請求的配對結果
func (s *Scorer) Score(recipe common.Recipe, req common.RecipeGenerationRequest) RecipeMatch {
	matches := s.ingredients.Match(recipe.Ingredients, req.Ingredients)
	ingredientScore := IngredientScore(matches, len(req.Ingredients))
	dietaryScore := s.dietary.Score(recipe, req.DietaryPreferences)
	cuisineScore := s.cuisine.Score(recipe.CuisineType, req.CuisineType)
	timeScore := TimeScore(recipe.CookingTime, req.CookingTime)

	total := ingredientScore*WeightIngredient +
		dietaryScore*WeightDietary +
		cuisineScore*WeightCuisine +
		timeScore*WeightTime

	return RecipeMatch{
		Recipe:               recipe,
		MatchScore:           total,
		IngredientMatches:    matches,
		DietaryCompatibility: dietaryScore,
		CuisineMatch:         cuisineScore,
		TimeMatch:            timeScore,
		Explanation:          Explain(ingredientScore, dietaryScore, cuisineScore, timeScore, matches),
	}
}

// IngredientScore 依配對類型加權後加上利用率加分，上限 1.0。
// 食譜沒有食材時為 0；使用者沒有食材時不加分。
func IngredientScore(matches []IngredientMatch, userIngredientCount int) float64 {
	if len(matches) == 0 {
		return 0
	}

	var exact, similar, substitute int
	for _, m := range matches {
		switch m.MatchType {
		case MatchExact:
			exact++
		case MatchSimilar:
			similar++
		case MatchSubstitute:
			substitute++
		}
	}

	raw := (float64(exact)*ConfidenceExact +
		float64(similar)*ConfidenceSimilar +
		float64(substitute)*ConfidenceSubstitute) / float64(len(matches))

	bonus := 0.0
	if userIngredientCount > 0 {
		used := float64(exact + similar + substitute)
		bonus = math.Min(maxUtilizationBonus, maxUtilizationBonus*used/float64(userIngredientCount))
	}
	return math.Min(1.0, raw+bonus)
}

// Explain 產生配對說明文字
func Explain(ingredientScore, dietaryScore, cuisineScore, timeScore float64, matches []IngredientMatch) string {
	var parts []string

	switch {
	case ingredientScore > 0.8:
		parts = append(parts, "Excellent ingredient match")
	case ingredientScore > 0.6:
		parts = append(parts, "Good ingredient compatibility")
	case ingredientScore > 0.4:
		parts = append(parts, "Moderate ingredient match")
	default:
		parts = append(parts, "Limited ingredient overlap")
	}

	switch {
	case dietaryScore > 0.9:
		parts = append(parts, "Perfect for your dietary preferences")
	case dietaryScore > 0.7:
		parts = append(parts, "Compatible with your diet")
	case dietaryScore < 0.3:
		parts = append(parts, "May not meet dietary requirements")
	}

	if cuisineScore > 0.8 {
		parts = append(parts, "Matches your cuisine preference")
	}
	if timeScore > 0.8 {
		parts = append(parts, "Fits your time constraints")
	}

	missing := 0
	for _, m := range matches {
		if m.MatchType == MatchMissing {
			missing++
		}
	}
	if missing > 0 {
		parts = append(parts, fmt.Sprintf("Requires %d additional ingredients", missing))
	}

	return strings.Join(parts, ". ") + "."
}
