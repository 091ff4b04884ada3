package common

import (
	"fmt"
	"unicode/utf8"
)

// 表單欄位限制
const (
	MaxIngredients      = 20
	MaxIngredientLength = 50
	MinServingSize      = 1
	MaxServingSize      = 20
	MinCookingTime      = 5
	MaxCookingTime      = 480
)

// PrepareGenerationRequest 正規化食材並驗證請求，ServingSize 與 CookingTime 為 0 表示未指定
func PrepareGenerationRequest(req *RecipeGenerationRequest) error {
	req.Ingredients = NormalizeIngredients(req.Ingredients)
	if len(req.Ingredients) == 0 {
		return NewFieldError("ingredients", "Ingredients array is required")
	}
	if len(req.Ingredients) > MaxIngredients {
		return NewFieldError("ingredients", fmt.Sprintf("Maximum %d ingredients allowed", MaxIngredients))
	}
	for _, ing := range req.Ingredients {
		if utf8.RuneCountInString(ing) > MaxIngredientLength {
			return NewFieldError("ingredients", fmt.Sprintf("Ingredient %q must be less than %d characters", ing, MaxIngredientLength))
		}
	}

	prefs := make([]string, 0, len(req.DietaryPreferences))
	for _, p := range req.DietaryPreferences {
		p = NormalizeName(p)
		if p == "" || ContainsFold(prefs, p) {
			continue
		}
		if !ContainsFold(KnownDietaryPreferences, p) {
			return NewFieldError("dietaryPreferences", fmt.Sprintf("Unknown dietary preference %q", p))
		}
		prefs = append(prefs, p)
	}
	req.DietaryPreferences = prefs

	if req.ServingSize != 0 && (req.ServingSize < MinServingSize || req.ServingSize > MaxServingSize) {
		return NewFieldError("servingSize", fmt.Sprintf("Serving size must be between %d and %d", MinServingSize, MaxServingSize))
	}
	if req.CookingTime != 0 && (req.CookingTime < MinCookingTime || req.CookingTime > MaxCookingTime) {
		return NewFieldError("cookingTime", fmt.Sprintf("Cooking time must be between %d and %d minutes", MinCookingTime, MaxCookingTime))
	}
	return nil
}

// DietaryConflicts 回傳彼此重複的飲食偏好提示，不影響請求是否有效
func DietaryConflicts(prefs []string) []string {
	var warnings []string
	if ContainsFold(prefs, DietVegan) && ContainsFold(prefs, DietVegetarian) {
		warnings = append(warnings, "Vegan already includes vegetarian restrictions")
	}
	if ContainsFold(prefs, DietKeto) && ContainsFold(prefs, DietLowCarb) {
		warnings = append(warnings, "Keto is already a low-carb diet")
	}
	return warnings
}
