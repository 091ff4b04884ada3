package recipe

import (
	"recipe-recommender/internal/core/matching"
	"recipe-recommender/internal/pkg/common"
)

// GenerationSource 生成結果來源
type GenerationSource string

const (
	SourceAI       GenerationSource = "ai"
	SourceFallback GenerationSource = "fallback"
)

// GeneratedIDPrefix AI 與備用食譜的 id 前綴
const GeneratedIDPrefix = "generated-"

// wireIngredient 模型回傳的食材
type wireIngredient struct {
	Ingredient string  `json:"ingredient"`
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
	Notes      string  `json:"notes"`
}

// wireNutrition 模型回傳的營養資訊
type wireNutrition struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// wireRecipe 模型回傳的食譜。切片用指標以區分「缺少」與「空陣列」
type wireRecipe struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Cuisine     string            `json:"cuisine"`
	Difficulty  string            `json:"difficulty"`
	CookTimeMin int               `json:"cook_time_min"`
	Servings    int               `json:"servings"`
	Ingredients *[]wireIngredient `json:"ingredients"`
	Steps       *[]string         `json:"steps"`
	Nutrition   *wireNutrition    `json:"nutrition"`
	DietaryTags *[]string         `json:"dietary_tags"`
}

// wireResponse 生成回應的最外層
type wireResponse struct {
	Recipes *[]wireRecipe `json:"recipes"`
}

// detectionResponse 食材辨識回應
type detectionResponse struct {
	Ingredients *[]interface{} `json:"ingredients"`
}

// GenerationResult 食譜生成結果
type GenerationResult struct {
	Recipes  []common.Recipe  `json:"recipes"`
	Source   GenerationSource `json:"source"`
	Warnings []string         `json:"warnings,omitempty"`
}

// MatchResult 食譜配對結果
type MatchResult struct {
	Recipes        []matching.RecipeMatch `json:"recipes"`
	TotalFound     int                    `json:"totalFound"`
	GenerationTime int64                  `json:"generationTime"`
	Suggestions    []string               `json:"suggestions"`
	Source         GenerationSource       `json:"source"`
	Warnings       []string               `json:"warnings,omitempty"`
}
