package common

// Difficulty 食譜難度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid 檢查難度是否為已知值
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// MealType 餐別
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealDessert   MealType = "dessert"
)

// Valid 檢查餐別是否為已知值
func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack, MealDessert:
		return true
	}
	return false
}

// RecipeSource 食譜來源
type RecipeSource string

const (
	SourceUser   RecipeSource = "user"
	SourceAI     RecipeSource = "ai"
	SourceSample RecipeSource = "sample"
)

// RecipeIngredient 食譜食材
type RecipeIngredient struct {
	Ingredient string  `json:"ingredient" yaml:"ingredient"`
	Amount     float64 `json:"amount" yaml:"amount"`
	Unit       string  `json:"unit" yaml:"unit"`
	Notes      string  `json:"notes,omitempty" yaml:"notes"`
	IsOptional bool    `json:"isOptional" yaml:"isOptional"`
}

// RecipeStep 食譜步驟，StepNumber 從 1 開始連續編號
type RecipeStep struct {
	StepNumber  int    `json:"stepNumber" yaml:"stepNumber"`
	Instruction string `json:"instruction" yaml:"instruction"`
	TimeMinutes int    `json:"timeMinutes,omitempty" yaml:"timeMinutes"`
	Tips        string `json:"tips,omitempty" yaml:"tips"`
}

// NutritionalInfo 營養資訊
type NutritionalInfo struct {
	Calories    float64  `json:"calories" yaml:"calories"`
	Protein     float64  `json:"protein" yaml:"protein"`
	Carbs       float64  `json:"carbs" yaml:"carbs"`
	Fat         float64  `json:"fat" yaml:"fat"`
	Fiber       *float64 `json:"fiber,omitempty" yaml:"fiber"`
	Sugar       *float64 `json:"sugar,omitempty" yaml:"sugar"`
	Sodium      *float64 `json:"sodium,omitempty" yaml:"sodium"`
	Cholesterol *float64 `json:"cholesterol,omitempty" yaml:"cholesterol"`
}

// Recipe 食譜
type Recipe struct {
	ID              string             `json:"id" yaml:"id"`
	Name            string             `json:"name" yaml:"name"`
	Description     string             `json:"description" yaml:"description"`
	Ingredients     []RecipeIngredient `json:"ingredients" yaml:"ingredients"`
	Instructions    []RecipeStep       `json:"instructions" yaml:"instructions"`
	NutritionalInfo NutritionalInfo    `json:"nutritionalInfo" yaml:"nutritionalInfo"`
	CookingTime     int                `json:"cookingTime" yaml:"cookingTime"`
	Difficulty      Difficulty         `json:"difficulty" yaml:"difficulty"`
	CuisineType     string             `json:"cuisineType" yaml:"cuisineType"`
	MealType        MealType           `json:"mealType" yaml:"mealType"`
	Tags            []string           `json:"tags" yaml:"tags"`
	ImageURL        string             `json:"imageUrl,omitempty" yaml:"imageUrl"`
	Rating          float64            `json:"rating" yaml:"rating"`
	TotalRatings    int                `json:"totalRatings" yaml:"totalRatings"`
	Servings        int                `json:"servings" yaml:"servings"`
	PrepTime        int                `json:"prepTime" yaml:"prepTime"`
	TotalTime       int                `json:"totalTime" yaml:"totalTime"`
	Source          RecipeSource       `json:"source,omitempty" yaml:"source"`

	// 個人化推薦分數，只在推薦結果中出現
	RecommendationScore *float64 `json:"recommendationScore,omitempty" yaml:"-"`
}

// IngredientNames 回傳食譜所有食材名稱
func (r Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		names = append(names, ing.Ingredient)
	}
	return names
}

// RecipeGenerationRequest 食譜生成與配對請求
type RecipeGenerationRequest struct {
	Ingredients        []string `json:"ingredients"`
	DietaryPreferences []string `json:"dietaryPreferences"`
	ServingSize        int      `json:"servingSize"`
	CuisineType        string   `json:"cuisineType"`
	CookingTime        int      `json:"cookingTime"`
}

// HasPreference 檢查請求是否包含指定飲食偏好
func (r RecipeGenerationRequest) HasPreference(pref string) bool {
	for _, p := range r.DietaryPreferences {
		if p == pref {
			return true
		}
	}
	return false
}

// 已知的飲食偏好代碼
const (
	DietVegetarian  = "vegetarian"
	DietVegan       = "vegan"
	DietGlutenFree  = "gluten-free"
	DietDairyFree   = "dairy-free"
	DietKeto        = "keto"
	DietPaleo       = "paleo"
	DietLowSodium   = "low-sodium"
	DietLowCalorie  = "low-calorie"
	DietHighProtein = "high-protein"
	DietLowCarb     = "low-carb"
)

// KnownDietaryPreferences 表單可選擇的飲食偏好
var KnownDietaryPreferences = []string{
	DietVegetarian, DietVegan, DietGlutenFree, DietDairyFree, DietKeto,
	DietPaleo, DietLowSodium, DietLowCalorie, DietHighProtein, DietLowCarb,
}
