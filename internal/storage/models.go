package storage

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"recipe-recommender/internal/pkg/common"
)

// 新用戶的預設偏好
const (
	DefaultPreferredCookingTime = 30
	DefaultSpiceLevel           = "medium"
	DefaultServingSize          = 4
)

// Preferences 用戶偏好，由回饋逐步學習
type Preferences struct {
	DietaryRestrictions  datatypes.JSONSlice[string] `json:"dietaryRestrictions"`
	FavoriteCuisines     datatypes.JSONSlice[string] `json:"favoriteCuisines"`
	PreferredCookingTime int                         `json:"preferredCookingTime"`
	SpiceLevel           string                      `json:"spiceLevel"`
	ServingSize          int                         `json:"servingSize"`
}

// HasFavoriteCuisine 不分大小寫比對
func (p Preferences) HasFavoriteCuisine(cuisine string) bool {
	return common.ContainsFold(p.FavoriteCuisines, cuisine)
}

// User 用戶及其偏好
type User struct {
	ID              string                      `gorm:"type:varchar(36);primaryKey" json:"-"`
	UserID          string                      `gorm:"not null;uniqueIndex" json:"userId"`
	Preferences     Preferences                 `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`
	FavoriteRecipes datatypes.JSONSlice[string] `json:"favoriteRecipes"`
	FeedbackHistory datatypes.JSONSlice[string] `json:"feedbackHistory"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

// TableName 指定資料表名稱
func (User) TableName() string {
	return "users"
}

// BeforeCreate 產生主鍵
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// NewUser 以預設偏好建立用戶
func NewUser(userID string) *User {
	return &User{
		UserID: userID,
		Preferences: Preferences{
			DietaryRestrictions:  datatypes.JSONSlice[string]{},
			FavoriteCuisines:     datatypes.JSONSlice[string]{},
			PreferredCookingTime: DefaultPreferredCookingTime,
			SpiceLevel:           DefaultSpiceLevel,
			ServingSize:          DefaultServingSize,
		},
		FavoriteRecipes: datatypes.JSONSlice[string]{},
		FeedbackHistory: datatypes.JSONSlice[string]{},
	}
}

// RecipeRecord 已儲存的食譜
type RecipeRecord struct {
	ID              string `gorm:"type:varchar(36);primaryKey"`
	RecipeID        string `gorm:"not null;uniqueIndex"`
	Name            string `gorm:"not null"`
	Description     string
	Ingredients     datatypes.JSONSlice[common.RecipeIngredient]
	Instructions    datatypes.JSONSlice[common.RecipeStep]
	NutritionalInfo datatypes.JSONType[common.NutritionalInfo]
	CookingTime     int    `gorm:"index"`
	Difficulty      string `gorm:"size:16"`
	CuisineType     string `gorm:"index"`
	MealType        string `gorm:"size:16"`
	Tags            datatypes.JSONSlice[string]
	ImageURL        string
	Rating          float64 `gorm:"index"`
	TotalRatings    int
	Servings        int
	PrepTime        int
	TotalTime       int
	Source          string `gorm:"size:16"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName 指定資料表名稱
func (RecipeRecord) TableName() string {
	return "recipes"
}

// BeforeCreate 產生主鍵
func (r *RecipeRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ToRecipe 轉為領域模型
func (r RecipeRecord) ToRecipe() common.Recipe {
	return common.Recipe{
		ID:              r.RecipeID,
		Name:            r.Name,
		Description:     r.Description,
		Ingredients:     []common.RecipeIngredient(r.Ingredients),
		Instructions:    []common.RecipeStep(r.Instructions),
		NutritionalInfo: r.NutritionalInfo.Data(),
		CookingTime:     r.CookingTime,
		Difficulty:      common.Difficulty(r.Difficulty),
		CuisineType:     r.CuisineType,
		MealType:        common.MealType(r.MealType),
		Tags:            []string(r.Tags),
		ImageURL:        r.ImageURL,
		Rating:          r.Rating,
		TotalRatings:    r.TotalRatings,
		Servings:        r.Servings,
		PrepTime:        r.PrepTime,
		TotalTime:       r.TotalTime,
		Source:          common.RecipeSource(r.Source),
	}
}

// recordFromRecipe 領域模型轉為資料列
func recordFromRecipe(recipe common.Recipe) RecipeRecord {
	return RecipeRecord{
		RecipeID:        recipe.ID,
		Name:            recipe.Name,
		Description:     recipe.Description,
		Ingredients:     datatypes.JSONSlice[common.RecipeIngredient](recipe.Ingredients),
		Instructions:    datatypes.JSONSlice[common.RecipeStep](recipe.Instructions),
		NutritionalInfo: datatypes.NewJSONType(recipe.NutritionalInfo),
		CookingTime:     recipe.CookingTime,
		Difficulty:      string(recipe.Difficulty),
		CuisineType:     recipe.CuisineType,
		MealType:        string(recipe.MealType),
		Tags:            datatypes.JSONSlice[string](recipe.Tags),
		ImageURL:        recipe.ImageURL,
		Rating:          recipe.Rating,
		TotalRatings:    recipe.TotalRatings,
		Servings:        recipe.Servings,
		PrepTime:        recipe.PrepTime,
		TotalTime:       recipe.TotalTime,
		Source:          string(recipe.Source),
	}
}

// Feedback 用戶對食譜的回饋，每位用戶每道食譜最多一筆
type Feedback struct {
	ID                 string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID             string                      `gorm:"not null;uniqueIndex:idx_feedback_user_recipe;index" json:"userId"`
	RecipeID           string                      `gorm:"not null;uniqueIndex:idx_feedback_user_recipe;index" json:"recipeId"`
	Rating             int                         `gorm:"not null;index" json:"rating"`
	Review             string                      `gorm:"size:1000" json:"review,omitempty"`
	CookingNotes       string                      `gorm:"size:500" json:"cookingNotes,omitempty"`
	TasteRating        *int                        `json:"tasteRating,omitempty"`
	DifficultyRating   *int                        `json:"difficultyRating,omitempty"`
	PresentationRating *int                        `json:"presentationRating,omitempty"`
	IsFavorite         bool                        `json:"isFavorite"`
	WouldCookAgain     bool                        `json:"wouldCookAgain"`
	Tags               datatypes.JSONSlice[string] `json:"tags"`
	CreatedAt          time.Time                   `json:"createdAt"`
	UpdatedAt          time.Time                   `json:"updatedAt"`
}

// TableName 指定資料表名稱
func (Feedback) TableName() string {
	return "recipe_feedback"
}

// BeforeCreate 產生主鍵
func (f *Feedback) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// SimilarUser 高評分重疊的其他用戶
type SimilarUser struct {
	UserID    string
	AvgRating float64
	RecipeIDs []string
}

// RecipeQuery 推薦候選查詢條件，零值欄位不套用
type RecipeQuery struct {
	ExcludeIDs []string
	Cuisines   []string
	MinTime    int
	MaxTime    int
	Limit      int
}
