package recipe

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-recommender/internal/core/image"
	recipeService "recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"
)

// Generator 依食材生成食譜
type Generator interface {
	Generate(ctx context.Context, req common.RecipeGenerationRequest) recipeService.GenerationResult
}

// Matcher 生成並排名食譜
type Matcher interface {
	Match(ctx context.Context, req common.RecipeGenerationRequest) recipeService.MatchResult
}

// Detector 辨識圖片中的食材
type Detector interface {
	Detect(ctx context.Context, imageDataURI string) ([]string, error)
}

// Store 已儲存食譜的讀寫
type Store interface {
	SaveRecipe(ctx context.Context, recipe common.Recipe) error
	GetRecipe(ctx context.Context, recipeID string) (common.Recipe, error)
}

// Catalog 內建範例食譜
type Catalog interface {
	Get(id string) (common.Recipe, bool)
}

// Handler 食譜相關處理器
type Handler struct {
	generator Generator
	matcher   Matcher
	detector  Detector
	images    *image.Service
	store     Store
	catalog   Catalog
}

// NewHandler 創建食譜處理器
func NewHandler(generator Generator, matcher Matcher, detector Detector, images *image.Service, store Store, catalog Catalog) *Handler {
	return &Handler{
		generator: generator,
		matcher:   matcher,
		detector:  detector,
		images:    images,
		store:     store,
		catalog:   catalog,
	}
}

// bindGenerationRequest 解析並驗證生成請求
func bindGenerationRequest(c *gin.Context) (common.RecipeGenerationRequest, bool) {
	var req common.RecipeGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效", zap.Error(err), zap.String("request_id", requestid.Get(c)))
		common.RespondError(c, common.ErrInvalidRequest.Wrap(err))
		return req, false
	}
	if err := common.PrepareGenerationRequest(&req); err != nil {
		common.RespondError(c, err)
		return req, false
	}
	return req, true
}

// HandleRecipesFromIngredients POST /recipes-from-ingredients
func (h *Handler) HandleRecipesFromIngredients(c *gin.Context) {
	req, ok := bindGenerationRequest(c)
	if !ok {
		return
	}

	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", requestid.Get(c)),
		zap.Int("ingredients", len(req.Ingredients)),
		zap.Strings("dietary_preferences", req.DietaryPreferences),
	)

	c.JSON(http.StatusOK, h.generator.Generate(c.Request.Context(), req))
}

// HandleMatch POST /recipes/match
func (h *Handler) HandleMatch(c *gin.Context) {
	req, ok := bindGenerationRequest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.matcher.Match(c.Request.Context(), req))
}

// HandleIngredientsFromImage POST /ingredients-from-image
func (h *Handler) HandleIngredientsFromImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			common.RespondError(c, common.ErrInvalidImageSize)
			return
		}
		common.RespondError(c, common.ErrImageMissing)
		return
	}

	upload, err := h.images.Load(fh)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	ingredients, err := h.detector.Detect(c.Request.Context(), upload.DataURI)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.LogInfo("食材辨識完成",
		zap.String("request_id", requestid.Get(c)),
		zap.String("format", upload.Format),
		zap.Int64("size", upload.Size),
		zap.Int("ingredients", len(ingredients)),
	)
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

// HandleSaveRecipe POST /recipes
func (h *Handler) HandleSaveRecipe(c *gin.Context) {
	var recipe common.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		common.RespondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	if err := prepareRecipe(&recipe); err != nil {
		common.RespondError(c, err)
		return
	}

	if err := h.store.SaveRecipe(c.Request.Context(), recipe); err != nil {
		common.RespondError(c, common.ErrStorageUnavailable.Wrap(err))
		return
	}
	saved, err := h.store.GetRecipe(c.Request.Context(), recipe.ID)
	if err != nil {
		common.RespondError(c, common.ErrStorageUnavailable.Wrap(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": saved})
}

// HandleGetRecipe GET /recipes/:id，先查資料庫再查範例目錄
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	id := c.Param("id")
	recipe, err := h.store.GetRecipe(c.Request.Context(), id)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"recipe": recipe})
		return
	}
	if !errors.Is(err, common.ErrNotFound) {
		common.RespondError(c, common.ErrStorageUnavailable.Wrap(err))
		return
	}
	if h.catalog != nil {
		if sample, ok := h.catalog.Get(id); ok {
			c.JSON(http.StatusOK, gin.H{"recipe": sample})
			return
		}
	}
	common.RespondError(c, common.ErrNotFound)
}

// prepareRecipe 驗證要儲存的食譜並補上 id、來源與步驟編號
func prepareRecipe(r *common.Recipe) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return common.NewFieldError("name", "Recipe name is required")
	}
	if len(r.Ingredients) == 0 {
		return common.NewFieldError("ingredients", "Recipe must have at least one ingredient")
	}
	for _, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Ingredient) == "" {
			return common.NewFieldError("ingredients", "Ingredient name is required")
		}
		if ing.Amount < 0 {
			return common.NewFieldError("ingredients", "Ingredient amount must be positive")
		}
	}
	if r.Rating < 0 || r.Rating > 5 {
		return common.NewFieldError("rating", "Rating must be between 0 and 5")
	}

	if r.Difficulty == "" {
		r.Difficulty = common.DifficultyMedium
	}
	if !r.Difficulty.Valid() {
		return common.NewFieldError("difficulty", "Difficulty must be easy, medium or hard")
	}
	if r.MealType != "" && !r.MealType.Valid() {
		return common.NewFieldError("mealType", "Unknown meal type")
	}

	switch r.Source {
	case "":
		r.Source = common.SourceUser
	case common.SourceUser, common.SourceAI, common.SourceSample:
	default:
		return common.NewFieldError("source", "Source must be user, ai or sample")
	}

	if r.ID == "" {
		r.ID = "recipe-" + common.GenerateUUID()
	}
	for i := range r.Instructions {
		r.Instructions[i].StepNumber = i + 1
	}
	r.RecommendationScore = nil
	return nil
}
