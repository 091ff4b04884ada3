package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"recipe-recommender/internal/pkg/common"
)

// 模型缺少欄位時使用的預設值
const (
	defaultCuisine     = "international"
	defaultCookTime    = 30
	defaultServings    = 4
	defaultAmount      = 1
	defaultUnit        = "piece"
	defaultCalories    = 300
	defaultProteinG    = 20
	defaultCarbsG      = 25
	defaultFatG        = 15
	defaultIngredient  = "ingredient"
	defaultDescription = "AI generated recipe"
)

var defaultTags = []string{"quick", "delicious"}

// errMalformed 模型回應結構錯誤
var errMalformed = errors.New("malformed recipe response")

// GenerationService 依食材生成食譜，失敗時一律改用備用食譜
type GenerationService struct {
	completer Completer
}

// NewGenerationService 創建食譜生成服務，completer 可為 nil
func NewGenerationService(completer Completer) *GenerationService {
	return &GenerationService{completer: completer}
}

// Generate 生成食譜。AI 失敗或回應格式錯誤都不會回傳錯誤，只會切換到備用食譜
func (s *GenerationService) Generate(ctx context.Context, req common.RecipeGenerationRequest) GenerationResult {
	recipes, err := s.generateAI(ctx, req)
	source := SourceAI
	if err != nil {
		common.LogWarn("食譜生成失敗，改用備用食譜",
			zap.Strings("ingredients", req.Ingredients),
			zap.Error(err),
		)
		recipes = FallbackRecipes(req.Ingredients, req.DietaryPreferences)
		source = SourceFallback
	}

	if req.HasPreference(common.DietVegetarian) {
		for i := range recipes {
			recipes[i] = Vegetarianize(recipes[i])
		}
	}
	return GenerationResult{Recipes: recipes, Source: source, Warnings: common.DietaryConflicts(req.DietaryPreferences)}
}

func (s *GenerationService) generateAI(ctx context.Context, req common.RecipeGenerationRequest) ([]common.Recipe, error) {
	if s.completer == nil {
		return nil, common.ErrAIDisabled
	}
	var recipes []common.Recipe
	content, err := s.completer.Complete(ctx, BuildGenerationPrompt(req), "", func(content string) error {
		parsed, err := ParseGeneratedRecipes(content)
		if err != nil {
			return err
		}
		recipes = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}

	common.LogDebug("AI 回應內容 (recipes)", zap.Int("ai_response_length", len(content)))
	return recipes, nil
}

// ParseGeneratedRecipes 嚴格解析模型輸出：無法解析、recipes 不是陣列、
// 任一食譜缺少 title/ingredients/steps 或沒有任何食譜都視為失敗
func ParseGeneratedRecipes(content string) ([]common.Recipe, error) {
	payload, err := common.ExtractJSONObject(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	var resp wireResponse
	if err := common.ParseJSON(payload, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if resp.Recipes == nil {
		return nil, fmt.Errorf("%w: recipes array is missing", errMalformed)
	}
	if len(*resp.Recipes) == 0 {
		return nil, fmt.Errorf("%w: no recipes returned", errMalformed)
	}

	wire := *resp.Recipes
	if len(wire) > MaxGeneratedRecipes {
		wire = wire[:MaxGeneratedRecipes]
	}

	recipes := make([]common.Recipe, 0, len(wire))
	for i, w := range wire {
		if strings.TrimSpace(w.Title) == "" || w.Ingredients == nil || w.Steps == nil {
			return nil, fmt.Errorf("%w: recipe %d is missing title, ingredients or steps", errMalformed, i+1)
		}
		recipes = append(recipes, w.toRecipe())
	}
	return recipes, nil
}

// toRecipe 轉換為共用食譜結構並補上預設值
func (w wireRecipe) toRecipe() common.Recipe {
	r := common.Recipe{
		Name:        strings.TrimSpace(w.Title),
		Description: defaultDescription,
		CuisineType: strings.ToLower(strings.TrimSpace(w.Cuisine)),
		Difficulty:  common.Difficulty(strings.ToLower(strings.TrimSpace(w.Difficulty))),
		CookingTime: w.CookTimeMin,
		Servings:    w.Servings,
	}
	if r.CuisineType == "" {
		r.CuisineType = defaultCuisine
	}
	if !r.Difficulty.Valid() {
		r.Difficulty = common.DifficultyMedium
	}
	if r.CookingTime <= 0 {
		r.CookingTime = defaultCookTime
	}
	if r.Servings <= 0 {
		r.Servings = defaultServings
	}

	for _, ing := range *w.Ingredients {
		out := common.RecipeIngredient{
			Ingredient: strings.TrimSpace(ing.Ingredient),
			Amount:     ing.Amount,
			Unit:       strings.TrimSpace(ing.Unit),
			Notes:      ing.Notes,
		}
		if out.Ingredient == "" {
			out.Ingredient = defaultIngredient
		}
		if out.Amount <= 0 {
			out.Amount = defaultAmount
		}
		if out.Unit == "" {
			out.Unit = defaultUnit
		}
		r.Ingredients = append(r.Ingredients, out)
	}

	lines := make([]string, len(*w.Steps))
	for i, step := range *w.Steps {
		step = strings.TrimSpace(step)
		if step == "" {
			step = fmt.Sprintf("Step %d", i+1)
		}
		lines[i] = step
	}
	r.Instructions = numberSteps(lines)

	r.NutritionalInfo = common.NutritionalInfo{
		Calories: defaultCalories,
		Protein:  defaultProteinG,
		Carbs:    defaultCarbsG,
		Fat:      defaultFatG,
	}
	if n := w.Nutrition; n != nil {
		if n.Calories > 0 {
			r.NutritionalInfo.Calories = n.Calories
		}
		if n.ProteinG > 0 {
			r.NutritionalInfo.Protein = n.ProteinG
		}
		if n.CarbsG > 0 {
			r.NutritionalInfo.Carbs = n.CarbsG
		}
		if n.FatG > 0 {
			r.NutritionalInfo.Fat = n.FatG
		}
	}

	if w.DietaryTags != nil {
		r.Tags = append([]string{}, *w.DietaryTags...)
	} else {
		r.Tags = append([]string{}, defaultTags...)
	}

	finishGenerated(&r)
	return r
}
