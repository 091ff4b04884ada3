package recipe

import (
	"regexp"
	"strings"

	"recipe-recommender/internal/pkg/common"
)

// meatIngredients 判斷食材是否含肉的關鍵字
var meatIngredients = []string{
	"chicken", "beef", "pork", "lamb", "turkey", "duck", "goose", "quail", "pheasant",
	"steak", "ground beef", "ground pork", "bacon", "ham", "sausage", "hot dog",
	"fish", "salmon", "tuna", "cod", "tilapia", "shrimp", "prawn", "crab", "lobster",
	"mussel", "clam", "oyster", "scallop", "anchovy", "sardine", "mackerel",
	"meat", "poultry", "seafood", "shellfish", "game meat", "venison", "rabbit",
}

// meatSwap 肉類食材的素食替代，依序比對
type meatSwap struct {
	terms       []string
	replacement string
	notes       string
}

var meatSwaps = []meatSwap{
	{[]string{"chicken"}, "tofu", "firm tofu, cubed"},
	{[]string{"beef", "pork"}, "tempeh", "crumbled tempeh"},
	{[]string{"fish", "salmon", "tuna"}, "chickpeas", "cooked chickpeas"},
	{[]string{"shrimp", "prawn"}, "mushrooms", "sliced mushrooms"},
}

// textRewrite 標題與步驟的文字替換
type textRewrite struct {
	pattern *regexp.Regexp
	title   string
	step    string
}

var textRewrites = []textRewrite{
	{regexp.MustCompile(`(?i)chicken`), "Tofu", "tofu"},
	{regexp.MustCompile(`(?i)beef|pork`), "Tempeh", "tempeh"},
	{regexp.MustCompile(`(?i)fish|salmon|tuna`), "Chickpea", "chickpeas"},
}

// ContainsMeat 檢查食譜是否有含肉食材
func ContainsMeat(r common.Recipe) bool {
	for _, ing := range r.Ingredients {
		name := strings.ToLower(ing.Ingredient)
		for _, meat := range meatIngredients {
			if strings.Contains(name, meat) {
				return true
			}
		}
	}
	return false
}

// Vegetarianize 將含肉食譜改寫為素食版本；不含肉時原樣回傳
func Vegetarianize(r common.Recipe) common.Recipe {
	if !ContainsMeat(r) {
		return r
	}

	ingredients := make([]common.RecipeIngredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = swapIngredient(ing)
	}
	r.Ingredients = ingredients

	steps := make([]common.RecipeStep, len(r.Instructions))
	for i, step := range r.Instructions {
		for _, rw := range textRewrites {
			step.Instruction = rw.pattern.ReplaceAllString(step.Instruction, rw.step)
		}
		steps[i] = step
	}
	r.Instructions = steps

	for _, rw := range textRewrites {
		r.Name = rw.pattern.ReplaceAllString(r.Name, rw.title)
	}

	if !common.ContainsFold(r.Tags, common.DietVegetarian) {
		r.Tags = append(append([]string{}, r.Tags...), common.DietVegetarian)
	}
	return r
}

func swapIngredient(ing common.RecipeIngredient) common.RecipeIngredient {
	name := strings.ToLower(ing.Ingredient)
	for _, swap := range meatSwaps {
		for _, term := range swap.terms {
			if strings.Contains(name, term) {
				ing.Ingredient = swap.replacement
				ing.Notes = swap.notes
				return ing
			}
		}
	}
	return ing
}
