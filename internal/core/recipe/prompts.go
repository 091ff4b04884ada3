package recipe

import (
	"fmt"
	"strings"

	"recipe-recommender/internal/pkg/common"
)

// 各飲食偏好的限制說明
var dietaryRestrictionText = []struct {
	pref string
	text string
}{
	{common.DietVegetarian, "STRICTLY NO MEAT, FISH, OR ANIMAL PRODUCTS. Use only plant-based ingredients."},
	{common.DietVegan, "STRICTLY VEGAN - NO ANIMAL PRODUCTS, DAIRY, EGGS, OR HONEY. Use only plant-based ingredients."},
	{common.DietGlutenFree, "GLUTEN-FREE - Avoid wheat, barley, rye, and any gluten-containing ingredients."},
	{common.DietDairyFree, "DAIRY-FREE - No milk, cheese, butter, or dairy products."},
}

// DietaryRestrictions 組合請求中的飲食限制說明
func DietaryRestrictions(prefs []string) string {
	var parts []string
	for _, r := range dietaryRestrictionText {
		if common.ContainsFold(prefs, r.pref) {
			parts = append(parts, r.text)
		}
	}
	return strings.Join(parts, " ")
}

// BuildGenerationPrompt 建立食譜生成提示詞
func BuildGenerationPrompt(req common.RecipeGenerationRequest) string {
	restrictions := DietaryRestrictions(req.DietaryPreferences)
	if restrictions == "" {
		restrictions = "No specific dietary restrictions"
	}
	prefs := "any dietary preference"
	if len(req.DietaryPreferences) > 0 {
		prefs = strings.Join(req.DietaryPreferences, ", ")
	}

	var extra []string
	if req.CuisineType != "" && !strings.EqualFold(req.CuisineType, "any") {
		extra = append(extra, fmt.Sprintf("- Prefer %s cuisine", req.CuisineType))
	}
	if req.CookingTime > 0 {
		extra = append(extra, fmt.Sprintf("- Keep cooking time at or under %d minutes", req.CookingTime))
	}
	if req.ServingSize > 0 {
		extra = append(extra, fmt.Sprintf("- Each recipe serves %d", req.ServingSize))
	}

	return fmt.Sprintf(`You are a professional recipe generator. Generate exactly 3 unique recipes using the provided ingredients.

DIETARY RESTRICTIONS: %s

CRITICAL DIETARY RULES:
- If vegetarian is specified: NO MEAT, FISH, CHICKEN, BEEF, PORK, LAMB, OR ANY ANIMAL FLESH. Use tofu, tempeh, beans, lentils or chickpeas for protein.
- If vegan is specified: NO DAIRY, EGGS, HONEY, OR ANY ANIMAL PRODUCTS
- If gluten-free is specified: NO WHEAT, BARLEY, RYE, OR GLUTEN-CONTAINING INGREDIENTS
- If dairy-free is specified: NO MILK, CHEESE, BUTTER, YOGURT, OR DAIRY PRODUCTS

Create 3 COMPLETELY DIFFERENT recipe types:
1. One pasta/noodle dish
2. One soup/stew dish
3. One salad/appetizer dish

Return ONLY valid JSON (no markdown, no explanations) with this structure:
{"recipes":[{"id":"recipe-1","title":"Recipe Name","cuisine":"cuisine style","difficulty":"easy","cook_time_min":25,"servings":4,"ingredients":[{"ingredient":"name","amount":2,"unit":"pieces","notes":"optional notes"}],"steps":["Detailed cooking instruction"],"nutrition":{"calories":350,"protein_g":25,"carbs_g":30,"fat_g":15},"dietary_tags":["vegetarian","quick"]}]}

Input Ingredients: %s
Dietary Preferences: %s

Requirements:
- Use primarily the provided ingredients
- Include common pantry ingredients only if needed
- amount must be a number and difficulty one of easy, medium, hard
- Make instructions detailed and beginner-friendly
- Include realistic nutritional information
- Keep cooking time reasonable (15-60 minutes)
%s`,
		restrictions,
		strings.Join(req.Ingredients, ", "),
		prefs,
		strings.Join(extra, "\n"))
}

// detectionPrompt 食材辨識提示詞
const detectionPrompt = `You are an ingredient recognizer. Detect all edible items in this photo. Return ONLY valid JSON in the format: {"ingredients":["ingredient1","ingredient2"]}

Important:
- Only return valid JSON, no markdown, no explanations
- List only edible ingredients that can be used in cooking
- Use common ingredient names (e.g. "tomato" not "red tomato fruit")
- If no clear food items are visible, return {"ingredients":[]}
- Maximum 15 ingredients`
