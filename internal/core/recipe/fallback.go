package recipe

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"recipe-recommender/internal/pkg/common"
)

// defaultMainIngredient 沒有食材時使用的主食材
const defaultMainIngredient = "vegetables"

// FallbackRecipes 產生固定的備用食譜（義大利麵、湯、沙拉），以第一個食材為主角
func FallbackRecipes(ingredients []string, prefs []string) []common.Recipe {
	main := defaultMainIngredient
	if len(ingredients) > 0 && ingredients[0] != "" {
		main = ingredients[0]
	}
	title := capitalize(main)
	vegan := common.ContainsFold(prefs, common.DietVegan)
	vegetarian := common.ContainsFold(prefs, common.DietVegetarian)

	cheese, cheeseNotes := "parmesan cheese", "grated"
	if vegan {
		cheese, cheeseNotes = "nutritional yeast", "for cheesy flavor"
	}
	pastaTags := []string{"pasta", "quick", "delicious"}
	if vegetarian {
		pastaTags = []string{common.DietVegetarian, "pasta", "quick"}
	}

	pasta := common.Recipe{
		Name:        title + " Pasta",
		Description: fmt.Sprintf("Simple garlic and olive oil pasta with %s.", main),
		CuisineType: "italian",
		Difficulty:  common.DifficultyEasy,
		CookingTime: 25,
		Servings:    4,
		Ingredients: []common.RecipeIngredient{
			{Ingredient: "pasta", Amount: 8, Unit: "oz", Notes: "any type"},
			{Ingredient: main, Amount: 2, Unit: "cups", Notes: "chopped"},
			{Ingredient: "olive oil", Amount: 3, Unit: "tbsp", Notes: "for cooking"},
			{Ingredient: "garlic", Amount: 3, Unit: "cloves", Notes: "minced"},
			{Ingredient: cheese, Amount: 0.5, Unit: "cup", Notes: cheeseNotes},
		},
		Instructions: numberSteps([]string{
			"Bring a large pot of salted water to boil and cook pasta according to package directions",
			"Heat olive oil in a large pan over medium heat",
			"Add minced garlic and sauté for 1 minute until fragrant",
			fmt.Sprintf("Add %s and cook for 5-7 minutes until tender", main),
			"Drain pasta and add to the pan with vegetables",
			fmt.Sprintf("Toss with %s and season with salt and pepper", cheese),
			"Serve hot",
		}),
		NutritionalInfo: common.NutritionalInfo{Calories: 450, Protein: 18, Carbs: 65, Fat: 15},
		Tags:            pastaTags,
	}

	soup := common.Recipe{
		Name:        title + " Soup",
		Description: fmt.Sprintf("Comforting vegetable broth soup with %s.", main),
		CuisineType: "international",
		Difficulty:  common.DifficultyEasy,
		CookingTime: 35,
		Servings:    4,
		Ingredients: []common.RecipeIngredient{
			{Ingredient: main, Amount: 3, Unit: "cups", Notes: "chopped"},
			{Ingredient: "vegetable broth", Amount: 4, Unit: "cups", Notes: "vegetarian broth"},
			{Ingredient: "onion", Amount: 1, Unit: "medium", Notes: "diced"},
			{Ingredient: "carrots", Amount: 2, Unit: "medium", Notes: "chopped"},
			{Ingredient: "celery", Amount: 2, Unit: "stalks", Notes: "chopped"},
			{Ingredient: "herbs", Amount: 1, Unit: "tsp", Notes: "dried thyme or basil"},
		},
		Instructions: numberSteps([]string{
			"Heat oil in a large pot over medium heat",
			"Add diced onion, carrots, and celery. Sauté for 5 minutes until softened",
			fmt.Sprintf("Add %s and cook for 3 minutes", main),
			"Pour in vegetable broth and add herbs",
			"Bring to a boil, then reduce heat and simmer for 20 minutes",
			"Season with salt and pepper to taste",
			"Serve hot with crusty bread",
		}),
		NutritionalInfo: common.NutritionalInfo{Calories: 180, Protein: 8, Carbs: 25, Fat: 6},
		Tags:            []string{common.DietVegetarian, "comforting", "healthy"},
	}

	topping, toppingStep := "feta cheese", "feta cheese"
	if vegan {
		topping, toppingStep = "tofu", "crumbled tofu"
	}
	salad := common.Recipe{
		Name:        title + " Salad",
		Description: fmt.Sprintf("Fresh green salad with %s and a lemon dressing.", main),
		CuisineType: "international",
		Difficulty:  common.DifficultyEasy,
		CookingTime: 15,
		Servings:    2,
		Ingredients: []common.RecipeIngredient{
			{Ingredient: main, Amount: 2, Unit: "cups", Notes: "chopped"},
			{Ingredient: "mixed greens", Amount: 4, Unit: "cups", Notes: "lettuce, spinach, arugula"},
			{Ingredient: "cucumber", Amount: 1, Unit: "medium", Notes: "sliced"},
			{Ingredient: "olive oil", Amount: 2, Unit: "tbsp", Notes: "for dressing"},
			{Ingredient: "lemon juice", Amount: 1, Unit: "tbsp", Notes: "for dressing"},
			{Ingredient: topping, Amount: 0.25, Unit: "cup", Notes: "crumbled"},
		},
		Instructions: numberSteps([]string{
			fmt.Sprintf("Wash and prepare %s", main),
			"In a large bowl, combine mixed greens, cucumber, and main ingredient",
			"In a small bowl, whisk together olive oil, lemon juice, salt, and pepper",
			"Pour dressing over salad and toss gently",
			fmt.Sprintf("Sprinkle with %s", toppingStep),
			"Serve immediately",
		}),
		NutritionalInfo: common.NutritionalInfo{Calories: 150, Protein: 5, Carbs: 10, Fat: 8},
		Tags:            []string{common.DietVegetarian, "fresh", "healthy"},
	}

	recipes := []common.Recipe{pasta, soup, salad}
	for i := range recipes {
		finishGenerated(&recipes[i])
	}
	return recipes
}

// finishGenerated 補齊生成食譜的共用欄位
func finishGenerated(r *common.Recipe) {
	r.ID = GeneratedIDPrefix + common.GenerateUUID()
	r.Source = common.SourceAI
	if r.MealType == "" {
		r.MealType = common.MealDinner
	}
	r.TotalTime = r.CookingTime + r.PrepTime
}

func numberSteps(lines []string) []common.RecipeStep {
	steps := make([]common.RecipeStep, len(lines))
	for i, line := range lines {
		steps[i] = common.RecipeStep{StepNumber: i + 1, Instruction: line}
	}
	return steps
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
