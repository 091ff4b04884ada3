package recipe

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-recommender/internal/core/ai/cache"
	"recipe-recommender/internal/core/ai/provider"
	aiService "recipe-recommender/internal/core/ai/service"
	"recipe-recommender/internal/core/matching"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

type fakeCompleter struct {
	content   string
	err       error
	lastImage string
	calls     int
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, imageData string, accept func(string) error) (string, error) {
	f.calls++
	f.lastImage = imageData
	if f.err != nil {
		return "", f.err
	}
	if accept != nil {
		if err := accept(f.content); err != nil {
			return f.content, common.ErrAIResponseInvalid.Wrap(err)
		}
	}
	return f.content, nil
}

type switchingProvider struct {
	content string
	calls   int
}

func (p *switchingProvider) Generate(context.Context, *provider.Request) (*provider.Response, error) {
	p.calls++
	return &provider.Response{Content: p.content}, nil
}

func (p *switchingProvider) Close() error { return nil }

const validResponse = "```json\n" + `{"recipes":[
 {"id":"recipe-1","title":"Chicken Noodle Soup","cuisine":"Chinese","difficulty":"Easy","cook_time_min":40,"servings":2,
  "ingredients":[{"ingredient":"chicken","amount":300,"unit":"g","notes":"sliced"},{"ingredient":"noodles"}],
  "steps":["Boil the chicken",""],
  "nutrition":{"calories":420,"protein_g":30},
  "dietary_tags":["comfort"]},
 {"title":"Tomato Salad","ingredients":[],"steps":[]}
]}` + "\n```"

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	recipes := c.Recipes()
	require.Len(t, recipes, 8)
	for _, r := range recipes {
		assert.Equal(t, common.SourceSample, r.Source)
		assert.NotEmpty(t, r.Ingredients, r.ID)
		for i, step := range r.Instructions {
			assert.Equal(t, i+1, step.StepNumber, r.ID)
		}
	}

	got, ok := c.Get("sample-2")
	require.True(t, ok)
	assert.Equal(t, "Chicken Fried Rice", got.Name)

	_, ok = c.Get("nope")
	assert.False(t, ok)

	recipes[0].Name = "changed"
	again, _ := c.Get(recipes[0].ID)
	assert.NotEqual(t, "changed", again.Name)
}

func TestParseCatalogRejectsDuplicates(t *testing.T) {
	data := []byte(`recipes:
  - {id: a, name: One, difficulty: easy}
  - {id: a, name: Two, difficulty: easy}
`)
	_, err := ParseCatalog(data)
	assert.Error(t, err)

	_, err = ParseCatalog([]byte(`recipes: [{id: a, name: One, difficulty: extreme}]`))
	assert.Error(t, err)
}

func TestParseGeneratedRecipes(t *testing.T) {
	t.Run("valid response with defaults", func(t *testing.T) {
		recipes, err := ParseGeneratedRecipes(validResponse)
		require.NoError(t, err)
		require.Len(t, recipes, 2)

		r := recipes[0]
		assert.True(t, strings.HasPrefix(r.ID, GeneratedIDPrefix))
		assert.Equal(t, "Chicken Noodle Soup", r.Name)
		assert.Equal(t, "chinese", r.CuisineType)
		assert.Equal(t, common.DifficultyEasy, r.Difficulty)
		assert.Equal(t, 40, r.CookingTime)
		assert.Equal(t, 2, r.Servings)
		assert.Equal(t, common.SourceAI, r.Source)
		assert.Equal(t, common.RecipeIngredient{Ingredient: "noodles", Amount: 1, Unit: "piece"}, r.Ingredients[1])
		assert.Equal(t, "Step 2", r.Instructions[1].Instruction)
		assert.Equal(t, 2, r.Instructions[1].StepNumber)
		assert.Equal(t, common.NutritionalInfo{Calories: 420, Protein: 30, Carbs: 25, Fat: 15}, r.NutritionalInfo)
		assert.Equal(t, []string{"comfort"}, r.Tags)

		empty := recipes[1]
		assert.Equal(t, "international", empty.CuisineType)
		assert.Equal(t, common.DifficultyMedium, empty.Difficulty)
		assert.Equal(t, 30, empty.CookingTime)
		assert.Equal(t, 4, empty.Servings)
		assert.Equal(t, []string{"quick", "delicious"}, empty.Tags)
	})

	t.Run("keeps at most three recipes", func(t *testing.T) {
		one := `{"title":"R","ingredients":[],"steps":["x"]}`
		content := `{"recipes":[` + strings.Repeat(one+",", 4) + one + `]}`
		recipes, err := ParseGeneratedRecipes(content)
		require.NoError(t, err)
		assert.Len(t, recipes, MaxGeneratedRecipes)
	})

	failures := []struct {
		name    string
		content string
	}{
		{"not json", "Sorry, I cannot help with that."},
		{"broken json", `{"recipes":[{"title":"x"`},
		{"missing recipes", `{"items":[]}`},
		{"recipes not an array", `{"recipes":"none"}`},
		{"no recipes", `{"recipes":[]}`},
		{"missing title", `{"recipes":[{"ingredients":[],"steps":[]}]}`},
		{"missing steps", `{"recipes":[{"title":"x","ingredients":[]}]}`},
		{"ingredients not an array", `{"recipes":[{"title":"x","ingredients":"a, b","steps":[]}]}`},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGeneratedRecipes(tt.content)
			assert.ErrorIs(t, err, errMalformed)
		})
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	req := common.RecipeGenerationRequest{Ingredients: []string{"chicken", "rice"}}

	t.Run("ai recipes", func(t *testing.T) {
		svc := NewGenerationService(&fakeCompleter{content: validResponse})
		res := svc.Generate(ctx, req)
		assert.Equal(t, SourceAI, res.Source)
		assert.Len(t, res.Recipes, 2)
	})

	t.Run("provider failure uses fallback", func(t *testing.T) {
		svc := NewGenerationService(&fakeCompleter{err: errors.New("boom")})
		res := svc.Generate(ctx, req)
		assert.Equal(t, SourceFallback, res.Source)
		require.Len(t, res.Recipes, 3)
		assert.Equal(t, "Chicken Pasta", res.Recipes[0].Name)
	})

	t.Run("malformed response uses fallback", func(t *testing.T) {
		svc := NewGenerationService(&fakeCompleter{content: `{"recipes": {}}`})
		assert.Equal(t, SourceFallback, svc.Generate(ctx, req).Source)
	})

	t.Run("no completer uses fallback", func(t *testing.T) {
		assert.Equal(t, SourceFallback, NewGenerationService(nil).Generate(ctx, req).Source)
	})

	t.Run("vegetarian filter applies to ai and fallback recipes", func(t *testing.T) {
		vreq := req
		vreq.DietaryPreferences = []string{common.DietVegetarian}

		res := NewGenerationService(&fakeCompleter{content: validResponse}).Generate(ctx, vreq)
		assert.Equal(t, "Tofu Noodle Soup", res.Recipes[0].Name)
		assert.Equal(t, "tofu", res.Recipes[0].Ingredients[0].Ingredient)

		res = NewGenerationService(nil).Generate(ctx, vreq)
		for _, r := range res.Recipes {
			assert.False(t, ContainsMeat(r), r.Name)
		}
	})

	t.Run("overlapping preferences produce warnings", func(t *testing.T) {
		assert.Empty(t, NewGenerationService(nil).Generate(ctx, req).Warnings)

		wreq := req
		wreq.DietaryPreferences = []string{common.DietKeto, common.DietLowCarb}
		res := NewGenerationService(nil).Generate(ctx, wreq)
		assert.Equal(t, []string{"Keto is already a low-carb diet"}, res.Warnings)
	})
}

func TestVegetarianize(t *testing.T) {
	r := common.Recipe{
		Name: "Beef and Chicken Stir Fry",
		Ingredients: []common.RecipeIngredient{
			{Ingredient: "Chicken breast", Amount: 2, Unit: "pieces"},
			{Ingredient: "ground pork", Amount: 200, Unit: "g"},
			{Ingredient: "tuna", Amount: 1, Unit: "can"},
			{Ingredient: "king prawns", Amount: 6, Unit: "pieces"},
			{Ingredient: "broccoli", Amount: 1, Unit: "head"},
		},
		Instructions: []common.RecipeStep{{StepNumber: 1, Instruction: "Fry the CHICKEN and the beef, then add salmon"}},
		Tags:         []string{"quick"},
	}

	got := Vegetarianize(r)
	assert.Equal(t, "Tempeh and Tofu Stir Fry", got.Name)
	assert.Equal(t, "Fry the tofu and the tempeh, then add chickpeas", got.Instructions[0].Instruction)

	want := []common.RecipeIngredient{
		{Ingredient: "tofu", Amount: 2, Unit: "pieces", Notes: "firm tofu, cubed"},
		{Ingredient: "tempeh", Amount: 200, Unit: "g", Notes: "crumbled tempeh"},
		{Ingredient: "chickpeas", Amount: 1, Unit: "can", Notes: "cooked chickpeas"},
		{Ingredient: "mushrooms", Amount: 6, Unit: "pieces", Notes: "sliced mushrooms"},
		{Ingredient: "broccoli", Amount: 1, Unit: "head"},
	}
	assert.Equal(t, want, got.Ingredients)
	assert.Equal(t, []string{"quick", "vegetarian"}, got.Tags)
	assert.Equal(t, "Chicken breast", r.Ingredients[0].Ingredient, "input is not modified")

	again := Vegetarianize(common.Recipe{
		Name:        "Ham Salad",
		Ingredients: []common.RecipeIngredient{{Ingredient: "ham"}},
		Tags:        []string{"Vegetarian"},
	})
	assert.Equal(t, []string{"Vegetarian"}, again.Tags)

	plain := common.Recipe{Name: "Salad", Ingredients: []common.RecipeIngredient{{Ingredient: "lettuce"}}}
	assert.Equal(t, plain, Vegetarianize(plain))
}

func TestFallbackRecipes(t *testing.T) {
	recipes := FallbackRecipes([]string{"zucchini", "rice"}, nil)
	require.Len(t, recipes, 3)
	assert.Equal(t, []string{"Zucchini Pasta", "Zucchini Soup", "Zucchini Salad"},
		[]string{recipes[0].Name, recipes[1].Name, recipes[2].Name})
	assert.Equal(t, "italian", recipes[0].CuisineType)
	assert.Equal(t, []int{25, 35, 15}, []int{recipes[0].CookingTime, recipes[1].CookingTime, recipes[2].CookingTime})
	assert.Equal(t, 2, recipes[2].Servings)
	assert.Equal(t, "parmesan cheese", recipes[0].Ingredients[4].Ingredient)
	assert.Equal(t, []string{"pasta", "quick", "delicious"}, recipes[0].Tags)
	for _, r := range recipes {
		assert.True(t, strings.HasPrefix(r.ID, GeneratedIDPrefix))
		assert.Equal(t, common.SourceAI, r.Source)
	}

	vegan := FallbackRecipes(nil, []string{common.DietVegan, common.DietVegetarian})
	assert.Equal(t, "Vegetables Pasta", vegan[0].Name)
	assert.Equal(t, "nutritional yeast", vegan[0].Ingredients[4].Ingredient)
	assert.Equal(t, "tofu", vegan[2].Ingredients[5].Ingredient)
	assert.Equal(t, []string{"vegetarian", "pasta", "quick"}, vegan[0].Tags)
}

func TestDetect(t *testing.T) {
	ctx := context.Background()

	t.Run("cleans model output", func(t *testing.T) {
		fake := &fakeCompleter{content: `{"ingredients":[" Tomato ","", 42, "Red Onion"]}`}
		got, err := NewDetectionService(fake).Detect(ctx, "data:image/png;base64,AA==")
		require.NoError(t, err)
		assert.Equal(t, []string{"tomato", "red onion"}, got)
		assert.Equal(t, "data:image/png;base64,AA==", fake.lastImage)
	})

	t.Run("caps at fifteen", func(t *testing.T) {
		items := make([]string, 20)
		for i := range items {
			items[i] = `"item"`
		}
		fake := &fakeCompleter{content: `{"ingredients":[` + strings.Join(items, ",") + `]}`}
		got, err := NewDetectionService(fake).Detect(ctx, "img")
		require.NoError(t, err)
		assert.Len(t, got, MaxDetectedIngredients)
	})

	t.Run("malformed output falls back to text scan", func(t *testing.T) {
		fake := &fakeCompleter{content: "I can see some garlic, a tomato and two eggs."}
		got, err := NewDetectionService(fake).Detect(ctx, "img")
		require.NoError(t, err)
		assert.Equal(t, []string{"tomato", "garlic", "egg"}, got)
	})

	t.Run("provider failure", func(t *testing.T) {
		_, err := NewDetectionService(&fakeCompleter{err: errors.New("boom")}).Detect(ctx, "img")
		assert.ErrorIs(t, err, common.ErrRecognitionFailed)
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := NewDetectionService(nil).Detect(ctx, "img")
		assert.ErrorIs(t, err, common.ErrRecognitionFailed)
	})

	t.Run("missing image", func(t *testing.T) {
		_, err := NewDetectionService(&fakeCompleter{}).Detect(ctx, "")
		assert.ErrorIs(t, err, common.ErrImageMissing)
	})
}

func TestExtractIngredientsFromText(t *testing.T) {
	text := strings.Join(fallbackVocabulary, " ")
	got := ExtractIngredientsFromText(strings.ToUpper(text))
	assert.Equal(t, fallbackVocabulary[:MaxFallbackIngredients], got)
	assert.Empty(t, ExtractIngredientsFromText("nothing edible here"))
}

func TestMatch(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)

	svc := NewMatchService(
		NewGenerationService(&fakeCompleter{err: errors.New("down")}),
		catalog,
		matching.NewEngine(matching.DefaultTables()),
	)
	res := svc.Match(context.Background(), common.RecipeGenerationRequest{
		Ingredients: []string{"chicken", "rice", "onion"},
		CookingTime: 30,
	})

	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, len(res.Recipes), res.TotalFound)
	assert.GreaterOrEqual(t, res.GenerationTime, int64(0))

	seenCatalog := false
	foundFriedRice := false
	for _, m := range res.Recipes {
		if m.Origin == matching.OriginCatalog {
			seenCatalog = true
		} else {
			assert.False(t, seenCatalog, "generated recipes come before catalog recipes")
		}
		if m.Recipe.ID == "sample-2" {
			foundFriedRice = true
		}
	}
	assert.True(t, foundFriedRice)
	assert.Empty(t, res.Suggestions)
	assert.Empty(t, res.Warnings)

	res = svc.Match(context.Background(), common.RecipeGenerationRequest{
		Ingredients:        []string{"tofu", "rice"},
		DietaryPreferences: []string{common.DietVegan, common.DietVegetarian},
	})
	assert.Equal(t, []string{"Vegan already includes vegetarian restrictions"}, res.Warnings)
}

func TestSuggestions(t *testing.T) {
	missing := func(score float64, names ...string) matching.RecipeMatch {
		m := matching.RecipeMatch{MatchScore: score}
		for _, n := range names {
			m.IngredientMatches = append(m.IngredientMatches, matching.IngredientMatch{
				RecipeIngredient: n, MatchType: matching.MatchMissing,
			})
		}
		return m
	}

	got := Suggestions([]matching.RecipeMatch{
		missing(0.5, "garlic", "Basil"),
		missing(0.4, "basil", "lemon", "cream"),
		missing(0.35, "lemon", "basil"),
	})
	assert.Equal(t, []string{
		"Add basil to unlock more recipes",
		"Add lemon to unlock more recipes",
		"Add garlic to unlock more recipes",
	}, got)

	assert.Empty(t, Suggestions([]matching.RecipeMatch{missing(0.61, "garlic")}))
	assert.Empty(t, Suggestions(nil))
}

func TestGenerateRecoversAfterRefusal(t *testing.T) {
	ctx := context.Background()
	store := cache.NewManager(config.CacheConfig{MaxSize: 10, TTL: time.Hour})
	defer store.Close()
	llm := &switchingProvider{content: "Sorry, I cannot help with that."}
	svc := NewGenerationService(aiService.NewService(llm, store, time.Second))
	req := common.RecipeGenerationRequest{Ingredients: []string{"chicken", "noodles"}}

	first := svc.Generate(ctx, req)
	assert.Equal(t, SourceFallback, first.Source)

	llm.content = validResponse
	second := svc.Generate(ctx, req)
	assert.Equal(t, SourceAI, second.Source)
	assert.Equal(t, 2, llm.calls)

	third := svc.Generate(ctx, req)
	assert.Equal(t, SourceAI, third.Source)
	assert.Equal(t, "Chicken Noodle Soup", third.Recipes[0].Name)
	assert.Equal(t, 2, llm.calls)
}
