package matching

import "strings"

// Substitution 一個原始食材及其可接受的替代品
type Substitution struct {
	Original    string
	Substitutes []string
}

// SubstitutionTable 依序排列的替代表，第一個符合的原始食材優先
type SubstitutionTable []Substitution

// Find 依表格順序尋找使用者擁有的替代品：食譜食材需包含原始食材字串，
// 使用者食材需包含替代品字串
func (t SubstitutionTable) Find(recipeIngredient string, userIngredients []string) (string, bool) {
	for _, s := range t {
		if !strings.Contains(recipeIngredient, s.Original) {
			continue
		}
		for _, candidate := range s.Substitutes {
			for _, u := range userIngredients {
				if strings.Contains(u, candidate) {
					return candidate, true
				}
			}
		}
	}
	return "", false
}

// Tables 評分元件使用的唯讀查詢表
type Tables struct {
	Substitutions     SubstitutionTable
	DietaryCompatible map[string][]string // 偏好 -> 相容標籤
	DietaryViolations map[string][]string // 偏好 -> 禁用食材
	// 禁用食材中的類別名稱（如 meat）展開成具體食材，以整個單字比對
	ViolationCategories map[string][]string
	// 比對類別食材前先移除的植物性名稱，如 almond milk
	PlantBased       []string
	CuisineAdjacency map[string][]string // 使用者菜系 -> 相近菜系
}

// DefaultTables 回傳內建的查詢表，每次呼叫都是新的副本
func DefaultTables() Tables {
	return Tables{
		Substitutions: SubstitutionTable{
			{Original: "butter", Substitutes: []string{"olive oil", "coconut oil", "margarine"}},
			{Original: "eggs", Substitutes: []string{"flax seeds", "chia seeds", "banana"}},
			{Original: "milk", Substitutes: []string{"almond milk", "soy milk", "oat milk"}},
			{Original: "flour", Substitutes: []string{"almond flour", "coconut flour", "gluten-free flour"}},
			{Original: "sugar", Substitutes: []string{"honey", "maple syrup", "stevia"}},
			{Original: "salt", Substitutes: []string{"herbs", "spices", "lemon juice"}},
			{Original: "onion", Substitutes: []string{"shallots", "leeks", "garlic"}},
			{Original: "tomato", Substitutes: []string{"bell pepper", "zucchini", "eggplant"}},
			{Original: "chicken", Substitutes: []string{"tofu", "tempeh", "seitan"}},
			{Original: "beef", Substitutes: []string{"lentils", "mushrooms", "beans"}},
		},
		DietaryCompatible: map[string][]string{
			"vegan":        {"vegan", "plant-based"},
			"vegetarian":   {"vegan", "vegetarian", "plant-based"},
			"gluten-free":  {"gluten-free", "celiac-safe"},
			"dairy-free":   {"dairy-free", "lactose-free", "vegan"},
			"keto":         {"keto", "low-carb", "high-fat"},
			"paleo":        {"paleo", "grain-free", "dairy-free"},
			"low-sodium":   {"low-sodium", "heart-healthy"},
			"low-calorie":  {"low-calorie", "weight-loss"},
			"high-protein": {"high-protein", "muscle-building"},
			"low-carb":     {"low-carb", "keto", "diabetic-friendly"},
		},
		DietaryViolations: map[string][]string{
			"vegan":       {"meat", "dairy", "eggs", "honey", "gelatin"},
			"vegetarian":  {"meat", "fish", "poultry"},
			"gluten-free": {"wheat", "barley", "rye", "gluten"},
			"dairy-free":  {"milk", "cheese", "yogurt", "butter", "cream"},
			"keto":        {"sugar", "grains", "high-carb"},
			"paleo":       {"grains", "legumes", "dairy", "processed-foods"},
		},
		ViolationCategories: map[string][]string{
			"meat":    {"beef", "pork", "lamb", "veal", "venison", "rabbit", "bacon", "sausage", "steak", "prosciutto", "salami", "pepperoni", "chorizo", "chicken", "turkey", "duck", "goose", "quail"},
			"poultry": {"chicken", "turkey", "duck", "goose", "quail"},
			"fish":    {"salmon", "tuna", "cod", "tilapia", "anchovy", "sardine", "mackerel", "trout", "halibut", "shrimp", "prawn", "crab", "lobster", "mussel", "clam", "oyster", "scallop"},
			"dairy":   {"milk", "cheese", "butter", "cream", "yogurt", "ghee"},
		},
		PlantBased: []string{
			"almond milk", "soy milk", "oat milk", "rice milk", "coconut milk", "cashew milk",
			"peanut butter", "almond butter", "cocoa butter", "cashew butter", "apple butter",
			"coconut cream", "cream of tartar", "oyster mushroom",
		},
		CuisineAdjacency: map[string][]string{
			"italian":  {"mediterranean", "european"},
			"chinese":  {"asian", "oriental"},
			"indian":   {"south-asian", "spicy"},
			"mexican":  {"latin-american", "tex-mex"},
			"french":   {"european", "continental"},
			"japanese": {"asian", "oriental"},
			"thai":     {"asian", "southeast-asian"},
			"greek":    {"mediterranean", "european"},
			"spanish":  {"mediterranean", "european"},
			"american": {"western", "comfort-food"},
		},
	}
}
