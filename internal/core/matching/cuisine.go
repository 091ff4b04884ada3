package matching

import "strings"

// 菜系分數
const (
	cuisineExact    = 1.0
	cuisineRelated  = 0.7
	cuisineBaseline = 0.3
)

// CuisineMatcher 依相近菜系表評估菜系相符程度
type CuisineMatcher struct {
	adjacency map[string][]string
}

// NewCuisineMatcher 創建菜系評分器
func NewCuisineMatcher(adjacency map[string][]string) *CuisineMatcher {
	return &CuisineMatcher{adjacency: adjacency}
}

// Score 使用者未指定或指定 any 時為 1.0，沒有任何菜系會得到 0 分
func (m *CuisineMatcher) Score(recipeCuisine, userCuisine string) float64 {
	user := strings.ToLower(strings.TrimSpace(userCuisine))
	if user == "" || user == "any" {
		return 1.0
	}
	recipe := strings.ToLower(strings.TrimSpace(recipeCuisine))
	if recipe == user {
		return cuisineExact
	}
	for _, related := range m.adjacency[user] {
		if strings.Contains(recipe, related) {
			return cuisineRelated
		}
	}
	return cuisineBaseline
}
