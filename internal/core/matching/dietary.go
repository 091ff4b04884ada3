package matching

import (
	"regexp"
	"strings"

	"recipe-recommender/internal/pkg/common"
)

// 單一飲食偏好的貢獻分數
const (
	dietCompatible = 1.0
	dietUnknown    = 0.5
	dietViolation  = 0.0
)

// DietaryScorer 依相容標籤表與禁用食材表評估飲食相容度
type DietaryScorer struct {
	compatible map[string][]string
	violations map[string][]string
	categories map[string][]*regexp.Regexp
	plantBased []string
}

// NewDietaryScorer 創建飲食相容度評分器
func NewDietaryScorer(tables Tables) *DietaryScorer {
	categories := make(map[string][]*regexp.Regexp, len(tables.ViolationCategories))
	for category, terms := range tables.ViolationCategories {
		for _, term := range terms {
			categories[category] = append(categories[category], wordPattern(term))
		}
	}
	return &DietaryScorer{
		compatible: tables.DietaryCompatible,
		violations: tables.DietaryViolations,
		categories: categories,
		plantBased: tables.PlantBased,
	}
}

// wordPattern 整個單字比對，允許 s/es 複數
func wordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(term)) + `(e?s)?\b`)
}

// Score 回傳各偏好貢獻的平均值，沒有偏好時為 1.0
func (s *DietaryScorer) Score(recipe common.Recipe, preferences []string) float64 {
	if len(preferences) == 0 {
		return 1.0
	}

	total := 0.0
	for _, pref := range preferences {
		total += s.contribution(recipe, strings.ToLower(strings.TrimSpace(pref)))
	}
	return total / float64(len(preferences))
}

func (s *DietaryScorer) contribution(recipe common.Recipe, pref string) float64 {
	for _, tag := range s.compatible[pref] {
		if common.ContainsFold(recipe.Tags, tag) {
			return dietCompatible
		}
	}
	if s.Violates(recipe, pref) {
		return dietViolation
	}
	return dietUnknown
}

// Violates 檢查食譜食材是否包含該偏好禁用的食材。比對前先移除植物性名稱；
// 禁用食材本身以子字串比對，類別展開的食材以整個單字比對
func (s *DietaryScorer) Violates(recipe common.Recipe, pref string) bool {
	forbiddenTerms := s.violations[pref]
	if len(forbiddenTerms) == 0 {
		return false
	}
	for _, ing := range recipe.Ingredients {
		name := s.stripPlantBased(strings.ToLower(ing.Ingredient))
		for _, forbidden := range forbiddenTerms {
			if strings.Contains(name, forbidden) {
				return true
			}
			for _, re := range s.categories[forbidden] {
				if re.MatchString(name) {
					return true
				}
			}
		}
	}
	return false
}

func (s *DietaryScorer) stripPlantBased(name string) string {
	for _, phrase := range s.plantBased {
		name = strings.ReplaceAll(name, phrase, " ")
	}
	return name
}
