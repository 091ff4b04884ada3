package recipe

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"recipe-recommender/internal/core/matching"
	"recipe-recommender/internal/pkg/common"
)

// 配對建議參數
const (
	SuggestionScoreThreshold = 0.6
	MaxSuggestions           = 3
)

// CandidateSource 配對時使用的候選食譜來源
type CandidateSource interface {
	Recipes() []common.Recipe
}

// MatchService 生成候選食譜並與範例目錄一起排名
type MatchService struct {
	generator *GenerationService
	catalog   CandidateSource
	engine    *matching.Engine
	now       func() time.Time
}

// NewMatchService 創建配對服務
func NewMatchService(generator *GenerationService, catalog CandidateSource, engine *matching.Engine) *MatchService {
	return &MatchService{
		generator: generator,
		catalog:   catalog,
		engine:    engine,
		now:       time.Now,
	}
}

// Match 生成食譜並排名，生成的食譜永遠排在目錄食譜之前
func (s *MatchService) Match(ctx context.Context, req common.RecipeGenerationRequest) MatchResult {
	start := s.now()

	generated := s.generator.Generate(ctx, req)
	var catalog []common.Recipe
	if s.catalog != nil {
		catalog = s.catalog.Recipes()
	}

	matches := s.engine.RankPools(req, generated.Recipes, catalog)
	result := MatchResult{
		Recipes:        matches,
		TotalFound:     len(matches),
		GenerationTime: s.now().Sub(start).Milliseconds(),
		Suggestions:    Suggestions(matches),
		Source:         generated.Source,
		Warnings:       generated.Warnings,
	}

	common.LogInfo("食譜配對完成",
		zap.Int("total_found", result.TotalFound),
		zap.String("source", string(result.Source)),
		zap.Int64("generation_time_ms", result.GenerationTime),
	)
	return result
}

// Suggestions 沒有任何配對超過門檻時，建議補上最常缺少的食材
func Suggestions(matches []matching.RecipeMatch) []string {
	for _, m := range matches {
		if m.MatchScore > SuggestionScoreThreshold {
			return []string{}
		}
	}

	counts := map[string]int{}
	var order []string
	for _, m := range matches {
		for _, name := range m.MissingIngredients() {
			name = common.NormalizeName(name)
			if name == "" {
				continue
			}
			if _, ok := counts[name]; !ok {
				order = append(order, name)
			}
			counts[name]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > MaxSuggestions {
		order = order[:MaxSuggestions]
	}

	out := make([]string, 0, len(order))
	for _, name := range order {
		out = append(out, fmt.Sprintf("Add %s to unlock more recipes", name))
	}
	return out
}
