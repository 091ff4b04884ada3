package matching

import (
	"sort"

	"recipe-recommender/internal/pkg/common"
)

// 排名預設值
const (
	DefaultMinScore   = 0.3
	DefaultMaxResults = 20
)

// Engine 對候選食譜評分、過濾低分並排序
type Engine struct {
	scorer     *Scorer
	minScore   float64
	maxResults int
}

// Option 排名引擎選項
type Option func(*Engine)

// WithMinScore 設定保留結果的最低分數
func WithMinScore(min float64) Option {
	return func(e *Engine) { e.minScore = min }
}

// WithMaxResults 設定結果數量上限
func WithMaxResults(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// NewEngine 創建排名引擎
func NewEngine(tables Tables, opts ...Option) *Engine {
	e := &Engine{
		scorer:     NewScorer(tables),
		minScore:   DefaultMinScore,
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scorer 回傳引擎使用的評分器
func (e *Engine) Scorer() *Scorer {
	return e.scorer
}

// Rank 依配對分數由高到低排序，移除低於門檻的結果並截斷。候選為空時回傳空結果。
func (e *Engine) Rank(req common.RecipeGenerationRequest, pool []common.Recipe) []RecipeMatch {
	return e.rank(req, pool, "", e.minScore)
}

func (e *Engine) rank(req common.RecipeGenerationRequest, pool []common.Recipe, origin Origin, minScore float64) []RecipeMatch {
	matches := make([]RecipeMatch, 0, len(pool))
	for _, recipe := range pool {
		m := e.scorer.Score(recipe, req)
		m.Origin = origin
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	kept := matches[:0]
	for _, m := range matches {
		if m.MatchScore >= minScore {
			kept = append(kept, m)
		}
	}
	if len(kept) > e.maxResults {
		kept = kept[:e.maxResults]
	}
	return kept
}

// RankPools 分別排名 AI 生成與範例目錄的候選，生成的食譜一律排在前面，
// 同來源內依分數排序。最低分數只過濾範例目錄，生成的食譜全部保留
func (e *Engine) RankPools(req common.RecipeGenerationRequest, generated, catalog []common.Recipe) []RecipeMatch {
	combined := append(e.rank(req, generated, OriginGenerated, 0), e.rank(req, catalog, OriginCatalog, e.minScore)...)
	SortByOrigin(combined)
	return combined
}

// SortByOrigin 以來源為第一排序鍵、分數為第二排序鍵
func SortByOrigin(matches []RecipeMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := originRank(matches[i].Origin), originRank(matches[j].Origin)
		if ri != rj {
			return ri < rj
		}
		return matches[i].MatchScore > matches[j].MatchScore
	})
}

func originRank(o Origin) int {
	if o == OriginGenerated {
		return 0
	}
	return 1
}
