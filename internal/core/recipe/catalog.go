package recipe

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"recipe-recommender/internal/pkg/common"
)

//go:embed samples.yaml
var samplesYAML []byte

type catalogFile struct {
	Recipes []common.Recipe `yaml:"recipes"`
}

// Catalog 內建範例食譜，唯讀
type Catalog struct {
	recipes []common.Recipe
	byID    map[string]int
}

// LoadCatalog 載入內建的範例食譜
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(samplesYAML)
}

// ParseCatalog 解析 YAML 格式的範例食譜
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sample catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]int, len(file.Recipes))}
	for i, r := range file.Recipes {
		if r.ID == "" || r.Name == "" {
			return nil, fmt.Errorf("sample recipe %d: id and name are required", i)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("sample recipe %q: duplicate id", r.ID)
		}
		if !r.Difficulty.Valid() {
			return nil, fmt.Errorf("sample recipe %q: unknown difficulty %q", r.ID, r.Difficulty)
		}
		r.Source = common.SourceSample
		c.byID[r.ID] = len(c.recipes)
		c.recipes = append(c.recipes, r)
	}
	return c, nil
}

// Recipes 回傳範例食譜的副本
func (c *Catalog) Recipes() []common.Recipe {
	out := make([]common.Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out
}

// Get 依 id 取得範例食譜
func (c *Catalog) Get(id string) (common.Recipe, bool) {
	i, ok := c.byID[id]
	if !ok {
		return common.Recipe{}, false
	}
	return c.recipes[i], true
}
