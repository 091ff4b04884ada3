package recipe

import (
	"context"
)

// Completer 文字或圖文補全，由 AI 服務實作。imageData 為空表示純文字請求。
// accept 拒絕的內容不會被快取，並以 common.ErrAIResponseInvalid 連同內容一起回傳
type Completer interface {
	Complete(ctx context.Context, prompt, imageData string, accept func(content string) error) (string, error)
}

// MaxGeneratedRecipes 每次生成保留的食譜上限
const MaxGeneratedRecipes = 3

// MaxDetectedIngredients 影像辨識保留的食材上限
const MaxDetectedIngredients = 15

// MaxFallbackIngredients 文字掃描備援回傳的食材上限
const MaxFallbackIngredients = 10
