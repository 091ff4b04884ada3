package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"recipe-recommender/internal/pkg/common"
)

// fallbackVocabulary 文字掃描備援使用的常見食材，依此順序回傳
var fallbackVocabulary = []string{
	"tomato", "onion", "garlic", "potato", "carrot", "bell pepper", "mushroom",
	"chicken", "beef", "pork", "fish", "shrimp", "egg", "cheese", "milk",
	"rice", "pasta", "bread", "flour", "oil", "butter", "salt", "pepper",
	"basil", "oregano", "thyme", "lemon", "lime", "apple", "banana", "orange",
	"lettuce", "spinach", "kale", "cucumber", "avocado", "corn", "peas",
	"broccoli", "cauliflower", "zucchini", "eggplant", "asparagus",
}

// DetectionService 從圖片辨識食材
type DetectionService struct {
	completer Completer
}

// NewDetectionService 創建食材辨識服務
func NewDetectionService(completer Completer) *DetectionService {
	return &DetectionService{completer: completer}
}

// Detect 辨識圖片中的食材。模型呼叫失敗回傳 ErrRecognitionFailed；
// 回應格式錯誤時改用文字掃描
func (s *DetectionService) Detect(ctx context.Context, imageDataURI string) ([]string, error) {
	if imageDataURI == "" {
		return nil, common.ErrImageMissing
	}
	if s.completer == nil {
		return nil, common.ErrRecognitionFailed.Wrap(common.ErrAIDisabled)
	}

	var ingredients []string
	content, err := s.completer.Complete(ctx, detectionPrompt, imageDataURI, func(content string) error {
		parsed, err := ParseDetectedIngredients(content)
		if err != nil {
			return err
		}
		ingredients = parsed
		return nil
	})
	if errors.Is(err, common.ErrAIResponseInvalid) {
		common.LogWarn("食材辨識回應格式錯誤，改用文字掃描", zap.Error(err))
		return ExtractIngredientsFromText(content), nil
	}
	if err != nil {
		return nil, common.ErrRecognitionFailed.Wrap(err)
	}

	common.LogInfo("Successfully identified ingredients", zap.Int("ingredients_count", len(ingredients)))
	return ingredients, nil
}

// ParseDetectedIngredients 解析 {"ingredients": [...]}，只保留非空字串，轉小寫，最多 15 個
func ParseDetectedIngredients(content string) ([]string, error) {
	payload, err := common.ExtractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var resp detectionResponse
	if err := common.ParseJSON(payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse detection response: %w", err)
	}
	if resp.Ingredients == nil {
		return nil, fmt.Errorf("ingredients array is missing")
	}

	out := make([]string, 0, len(*resp.Ingredients))
	for _, item := range *resp.Ingredients {
		name, ok := item.(string)
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		out = append(out, name)
		if len(out) == MaxDetectedIngredients {
			break
		}
	}
	return out, nil
}

// ExtractIngredientsFromText 在文字中尋找常見食材，最多 10 個
func ExtractIngredientsFromText(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, ing := range fallbackVocabulary {
		if strings.Contains(lower, ing) {
			found = append(found, ing)
			if len(found) == MaxFallbackIngredients {
				break
			}
		}
	}
	return found
}
