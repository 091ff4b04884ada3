package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"recipe-recommender/internal/core/ai/cache"
	"recipe-recommender/internal/core/ai/provider"
	"recipe-recommender/internal/pkg/common"
)

// Service AI 服務：正規化 prompt、查快取、呼叫提供者並限制等待時間
type Service struct {
	provider provider.Provider
	cache    cache.Store
	timeout  time.Duration
}

// NewService 創建 AI 服務；provider 為 nil 表示未設定 AI，cache 為 nil 表示停用快取
func NewService(p provider.Provider, c cache.Store, timeout time.Duration) *Service {
	return &Service{provider: p, cache: c, timeout: timeout}
}

// Enabled 是否有可用的 AI 提供者
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// NormalizePrompt 去除多餘空白，確保快取鍵一致
func NormalizePrompt(prompt string) string {
	return strings.Join(strings.Fields(prompt), " ")
}

// Complete 回傳 AI 回應內容；快取命中時不呼叫提供者。
// accept 不為 nil 時，只有通過 accept 的內容才寫入快取；未通過時回傳內容與 ErrAIResponseInvalid。
// 快取中未通過 accept 的舊內容視為未命中
func (s *Service) Complete(ctx context.Context, prompt, imageData string, accept func(content string) error) (string, error) {
	if !s.Enabled() {
		return "", common.ErrAIDisabled
	}
	prompt = NormalizePrompt(prompt)

	if s.cache != nil {
		val, err := s.cache.Get(ctx, prompt, imageData)
		switch {
		case err == nil && (accept == nil || accept(val) == nil):
			common.LogDebug("AI 回應快取命中")
			return val, nil
		case err == nil:
			common.LogWarn("快取中的 AI 回應無法使用，重新請求")
		case !errors.Is(err, common.ErrCacheMiss):
			common.LogWarn("讀取快取失敗", zap.Error(err))
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	kind := "text"
	if imageData != "" {
		kind = "vision"
	}
	start := time.Now()
	resp, err := s.provider.Generate(ctx, &provider.Request{Prompt: prompt, ImageData: imageData})
	common.LogAICall(kind, time.Since(start), err)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", common.ErrGatewayTimeout.Wrap(err)
		}
		return "", err
	}

	if accept != nil {
		if err := accept(resp.Content); err != nil {
			return resp.Content, common.ErrAIResponseInvalid.Wrap(err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, prompt, imageData, resp.Content); err != nil {
			common.LogWarn("寫入快取失敗", zap.Error(err))
		}
	}
	return resp.Content, nil
}

// Close 關閉提供者與快取
func (s *Service) Close() error {
	var errs []error
	if s.provider != nil {
		errs = append(errs, s.provider.Close())
	}
	if s.cache != nil {
		errs = append(errs, s.cache.Close())
	}
	return errors.Join(errs...)
}
