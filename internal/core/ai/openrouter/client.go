package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipe-recommender/internal/core/ai/provider"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

// Client OpenRouter chat completion 客戶端
type Client struct {
	client *resty.Client
	cfg    config.OpenRouterConfig
}

// ContentPart 訊息內容片段（文字或圖片）
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL 圖片位址或 data URI
type ImageURL struct {
	URL string `json:"url"`
}

// Message 對話訊息
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// Request chat completion 請求
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Response chat completion 回應
type Response struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
}

// apiError OpenRouter 錯誤回應
type apiError struct {
	Error struct {
		Message string      `json:"message"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// NewClient 創建 OpenRouter 客戶端
func NewClient(cfg config.OpenRouterConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", "https://recipe-recommender.local").
		SetHeader("X-Title", "Recipe Recommender")

	return &Client{client: client, cfg: cfg}
}

// Generate 發送 chat completion 請求並回傳第一個選項的內容
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	body := c.buildRequest(req)

	common.LogDebug("發送 OpenRouter 請求",
		zap.String("model", body.Model),
		zap.Bool("vision", req.ImageData != ""),
		zap.Int("prompt_length", len(req.Prompt)),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return nil, common.ErrAIServiceError.Wrap(fmt.Errorf("failed to send request to OpenRouter: %w", err))
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, common.ErrAIServiceError.Wrap(fmt.Errorf("OpenRouter returned status %d: %s",
			resp.StatusCode(), errorMessage(resp.Body())))
	}

	var result Response
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, common.ErrAIResponseInvalid.Wrap(fmt.Errorf("failed to parse OpenRouter response: %w", err))
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return nil, common.ErrAIResponseInvalid.Wrap(fmt.Errorf("empty content in OpenRouter response"))
	}

	return &provider.Response{
		Content: result.Choices[0].Message.Content,
		Model:   result.Model,
		Usage:   result.Usage,
	}, nil
}

func (c *Client) buildRequest(req *provider.Request) *Request {
	model := c.cfg.Model
	parts := []ContentPart{{Type: "text", Text: req.Prompt}}
	if req.ImageData != "" {
		model = c.cfg.VisionModel
		url := req.ImageData
		if !strings.HasPrefix(url, "data:image/") {
			url = "data:image/jpeg;base64," + url
		}
		parts = append(parts, ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: url}})
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.cfg.Temperature
	}

	return &Request{
		Model:       model,
		Messages:    []Message{{Role: "user", Content: parts}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// errorMessage 取出錯誤訊息，不回傳可能含圖片資料的原始內容
func errorMessage(body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	s := string(body)
	if strings.Contains(s, "data:image/") || strings.Contains(s, "base64") {
		return "[IMAGE_DATA_REMOVED]"
	}
	if len(s) > 200 {
		return s[:200]
	}
	return s
}

// Close 關閉閒置連線
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
