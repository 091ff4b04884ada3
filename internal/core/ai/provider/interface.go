package provider

import "context"

// Request 發送到 AI 提供者的請求
type Request struct {
	Prompt string
	// ImageData 為 data URI（data:image/...;base64,...），空字串表示純文字
	ImageData   string
	MaxTokens   int
	Temperature float64
}

// Usage token 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response AI 提供者的回應
type Response struct {
	Content string
	Model   string
	Usage   Usage
}

// Provider AI 提供者介面
type Provider interface {
	// Generate 生成 AI 回應；有圖片時使用視覺模型
	Generate(ctx context.Context, req *Request) (*Response, error)

	// Close 關閉提供者連線
	Close() error
}
