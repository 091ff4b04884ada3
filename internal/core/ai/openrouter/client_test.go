package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-recommender/internal/core/ai/provider"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

func testConfig(baseURL string) config.OpenRouterConfig {
	return config.OpenRouterConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       "text-model",
		VisionModel: "vision-model",
		MaxTokens:   500,
		Temperature: 0.5,
		Timeout:     2 * time.Second,
	}
}

func TestGenerate(t *testing.T) {
	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","model":"text-model","choices":[{"message":{"content":"hello"}}],"usage":{"total_tokens":7}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	defer client.Close()

	t.Run("text prompt", func(t *testing.T) {
		resp, err := client.Generate(context.Background(), &provider.Request{Prompt: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "hello", resp.Content)
		assert.Equal(t, 7, resp.Usage.TotalTokens)

		assert.Equal(t, "text-model", got.Model)
		assert.Equal(t, 500, got.MaxTokens)
		require.Len(t, got.Messages, 1)
		require.Len(t, got.Messages[0].Content, 1)
		assert.Equal(t, "hi", got.Messages[0].Content[0].Text)
	})

	t.Run("image uses vision model", func(t *testing.T) {
		_, err := client.Generate(context.Background(), &provider.Request{Prompt: "what", ImageData: "abcd", MaxTokens: 100})
		require.NoError(t, err)

		assert.Equal(t, "vision-model", got.Model)
		assert.Equal(t, 100, got.MaxTokens)
		require.Len(t, got.Messages[0].Content, 2)
		assert.Equal(t, "data:image/jpeg;base64,abcd", got.Messages[0].Content[1].ImageURL.URL)
	})
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"upstream error", http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`, common.ErrAIServiceError},
		{"malformed body", http.StatusOK, `not json`, common.ErrAIResponseInvalid},
		{"no choices", http.StatusOK, `{"choices":[]}`, common.ErrAIResponseInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(testConfig(server.URL)).Generate(context.Background(), &provider.Request{Prompt: "x"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := NewClient(testConfig(url)).Generate(context.Background(), &provider.Request{Prompt: "x"})
		assert.ErrorIs(t, err, common.ErrAIServiceError)
	})
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "bad key", errorMessage([]byte(`{"error":{"message":"bad key"}}`)))
	assert.Equal(t, "[IMAGE_DATA_REMOVED]", errorMessage([]byte(`oops data:image/png;base64,xxx`)))
}
