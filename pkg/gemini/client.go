package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// ContentGenerator は generateContent 呼び出しの最小インターフェースです。
// テストではフェイク実装に差し替えます。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ConnectFunc は API キーから ContentGenerator を構築する関数型です。
// ノードへの依存注入ポイントとして使います。
type ConnectFunc func(ctx context.Context, apiKey string) (ContentGenerator, error)

// Client は google.golang.org/genai の薄いラッパーです。
type Client struct {
	client *genai.Client
}

// Connect は Gemini API（APIキー認証）のクライアントを生成します。
func Connect(ctx context.Context, apiKey string) (ContentGenerator, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini クライアントの初期化に失敗しました: %w", err)
	}
	return &Client{client: c}, nil
}

// GenerateContent はブロッキングの生成呼び出しです。タイムアウトは
// トランスポート既定値に委ね、リトライは行いません。
func (c *Client) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, model, contents, config)
}
