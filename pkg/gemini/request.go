package gemini

import (
	"fmt"
	"math"
	"math/rand/v2"

	"google.golang.org/genai"

	"github.com/shouni/comfy-gemini-kit/pkg/domain"
	"github.com/shouni/comfy-gemini-kit/pkg/vision"
)

// ResolveSeed はシード値を確定します。0 は「ランダム生成」の指示として
// [1, 2^31-1] の一様乱数に置き換え、それ以外はそのまま通します。
func ResolveSeed(seed int32, log *domain.DiagnosticLog) int32 {
	if seed == 0 {
		seed = int32(rand.IntN(math.MaxInt32) + 1)
		log.Add("ランダムなシード値を生成しました: %d", seed)
		return seed
	}
	log.Add("指定されたシード値を使用します: %d", seed)
	return seed
}

// Orientation は縦横比から向きのラベルを導出します。
// プロンプトにそのまま埋め込まれる英語表記を返します。
func Orientation(width, height int) string {
	switch {
	case width > height:
		return "landscape (horizontal)"
	case width < height:
		return "portrait (vertical)"
	default:
		return "square"
	}
}

// BuildPrompt はユーザープロンプトに向き・ピクセル寸法・歪み防止の指示を
// 組み合わせた送信用テキストを構築します。
func BuildPrompt(prompt string, width, height int) string {
	return fmt.Sprintf(
		"Create a detailed image of: %s. Generate the image in %s orientation with exact dimensions of %dx%d pixels. Ensure the composition fits properly within these dimensions without stretching or distortion.",
		prompt, Orientation(width, height), width, height)
}

// referenceGuidance は有効な参照画像の枚数に応じた追記文を返します。
func referenceGuidance(count int) string {
	switch {
	case count == 1:
		return " Use this reference image as style guidance."
	case count > 1:
		return fmt.Sprintf(" Use these %d reference images as style/content guidance.", count)
	default:
		return ""
	}
}

// BuildContents はリクエストのコンテンツリストを組み立てます。
// 参照画像は 1 枚ずつ独立に検証し、不正な画像は診断を残して除外します
// （リクエスト全体は中断しません）。有効な画像パートを先頭に並べ、
// 末尾にテキストパートを 1 つ置きます。
func BuildContents(req domain.GenerationRequest, log *domain.DiagnosticLog) []*genai.Content {
	var parts []*genai.Part
	valid := 0

	for i, ref := range req.References {
		if err := ref.Validate(); err != nil {
			log.Add("参照画像 %d の形式が不正です: %v", i+1, err)
			continue
		}
		data, err := vision.EncodePNG(ref)
		if err != nil {
			log.Add("参照画像 %d のエンコードに失敗しました: %v", i+1, err)
			continue
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: "image/png", Data: data},
		})
		valid++
		log.Add("参照画像 %d をリクエストに追加しました (%dx%d)", i+1, ref.Width, ref.Height)
	}

	text := BuildPrompt(req.Prompt, req.Width, req.Height) + referenceGuidance(valid)
	parts = append(parts, genai.NewPartFromText(text))

	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

// BuildConfig は生成オプションを構築します。温度・シードに加え、
// テキストと画像の両モダリティを要求します。
func BuildConfig(temperature float32, seed int32) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:        genai.Ptr(temperature),
		Seed:               genai.Ptr(seed),
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
}
