package nodes

import (
	"context"
	"fmt"

	"github.com/shouni/comfy-gemini-kit/pkg/domain"
	"github.com/shouni/comfy-gemini-kit/pkg/gemini"
	"github.com/shouni/comfy-gemini-kit/pkg/keystore"
)

// GeneratorNode は Gemini による画像生成ノードの実体です。
// 単一参照版と複数参照版は、受け付ける参照画像の枚数と宣言のみが異なります。
type GeneratorNode struct {
	spec          NodeSpec
	maxReferences int
	keys          *keystore.Store
	connect       gemini.ConnectFunc
}

// NewImageGeneratorNode は参照画像を最大 1 枚受け付けるノードを生成します。
func NewImageGeneratorNode(keys *keystore.Store, connect gemini.ConnectFunc) *GeneratorNode {
	spec := NodeSpec{
		TypeName:    TypeImageGenerator,
		DisplayName: "Gemini 2.0 image",
		Category:    "Google-Gemini",
		Required:    requiredInputs(),
		Optional: []InputSpec{
			seedInput(),
			{Name: "image", Type: "IMAGE"},
		},
		ReturnTypes: []string{"IMAGE", "STRING"},
		ReturnNames: []string{"image", "API Respond"},
	}
	return &GeneratorNode{spec: spec, maxReferences: 1, keys: keys, connect: connect}
}

// NewMultiImageGeneratorNode は参照画像を最大 4 枚受け付けるノードを生成します。
func NewMultiImageGeneratorNode(keys *keystore.Store, connect gemini.ConnectFunc) *GeneratorNode {
	optional := []InputSpec{seedInput()}
	for i := 1; i <= domain.MaxReferenceImages; i++ {
		optional = append(optional, InputSpec{Name: fmt.Sprintf("image%d", i), Type: "IMAGE"})
	}
	spec := NodeSpec{
		TypeName:    TypeMultiImageGenerator,
		DisplayName: "Gemini 2.0 multi-image",
		Category:    "Google-Gemini",
		Required:    requiredInputs(),
		Optional:    optional,
		ReturnTypes: []string{"IMAGE", "STRING"},
		ReturnNames: []string{"image", "API Respond"},
	}
	return &GeneratorNode{spec: spec, maxReferences: domain.MaxReferenceImages, keys: keys, connect: connect}
}

// Spec はホストへ宣言するノード定義を返します。
func (n *GeneratorNode) Spec() NodeSpec {
	return n.spec
}

// Generate は 1 回の実行の最上位操作です。どの失敗経路でも
// プレースホルダ画像とテキストへ収束させ、エラーや panic を
// 呼び出し元へ漏らしません。
func (n *GeneratorNode) Generate(ctx context.Context, in Inputs) (tensor domain.ImageTensor, text string) {
	log := &domain.DiagnosticLog{}

	defer func() {
		if r := recover(); r != nil {
			log.Add("Gemini 画像生成でエラーが発生しました: %v", r)
			tensor = domain.NewPlaceholder(in.Width, in.Height)
			text = errorText(log, fmt.Sprintf("処理中にエラーが発生しました: %v", r))
		}
	}()

	key := n.keys.Resolve(in.APIKey, log)
	if key == "" {
		message := "エラー: 有効な API キーが提供されていません。ノードに API キーを入力するか、保存済みのキーがあることを確認してください。"
		log.Add("%s", message)
		text = "## エラー\n" + message +
			"\n\n## 手順\n1. ノードに Google API キーを入力してください\n2. キーはノードディレクトリへ自動保存され、次回からの入力は不要です"
		return domain.NewPlaceholder(in.Width, in.Height), text
	}

	refs := in.References
	if len(refs) > n.maxReferences {
		log.Add("参照画像は最大 %d 枚です。超過した %d 枚は無視します", n.maxReferences, len(refs)-n.maxReferences)
		refs = refs[:n.maxReferences]
	}

	seed := gemini.ResolveSeed(in.Seed, log)
	log.Add("温度 %g / シード値 %d を使用します", in.Temperature, seed)

	model := in.Model
	if model == "" {
		model = DefaultModel
	}

	req := domain.GenerationRequest{
		Prompt:      in.Prompt,
		Model:       model,
		Width:       in.Width,
		Height:      in.Height,
		Temperature: in.Temperature,
		Seed:        seed,
		References:  refs,
	}
	contents := gemini.BuildContents(req, log)
	config := gemini.BuildConfig(in.Temperature, seed)

	client, err := n.connect(ctx, key)
	if err != nil {
		log.Add("Gemini クライアントの初期化に失敗しました: %v", err)
		return domain.NewPlaceholder(in.Width, in.Height), errorText(log, err.Error())
	}

	log.Add("Gemini API に画像生成をリクエストします: モデル %s, シード値 %d", model, seed)
	resp, err := client.GenerateContent(ctx, model, contents, config)
	if err != nil {
		log.Add("API 呼び出しに失敗しました: %v", err)
		return domain.NewPlaceholder(in.Width, in.Height), errorText(log, err.Error())
	}
	log.Add("API レスポンスを受信しました。処理します...")

	parts := gemini.DecodeParts(resp)
	if parts == nil {
		log.Add("API レスポンスに候補がありません")
		text = log.Join() + "\n\nAPI は空のレスポンスを返しました"
		return domain.NewPlaceholder(in.Width, in.Height), text
	}

	image, responseText, found := gemini.Interpret(parts, in.Width, in.Height, log)
	if found {
		return image, resultText(log, responseText)
	}

	log.Add("API レスポンスに画像データが見つかりませんでした")
	if responseText == "" {
		responseText = "API は画像もテキストも返しませんでした"
	}
	return domain.NewPlaceholder(in.Width, in.Height), resultText(log, responseText)
}

// resultText は処理ログと API のテキストを最終出力の形式へ結合します。
func resultText(log *domain.DiagnosticLog, apiText string) string {
	return "## 処理ログ\n" + log.Join() + "\n\n## API レスポンス\n" + apiText
}

func errorText(log *domain.DiagnosticLog, message string) string {
	return "## 処理ログ\n" + log.Join() + "\n\n## エラー\n" + message
}
