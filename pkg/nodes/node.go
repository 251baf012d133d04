package nodes

import (
	"context"

	"github.com/shouni/comfy-gemini-kit/pkg/domain"
	"github.com/shouni/comfy-gemini-kit/pkg/gemini"
	"github.com/shouni/comfy-gemini-kit/pkg/keystore"
)

// DefaultModel はノードが既定で選択する画像生成モデルです。
const DefaultModel = "models/gemini-2.0-flash-exp"

// ノードの型名と表示名です。ホストはこの名前でノードを引きます。
const (
	TypeImageGenerator      = "Google-Gemini"
	TypeMultiImageGenerator = "Google-Gemini-Multi"
)

// InputSpec はホストへ宣言する 1 入力の定義です。
type InputSpec struct {
	Name      string
	Type      string // "STRING" / "INT" / "FLOAT" / "IMAGE"
	Default   any
	Min       float64
	Max       float64
	Step      float64
	Multiline bool
	Choices   []string
}

// NodeSpec はホストへ宣言するノード定義（必須・任意入力と出力）です。
type NodeSpec struct {
	TypeName    string
	DisplayName string
	Category    string
	Required    []InputSpec
	Optional    []InputSpec
	ReturnTypes []string
	ReturnNames []string
}

// Inputs はホストから 1 回の実行ごとに渡される名前付き入力です。
type Inputs struct {
	Prompt      string
	APIKey      string
	Model       string
	Width       int
	Height      int
	Temperature float32
	Seed        int32
	References  []domain.ImageTensor
}

// Node は 1 回の実行契約です。Generate は成功・失敗を問わず、
// ちょうど 1 枚の画像テンソルと 1 つのテキストを返し、
// エラーを外へ伝播させません。
type Node interface {
	Spec() NodeSpec
	Generate(ctx context.Context, in Inputs) (domain.ImageTensor, string)
}

// Registry は型名からノード実装を引くマップを構築します。
// ホストのノード登録（クラスマッピング）に相当します。
func Registry(keys *keystore.Store, connect gemini.ConnectFunc) map[string]Node {
	return map[string]Node{
		TypeImageGenerator:      NewImageGeneratorNode(keys, connect),
		TypeMultiImageGenerator: NewMultiImageGeneratorNode(keys, connect),
	}
}

// requiredInputs は両ノード共通の必須入力宣言です。
func requiredInputs() []InputSpec {
	return []InputSpec{
		{Name: "prompt", Type: "STRING", Multiline: true},
		{Name: "api_key", Type: "STRING", Default: ""},
		{Name: "model", Type: "STRING", Default: DefaultModel, Choices: []string{DefaultModel}},
		{Name: "width", Type: "INT", Default: 1024, Min: domain.MinImageSize, Max: domain.MaxImageSize, Step: domain.ImageSizeStep},
		{Name: "height", Type: "INT", Default: 1024, Min: domain.MinImageSize, Max: domain.MaxImageSize, Step: domain.ImageSizeStep},
		{Name: "temperature", Type: "FLOAT", Default: 1.0, Min: 0.0, Max: domain.MaxTemperature, Step: 0.05},
	}
}

func seedInput() InputSpec {
	return InputSpec{Name: "seed", Type: "INT", Default: domain.DefaultSeed, Min: 0, Max: 2147483647}
}
