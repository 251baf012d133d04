package domain

import "fmt"

// Channels は画像テンソルのチャンネル数です。ホストは常に RGB の 3 チャンネルを要求します。
const Channels = 3

// ホストのノード定義が宣言する入力値の境界です。
const (
	MinImageSize       = 512
	MaxImageSize       = 2048
	ImageSizeStep      = 8
	MaxTemperature     = 2.0
	DefaultSeed        = 66666666
	MaxReferenceImages = 4

	// PlaceholderValue はプレースホルダ画像の全サンプルに用いる定数値です。
	PlaceholderValue = 0.2
)

// ImageTensor は、ホストの正準レイアウト [batch, height, width, channels] に
// 対応するインメモリ画像表現です。サンプルは [0,1] に正規化された float32 で、
// 有効なテンソルは常に batch=1, channels=3 です。
// ホストから渡される不正な形状（batch>1 や RGBA など）も値としては表現でき、
// Validate で検出します。
type ImageTensor struct {
	Batch    int
	Height   int
	Width    int
	Channels int
	Data     []float32 // 長さ Height*Width*Channels、行優先
}

// NewImageTensor は指定サイズのゼロ初期化済みテンソルを生成します。
func NewImageTensor(width, height int) ImageTensor {
	return ImageTensor{
		Batch:    1,
		Height:   height,
		Width:    width,
		Channels: Channels,
		Data:     make([]float32, height*width*Channels),
	}
}

// NewPlaceholder は、有効な生成画像が得られなかった場合に返す
// 決定論的なプレースホルダ（全サンプル 0.2 の灰色画像）を生成します。
func NewPlaceholder(width, height int) ImageTensor {
	t := NewImageTensor(width, height)
	for i := range t.Data {
		t.Data[i] = PlaceholderValue
	}
	return t
}

// Validate は、テンソルが単一バッチ・3チャンネルの正準形状であることを確認します。
func (t ImageTensor) Validate() error {
	if t.Batch != 1 {
		return fmt.Errorf("バッチサイズが 1 ではありません: %d", t.Batch)
	}
	if t.Channels != Channels {
		return fmt.Errorf("チャンネル数が %d ではありません: %d", Channels, t.Channels)
	}
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("画像サイズが不正です: %dx%d", t.Width, t.Height)
	}
	if len(t.Data) != t.Height*t.Width*t.Channels {
		return fmt.Errorf("データ長が形状と一致しません: len=%d, 期待値=%d",
			len(t.Data), t.Height*t.Width*t.Channels)
	}
	return nil
}

// At は (x, y) のチャンネル c のサンプル値を返します。境界チェックは行いません。
func (t ImageTensor) At(x, y, c int) float32 {
	return t.Data[(y*t.Width+x)*t.Channels+c]
}

// Set は (x, y) のチャンネル c にサンプル値を書き込みます。
func (t *ImageTensor) Set(x, y, c int, v float32) {
	t.Data[(y*t.Width+x)*t.Channels+c] = v
}

// Shape は "[1, H, W, 3]" 形式の文字列を返します。ログ出力用です。
func (t ImageTensor) Shape() string {
	return fmt.Sprintf("[%d, %d, %d, %d]", t.Batch, t.Height, t.Width, t.Channels)
}
