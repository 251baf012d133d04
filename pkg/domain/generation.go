package domain

// GenerationRequest は単一の画像生成要求です。
type GenerationRequest struct {
	Prompt      string
	Model       string
	Width       int
	Height      int
	Temperature float32
	Seed        int32         // 0 はランダム生成の指示
	References  []ImageTensor // 0〜4 枚の参照画像（順序を保持）
}

// GenerationResult は生成結果です。成功・失敗を問わず、
// ちょうど 1 枚の画像（生成画像またはプレースホルダ）と
// 結合済みテキストを必ず保持します。
type GenerationResult struct {
	Image ImageTensor
	Text  string
}

// ResponsePart は API レスポンスの 1 パートです。
// API 境界で一度だけ {TextPart, ImagePart} のタグ付きバリアントへ
// デコードし、以降の処理は型スイッチで分岐します。
type ResponsePart interface {
	isResponsePart()
}

// TextPart はプレーンテキストのパートです。
type TextPart struct {
	Text string
}

// ImagePart はインラインバイナリデータのパートです。
type ImagePart struct {
	MIMEType string
	Data     []byte
}

func (TextPart) isResponsePart()  {}
func (ImagePart) isResponsePart() {}
