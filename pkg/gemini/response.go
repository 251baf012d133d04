package gemini

import (
	"bytes"
	"encoding/base64"
	"strings"

	"google.golang.org/genai"

	"github.com/shouni/comfy-gemini-kit/pkg/domain"
	"github.com/shouni/comfy-gemini-kit/pkg/vision"
)

// base64PNGSignature は「PNG を Base64 テキスト化したデータ」の先頭バイト列
// ("iVBOR") です。API がインラインデータを二重にテキストエンコードして返す
// 既知の挙動への対処で、この署名に一致した場合のみ先に Base64 復号します。
// 上流のバージョンに依存する未文書化の挙動のため、署名の一般化はしません。
var base64PNGSignature = []byte{0x69, 0x56, 0x42, 0x4f, 0x52}

// logPreviewLimit は診断ログに残すテキストプレビューの最大文字数です。
// 保持するレスポンステキスト自体は切り詰めません。
const logPreviewLimit = 100

// DecodeParts はレスポンスを API 境界で {TextPart, ImagePart} の
// タグ付きバリアント列へ一度だけ変換します。候補が存在しない場合のみ
// nil を返します（致命的エラーとしては扱いません）。候補はあるが
// 使えるパートがない場合は空の非 nil スライスを返し、呼び出し側が
// 「空のレスポンス」と「画像なしのレスポンス」を区別できるようにします。
func DecodeParts(resp *genai.GenerateContentResponse) []domain.ResponsePart {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}

	parts := []domain.ResponsePart{}
	content := resp.Candidates[0].Content
	if content == nil {
		return parts
	}
	for _, p := range content.Parts {
		switch {
		case p == nil:
		case p.Text != "":
			parts = append(parts, domain.TextPart{Text: p.Text})
		case p.InlineData != nil && len(p.InlineData.Data) > 0:
			parts = append(parts, domain.ImagePart{
				MIMEType: p.InlineData.MIMEType,
				Data:     p.InlineData.Data,
			})
		}
	}
	return parts
}

// Interpret はパート列を順に走査し、最初にデコードできた画像と
// 蓄積したレスポンステキストを返します。画像のデコード失敗は
// 診断を残して走査を継続します。戻り値の bool は画像が得られたか
// どうかを示します。
func Interpret(parts []domain.ResponsePart, width, height int, log *domain.DiagnosticLog) (domain.ImageTensor, string, bool) {
	var responseText strings.Builder

	for _, part := range parts {
		switch p := part.(type) {
		case domain.TextPart:
			responseText.WriteString(p.Text)
			log.Add("API がテキストを返しました: %s", previewOf(p.Text))

		case domain.ImagePart:
			log.Add("API が返したデータを処理しています")
			data := p.Data
			log.Add("MIME タイプ: %s, データ長: %d", p.MIMEType, len(data))

			if len(data) > 8 {
				log.Add("データ先頭 8 バイト: % x", data[:8])
			}
			if bytes.HasPrefix(data, base64PNGSignature) {
				log.Add("Base64 エンコードされた PNG を検出しました。復号します...")
				decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
				if err != nil {
					log.Add("Base64 の復号に失敗しました: %v", err)
				} else {
					data = decoded
					log.Add("Base64 の復号に成功しました。新しいデータ長: %d", len(data))
				}
			}

			tensor, format, err := vision.DecodeTo(data, width, height)
			if err != nil {
				log.Add("画像データを処理できませんでした: %v", err)
				continue
			}
			log.Add("画像のデコードに成功しました: フォーマット %s, テンソル形状 %s", format, tensor.Shape())
			return tensor, responseText.String(), true
		}
	}

	return domain.ImageTensor{}, responseText.String(), false
}

// previewOf はログ用にテキストを最大 100 文字へ切り詰めます。
func previewOf(text string) string {
	runes := []rune(text)
	if len(runes) <= logPreviewLimit {
		return text
	}
	return string(runes[:logPreviewLimit]) + "..."
}
