package vision

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // API が返しうるフォーマットのデコーダ登録
	_ "image/jpeg" // 同上
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // 同上

	"github.com/shouni/comfy-gemini-kit/pkg/domain"
)

// EncodePNG はテンソルを送信用の PNG バイト列へ変換します。
// サンプルは [0,1] へクランプした上で 8bit 化します。
func EncodePNG(t domain.ImageTensor) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("テンソルが正準形状ではありません: %w", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			off := img.PixOffset(x, y)
			for c := 0; c < domain.Channels; c++ {
				img.Pix[off+c] = clamp8(t.At(x, y, c))
			}
			img.Pix[off+3] = 0xff
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("PNG エンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode はバイト列を元のピクセルサイズのままテンソルへ変換します。
// 戻り値の文字列は検出されたフォーマット名（"png" など）です。
func Decode(data []byte) (domain.ImageTensor, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.ImageTensor{}, "", fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}
	b := img.Bounds()
	return fromImage(forceNRGBA(img), b.Dx(), b.Dy()), format, nil
}

// DecodeTo はバイト列をデコードし、要求された width×height と異なる場合は
// Catmull-Rom フィルタでリサンプリングした上でテンソルへ変換します。
func DecodeTo(data []byte, width, height int) (domain.ImageTensor, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.ImageTensor{}, "", fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}

	src := forceNRGBA(img)
	b := src.Bounds()
	if b.Dx() != width || b.Dy() != height {
		dst := image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
		src = dst
	}

	return fromImage(src, width, height), format, nil
}

// forceNRGBA はあらゆるカラーモデルの画像を NRGBA へ揃えます（RGB 強制に相当）。
func forceNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// fromImage は NRGBA 画像を [0,1] 正規化済みのテンソルへ変換します。
// アルファは破棄し、RGB の 3 チャンネルのみ保持します。
func fromImage(img *image.NRGBA, width, height int) domain.ImageTensor {
	t := domain.NewImageTensor(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			off := img.PixOffset(x, y)
			for c := 0; c < domain.Channels; c++ {
				t.Set(x, y, c, float32(img.Pix[off+c])/255.0)
			}
		}
	}
	return t
}

func clamp8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*255.0 + 0.5)
}
