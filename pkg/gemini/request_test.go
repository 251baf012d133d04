package gemini

import (
	"strings"
	"testing"

	"github.com/shouni/comfy-gemini-kit/pkg/domain"
)

func TestResolveSeed(t *testing.T) {
	t.Run("シード0は1以上の乱数に置き換えられること", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			var log domain.DiagnosticLog
			seed := ResolveSeed(0, &log)
			if seed < 1 {
				t.Fatalf("シード値が範囲外です: %d", seed)
			}
		}
	})

	t.Run("0以外のシードはそのまま通ること", func(t *testing.T) {
		var log domain.DiagnosticLog
		if got := ResolveSeed(domain.DefaultSeed, &log); got != domain.DefaultSeed {
			t.Errorf("期待値 %d, 実際の値 %d", int64(domain.DefaultSeed), got)
		}
		if got := ResolveSeed(1, &log); got != 1 {
			t.Errorf("期待値 1, 実際の値 %d", got)
		}
	})
}

func TestOrientation(t *testing.T) {
	cases := []struct {
		w, h int
		want string
	}{
		{1024, 768, "landscape (horizontal)"},
		{768, 1024, "portrait (vertical)"},
		{1024, 1024, "square"},
	}
	for _, c := range cases {
		if got := Orientation(c.w, c.h); got != c.want {
			t.Errorf("%dx%d: 期待値 %q, 実際の値 %q", c.w, c.h, c.want, got)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Run("寸法と向きのラベルが埋め込まれること", func(t *testing.T) {
		prompt := BuildPrompt("a red ball", 1024, 768)

		if !strings.Contains(prompt, "a red ball") {
			t.Error("ユーザープロンプトが含まれていません")
		}
		if !strings.Contains(prompt, "1024x768") {
			t.Error("ピクセル寸法が含まれていません")
		}
		if !strings.Contains(prompt, "landscape") {
			t.Error("向きのラベルが含まれていません")
		}
		if !strings.Contains(prompt, "without stretching or distortion") {
			t.Error("歪み防止の指示が含まれていません")
		}
	})
}

func TestBuildContents(t *testing.T) {
	baseReq := func() domain.GenerationRequest {
		return domain.GenerationRequest{
			Prompt: "a red ball",
			Width:  1024,
			Height: 768,
		}
	}

	t.Run("参照画像なしの場合はテキストパートのみになること", func(t *testing.T) {
		var log domain.DiagnosticLog
		contents := BuildContents(baseReq(), &log)

		if len(contents) != 1 {
			t.Fatalf("コンテンツ数が不正です: %d", len(contents))
		}
		parts := contents[0].Parts
		if len(parts) != 1 {
			t.Fatalf("パート数が不正です: %d", len(parts))
		}
		if parts[0].Text == "" || parts[0].InlineData != nil {
			t.Error("テキストパートのみであるべきです")
		}
		if strings.Contains(parts[0].Text, "reference image") {
			t.Error("参照画像なしなのに参照への言及があります")
		}
	})

	t.Run("有効な参照画像は画像パートが先、テキストパートが後になること", func(t *testing.T) {
		req := baseReq()
		req.References = []domain.ImageTensor{
			domain.NewPlaceholder(16, 16),
			domain.NewPlaceholder(8, 8),
		}

		var log domain.DiagnosticLog
		parts := BuildContents(req, &log)[0].Parts

		if len(parts) != 3 {
			t.Fatalf("パート数が不正です: %d", len(parts))
		}
		for i := 0; i < 2; i++ {
			if parts[i].InlineData == nil {
				t.Errorf("パート %d が画像パートではありません", i)
			} else if parts[i].InlineData.MIMEType != "image/png" {
				t.Errorf("MIME タイプが不正です: %s", parts[i].InlineData.MIMEType)
			}
		}
		last := parts[2]
		if last.Text == "" {
			t.Fatal("末尾がテキストパートではありません")
		}
		if !strings.Contains(last.Text, "Use these 2 reference images") {
			t.Errorf("参照枚数への言及がありません: %q", last.Text)
		}
	})

	t.Run("1枚の参照画像では単数形の文言になること", func(t *testing.T) {
		req := baseReq()
		req.References = []domain.ImageTensor{domain.NewPlaceholder(16, 16)}

		var log domain.DiagnosticLog
		parts := BuildContents(req, &log)[0].Parts
		if !strings.Contains(parts[len(parts)-1].Text, "Use this reference image as style guidance.") {
			t.Errorf("単数形の文言がありません: %q", parts[len(parts)-1].Text)
		}
	})

	t.Run("不正な形状の参照画像は除外され診断が残ること", func(t *testing.T) {
		broken := domain.NewPlaceholder(16, 16)
		broken.Batch = 2

		req := baseReq()
		req.References = []domain.ImageTensor{broken, domain.NewPlaceholder(8, 8)}

		var log domain.DiagnosticLog
		parts := BuildContents(req, &log)[0].Parts

		// 不正な1枚が落ち、有効な1枚＋テキストの2パートになる
		if len(parts) != 2 {
			t.Fatalf("パート数が不正です: %d", len(parts))
		}
		if !strings.Contains(log.Join(), "参照画像 1 の形式が不正です") {
			t.Errorf("除外の診断が残っていません: %q", log.Join())
		}
	})
}

func TestBuildConfig(t *testing.T) {
	cfg := BuildConfig(1.5, 42)
	if cfg.Temperature == nil || *cfg.Temperature != 1.5 {
		t.Error("温度が設定されていません")
	}
	if cfg.Seed == nil || *cfg.Seed != 42 {
		t.Error("シードが設定されていません")
	}
	if len(cfg.ResponseModalities) != 2 {
		t.Fatalf("モダリティ数が不正です: %v", cfg.ResponseModalities)
	}
	if cfg.ResponseModalities[0] != "TEXT" || cfg.ResponseModalities[1] != "IMAGE" {
		t.Errorf("モダリティが不正です: %v", cfg.ResponseModalities)
	}
}
