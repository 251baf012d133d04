package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/comfy-gemini-kit/internal/config"
	"github.com/shouni/comfy-gemini-kit/pkg/domain"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

var opts config.GenerateOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- 生成内容 ---
	rootCmd.PersistentFlags().StringVarP(&opts.Prompt, "prompt", "p", "", "生成したい画像の説明文なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Model, "model", "", "使用する Gemini 画像生成モデル名なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.Width, "width", config.DefaultWidth, "出力画像の幅（512〜2048、8の倍数）なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.Height, "height", config.DefaultHeight, "出力画像の高さ（512〜2048、8の倍数）なのだ。")
	rootCmd.PersistentFlags().Float64Var(&opts.Temperature, "temperature", config.DefaultTemperature, "生成の温度（0.0〜2.0）なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.Seed, "seed", domain.DefaultSeed, "シード値（0 でランダム生成）なのだ。")

	// --- 入出力 ---
	rootCmd.PersistentFlags().StringVar(&opts.APIKey, "api-key", "", "Google API キー。一度入力すれば保存されて次回からは不要なのだ。")
	rootCmd.PersistentFlags().StringArrayVarP(&opts.References, "ref-image", "r", nil, "参照画像のパス（ローカル or gs://）なのだ。複数指定可能。")
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "生成結果を保存するディレクトリ（ローカル or gs://...）なのだ。")
}

// preRunAppE は、コマンド実行前に入力値の境界チェックを行うのだ。
// API キーは入力・保存済みファイル・環境変数のどれからでも解決できるため、
// ここでは必須にしないのだ（キーがなければノードが案内文を返すのだ）。
func preRunAppE(cmd *cobra.Command, args []string) error {
	if err := validateSize("width", opts.Width); err != nil {
		return err
	}
	if err := validateSize("height", opts.Height); err != nil {
		return err
	}
	if opts.Temperature < 0 || opts.Temperature > domain.MaxTemperature {
		return fmt.Errorf("--temperature は 0.0〜%.1f で指定してほしいのだ: %g", domain.MaxTemperature, opts.Temperature)
	}
	if opts.Seed < 0 || opts.Seed > 2147483647 {
		return fmt.Errorf("--seed は 0〜2147483647 で指定してほしいのだ: %d", opts.Seed)
	}

	if opts.APIKey == "" && os.Getenv("GEMINI_API_KEY") == "" {
		slog.Warn("API キーが未指定なのだ。保存済みのキーがなければプレースホルダ画像が返るのだ")
	}
	return nil
}

func validateSize(name string, v int) error {
	if v < domain.MinImageSize || v > domain.MaxImageSize {
		return fmt.Errorf("--%s は %d〜%d で指定してほしいのだ: %d", name, domain.MinImageSize, domain.MaxImageSize, v)
	}
	if v%domain.ImageSizeStep != 0 {
		return fmt.Errorf("--%s は %d の倍数で指定してほしいのだ: %d", name, domain.ImageSizeStep, v)
	}
	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"comfy-gemini-go",
		addAppFlags,
		preRunAppE,
		generateCmd,
		multiCmd,
	)
}
