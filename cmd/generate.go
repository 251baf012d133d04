package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/comfy-gemini-kit/internal/config"
	"github.com/shouni/comfy-gemini-kit/internal/pipeline"
	"github.com/shouni/comfy-gemini-kit/pkg/nodes"

	"github.com/spf13/cobra"
)

// generateCmd は、単一参照画像版のノードで画像を生成するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "プロンプト（＋参照画像1枚まで）から Gemini に画像を生成させるのだ。",
	Long: `プロンプトと任意の参照画像1枚を Gemini API へ送り、生成された画像と
API のレスポンステキストを保存するのだ。参照画像はスタイルの指針として使われるのだよ。`,
	RunE: generateCommand,
}

func init() {
}

// generateCommand は、generate サブコマンドの実行ロジック本体なのだ。
func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.Prompt == "" {
		return fmt.Errorf("生成内容（--prompt）を指定してほしいのだ")
	}
	if len(opts.References) > 1 {
		return fmt.Errorf("generate コマンドの参照画像は1枚までなのだ（%d枚指定）。複数使うなら multi コマンドなのだ", len(opts.References))
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts

	slog.Info("画像生成ノードを起動するのだ！",
		"size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"references", len(opts.References),
		"output_dir", opts.OutputDir)

	// 3. パイプライン実行
	return pipeline.Execute(ctx, cfg, nodes.TypeImageGenerator)
}
