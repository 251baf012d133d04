package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/comfy-gemini-kit/internal/config"
	"github.com/shouni/comfy-gemini-kit/internal/pipeline"
	"github.com/shouni/comfy-gemini-kit/pkg/domain"
	"github.com/shouni/comfy-gemini-kit/pkg/nodes"

	"github.com/spf13/cobra"
)

// multiCmd は、複数参照画像版のノードで画像を生成するのだ。
var multiCmd = &cobra.Command{
	Use:   "multi",
	Short: "最大4枚の参照画像を使って Gemini に画像を生成させるのだ。",
	Long: `プロンプトと最大4枚の参照画像を 1 回のリクエストにまとめて Gemini API へ送り、
生成された画像と API のレスポンステキストを保存するのだ。
参照画像はスタイルと内容の両方の指針として使われるのだよ。`,
	RunE: multiCommand,
}

func init() {
}

// multiCommand は、multi サブコマンドの実行ロジック本体なのだ。
func multiCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.Prompt == "" {
		return fmt.Errorf("生成内容（--prompt）を指定してほしいのだ")
	}
	if len(opts.References) > domain.MaxReferenceImages {
		return fmt.Errorf("参照画像は最大%d枚までなのだ（%d枚指定）", domain.MaxReferenceImages, len(opts.References))
	}

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("複数参照の画像生成ノードを起動するのだ！",
		"size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"references", len(opts.References),
		"output_dir", opts.OutputDir)

	return pipeline.Execute(ctx, cfg, nodes.TypeMultiImageGenerator)
}
