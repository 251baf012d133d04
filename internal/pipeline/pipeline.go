package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/comfy-gemini-kit/internal/builder"
	"github.com/shouni/comfy-gemini-kit/internal/config"
)

// Execute は指定されたノード型の生成パイプラインを 1 回実行するのだ。
// 参照画像の読み込み → ノード実行 → 結果保存、の一本道なのだ。
func Execute(ctx context.Context, cfg *config.Config, nodeType string) error {
	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return fmt.Errorf("アプリケーションコンテキストの初期化に失敗したのだ: %w", err)
	}

	nodeRunner, err := appCtx.BuildNodeRunner(nodeType)
	if err != nil {
		return err
	}

	if err := nodeRunner.Run(ctx); err != nil {
		return fmt.Errorf("生成パイプラインの実行に失敗したのだ: %w", err)
	}

	slog.Info("生成パイプラインが完了したのだ！", "node", nodeType)
	return nil
}
