package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/comfy-gemini-kit/internal/config"
	"github.com/shouni/comfy-gemini-kit/internal/runner"
	"github.com/shouni/comfy-gemini-kit/pkg/gemini"
	"github.com/shouni/comfy-gemini-kit/pkg/keystore"
	"github.com/shouni/comfy-gemini-kit/pkg/nodes"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する。
// これを各 Build 関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config   *config.Config          // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、モデル名など）。
	Options  config.GenerateOptions  // Optionsは、コマンドラインから渡された実行時の設定です。
	Reader   remoteio.InputReader    // Readerは、参照画像の読み込みに使用する入力元です。
	Writer   remoteio.OutputWriter   // Writerは、生成結果を保存するための出力先です。
	Keys     *keystore.Store         // Keysは、APIキーの解決と永続化を担うストアです。
	Registry map[string]nodes.Node   // Registryは、型名からノード実装を引くマップです。
	refCache *cache.Cache
}

// NewAppContext は AppContext の新しいインスタンスを生成する。
func NewAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}
	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	keys := keystore.New(resolveKeyFile(cfg.KeyFile))

	return &AppContext{
		Config:   cfg,
		Options:  cfg.Options,
		Reader:   reader,
		Writer:   writer,
		Keys:     keys,
		Registry: nodes.Registry(keys, gemini.Connect),
		refCache: cache.New(config.ReferenceCacheTTL, config.ReferenceCacheSweep),
	}, nil
}

// BuildNodeRunner は指定された型名のノードを実行する Runner を構築します。
func (a *AppContext) BuildNodeRunner(typeName string) (runner.NodeRunner, error) {
	node, ok := a.Registry[typeName]
	if !ok {
		return nil, fmt.Errorf("未知のノード型なのだ: %s", typeName)
	}
	return runner.NewDefaultNodeRunner(a.Config, a.Reader, a.Writer, a.refCache, node), nil
}

// resolveKeyFile は相対パスのキーファイルを実行バイナリの設置ディレクトリ
// （ノードの自身のディレクトリに相当）へ寄せます。
func resolveKeyFile(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		return path
	}
	return filepath.Join(filepath.Dir(exe), path)
}
