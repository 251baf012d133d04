package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/comfy-gemini-kit/internal/config"
	"github.com/shouni/comfy-gemini-kit/pkg/asset"
	"github.com/shouni/comfy-gemini-kit/pkg/domain"
	"github.com/shouni/comfy-gemini-kit/pkg/nodes"
	"github.com/shouni/comfy-gemini-kit/pkg/vision"
)

// InputReader は参照画像の読み込み元です。go-remote-io の InputReader が
// この最小インターフェースを満たします。
type InputReader interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// OutputWriter は生成結果の保存先です。go-remote-io の OutputWriter が
// この最小インターフェースを満たします。
type OutputWriter interface {
	Write(ctx context.Context, path string, r io.Reader, mimeType string) error
}

// NodeRunner はノード 1 回分の実行と結果保存のインターフェースです。
type NodeRunner interface {
	Run(ctx context.Context) error
}

// DefaultNodeRunner は参照画像の読み込み、ノードの実行、
// 画像とテキストの保存までを担う標準実装なのだ。
type DefaultNodeRunner struct {
	cfg      *config.Config
	opts     config.GenerateOptions
	reader   InputReader
	writer   OutputWriter
	refCache *cache.Cache // 参照画像の読み込み結果キャッシュ（生成結果はキャッシュしない）
	node     nodes.Node
}

// NewDefaultNodeRunner は DefaultNodeRunner を生成します。
func NewDefaultNodeRunner(cfg *config.Config, reader InputReader, writer OutputWriter, refCache *cache.Cache, node nodes.Node) *DefaultNodeRunner {
	return &DefaultNodeRunner{
		cfg:      cfg,
		opts:     cfg.Options,
		reader:   reader,
		writer:   writer,
		refCache: refCache,
		node:     node,
	}
}

// Run は参照画像を読み込んでノードを実行し、結果を保存するのだ。
// ノード自体は決して失敗しないため、ここで返るエラーは入出力のものだけなのだ。
func (r *DefaultNodeRunner) Run(ctx context.Context) error {
	refs, err := r.loadReferences(ctx)
	if err != nil {
		return err
	}

	apiKey := r.opts.APIKey
	if apiKey == "" {
		apiKey = r.cfg.GeminiAPIKey
	}
	model := r.opts.Model
	if model == "" {
		model = r.cfg.ImageModel
	}

	in := nodes.Inputs{
		Prompt:      r.opts.Prompt,
		APIKey:      apiKey,
		Model:       model,
		Width:       r.opts.Width,
		Height:      r.opts.Height,
		Temperature: float32(r.opts.Temperature),
		Seed:        int32(r.opts.Seed),
		References:  refs,
	}

	slog.Info("ノードを実行するのだ",
		"node", r.node.Spec().TypeName,
		"size", fmt.Sprintf("%dx%d", in.Width, in.Height),
		"references", len(refs))

	tensor, text := r.node.Generate(ctx, in)

	return r.saveResult(ctx, tensor, text)
}

// loadReferences は参照画像を並列に読み込み、指定順のままテンソル列を返すのだ。
// 読み込み済みのパスはキャッシュから返して再デコードを避けるのだ。
func (r *DefaultNodeRunner) loadReferences(ctx context.Context) ([]domain.ImageTensor, error) {
	paths := r.opts.References
	if len(paths) == 0 {
		return nil, nil
	}

	out := make([]domain.ImageTensor, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			if v, ok := r.refCache.Get(path); ok {
				out[i] = v.(domain.ImageTensor)
				return nil
			}

			rc, err := r.reader.Open(egCtx, path)
			if err != nil {
				return fmt.Errorf("参照画像のオープンに失敗したのだ (%s): %w", path, err)
			}
			defer rc.Close()

			data, err := io.ReadAll(rc)
			if err != nil {
				return fmt.Errorf("参照画像の読み込みに失敗したのだ (%s): %w", path, err)
			}

			tensor, format, err := vision.Decode(data)
			if err != nil {
				return fmt.Errorf("参照画像のデコードに失敗したのだ (%s): %w", path, err)
			}
			slog.Info("参照画像を読み込んだのだ", "path", path, "format", format, "shape", tensor.Shape())

			r.refCache.Set(path, tensor, cache.DefaultExpiration)
			out[i] = tensor
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// saveResult は画像を PNG として、テキストをサイドカーとして保存するのだ。
func (r *DefaultNodeRunner) saveResult(ctx context.Context, tensor domain.ImageTensor, text string) error {
	data, err := vision.EncodePNG(tensor)
	if err != nil {
		return fmt.Errorf("結果画像のエンコードに失敗したのだ: %w", err)
	}

	imagePath, err := r.resolveImagePath(ctx)
	if err != nil {
		return err
	}
	if err := r.writer.Write(ctx, imagePath, bytes.NewReader(data), "image/png"); err != nil {
		return fmt.Errorf("結果画像の保存に失敗したのだ (%s): %w", imagePath, err)
	}

	textPath := asset.TextSidecarPath(imagePath)
	if err := r.writer.Write(ctx, textPath, strings.NewReader(text), "text/plain; charset=utf-8"); err != nil {
		return fmt.Errorf("レスポンステキストの保存に失敗したのだ (%s): %w", textPath, err)
	}

	slog.Info("生成結果を保存したのだ", "image", imagePath, "text", textPath)
	return nil
}

// maxOutputIndex は連番付き出力ファイル名の探索上限なのだ。
const maxOutputIndex = 9999

// resolveImagePath は出力ディレクトリ内でまだ使われていない画像パスを返すのだ。
// 基本名 (gemini_output.png) が既にあれば _1, _2... と連番を進めて、
// 過去の生成結果を上書きしないようにするのだ。
func (r *DefaultNodeRunner) resolveImagePath(ctx context.Context) (string, error) {
	base, err := asset.ResolveOutputPath(r.opts.OutputDir, asset.DefaultImageFileName)
	if err != nil {
		return "", fmt.Errorf("出力パスの解決に失敗したのだ: %w", err)
	}
	if !r.outputExists(ctx, base) {
		return base, nil
	}

	for i := 1; i <= maxOutputIndex; i++ {
		candidate, err := asset.GenerateIndexedPath(base, i)
		if err != nil {
			return "", fmt.Errorf("連番付き出力パスの生成に失敗したのだ: %w", err)
		}
		if !r.outputExists(ctx, candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("出力ディレクトリの連番が上限に達したのだ (%s)", base)
}

// outputExists は出力先に同名のファイルが既にあるかを読み出しで確かめるのだ。
func (r *DefaultNodeRunner) outputExists(ctx context.Context, path string) bool {
	rc, err := r.reader.Open(ctx, path)
	if err != nil {
		return false
	}
	rc.Close()
	return true
}
