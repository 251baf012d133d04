package asset

import (
	"strings"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultOutputDir は生成結果を格納するデフォルトのディレクトリ名です。
	DefaultOutputDir = "output"
	// DefaultImageFileName は生成画像のデフォルトのファイル名です。
	DefaultImageFileName = "gemini_output.png"
)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolvePath(baseDir, fileName)
}

// GenerateIndexedPath は、指定されたベースパスの拡張子の前に連番を挿入し、
// 新しいパス文字列を生成します。index は1以上の整数である必要があります。
// 例: "output/gemini_output.png", 1 -> "output/gemini_output_1.png"
func GenerateIndexedPath(basePath string, index int) (string, error) {
	return urlpath.GenerateIndexedPath(basePath, index)
}

// TextSidecarPath は画像出力パスに対応するテキスト出力パスを返します。
// 拡張子を .txt に差し替え、拡張子がない場合は末尾へ付与します。
func TextSidecarPath(imagePath string) string {
	if i := strings.LastIndex(imagePath, "."); i > strings.LastIndex(imagePath, "/") {
		return imagePath[:i] + ".txt"
	}
	return imagePath + ".txt"
}
