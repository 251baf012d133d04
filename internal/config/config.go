package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultImageModel   = "models/gemini-2.0-flash-exp"
	DefaultKeyFileName  = "gemini_api_key.txt" // ノードの設置ディレクトリに保存する API キーファイル
	DefaultOutputDir    = "output"             // 生成画像とテキストのデフォルト保存先なのだ
	DefaultWidth        = 1024
	DefaultHeight       = 1024
	DefaultTemperature  = 1.0
	ReferenceCacheTTL   = 30 * time.Minute // 読み込んだ参照画像のキャッシュ保持時間
	ReferenceCacheSweep = 1 * time.Hour
)

// Config はアプリケーション全体の環境設定（APIキーやモデル設定）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey string
	ImageModel   string
	KeyFile      string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey: envutil.GetEnv("GEMINI_API_KEY", ""),
		ImageModel:   envutil.GetEnv("GEMINI_IMAGE_MODEL", DefaultImageModel),
		KeyFile:      envutil.GetEnv("GEMINI_KEY_FILE", DefaultKeyFileName),
	}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 生成内容
	Prompt      string  // --prompt
	Model       string  // --model
	Width       int     // --width
	Height      int     // --height
	Temperature float64 // --temperature
	Seed        int     // --seed: 0 でランダム生成

	// 入出力
	APIKey     string   // --api-key: 入力があれば保存されて次回以降は不要
	References []string // --ref-image: ローカルパス or gs://（最大4枚）
	OutputDir  string   // --output-dir
}
