package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/comfy-gemini-kit/pkg/domain"
)

// minKeyLength は API キーとして受理する最小文字数です。
// この長さを超える入力のみを正当なキーとして扱います。
const minKeyLength = 10

// Store は API キーをプレーンテキストファイルとして永続化するストアです。
// 保存は常に全体上書き（last-writer-wins）で、ロックは行いません。
type Store struct {
	path string
}

// New は指定されたファイルパスに紐づく Store を生成します。
func New(path string) *Store {
	return &Store{path: path}
}

// Path は永続化先のファイルパスを返します。
func (s *Store) Path() string {
	return s.path
}

// Resolve は利用する API キーを決定します。
//  1. 入力キーが閾値を超える長さなら、それを保存して返す
//  2. なければ保存済みキーを読み込み、閾値を超えていれば返す
//  3. どちらもなければ空文字列を返す（エラーにはしない）
//
// キーの正当性はリモート呼び出しまで検証しません。
func (s *Store) Resolve(userInput string, log *domain.DiagnosticLog) string {
	if len(userInput) > minKeyLength {
		log.Add("入力された API キーを使用します")
		if err := s.save(userInput); err != nil {
			log.Add("API キーの保存に失敗しました: %v", err)
		} else {
			log.Add("API キーをノードディレクトリに保存しました")
		}
		return userInput
	}

	saved, err := s.load()
	if err != nil {
		if !os.IsNotExist(err) {
			log.Add("保存済み API キーの読み込みに失敗しました: %v", err)
		}
	} else if len(saved) > minKeyLength {
		log.Add("保存済みの API キーを使用します")
		return saved
	}

	log.Add("警告: 有効な API キーが提供されていません")
	return ""
}

// save はキーを一時ファイルへ書き出してから rename で差し替えます。
// どの経路でも Sync と Close を完了させてから置き換えます。
func (s *Store) save(key string) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(key); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("キーの書き込みに失敗しました: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("キーの同期に失敗しました: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("一時ファイルのクローズに失敗しました: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("キーファイルの差し替えに失敗しました: %w", err)
	}
	return nil
}

func (s *Store) load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
