package keystore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shouni/comfy-gemini-kit/pkg/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "gemini_api_key.txt"))
}

func TestStore_Resolve(t *testing.T) {
	t.Run("10文字を超える入力キーは永続化されて返ること", func(t *testing.T) {
		store := newTestStore(t)
		var log domain.DiagnosticLog

		key := "AIzaSy-example-key-0123456789"
		if got := store.Resolve(key, &log); got != key {
			t.Fatalf("期待値 %q, 実際の値 %q", key, got)
		}

		// 入力なしの次回呼び出しでも同じキーが返ること（永続化の往復）
		var log2 domain.DiagnosticLog
		if got := store.Resolve("", &log2); got != key {
			t.Errorf("保存済みキーが返りませんでした: %q", got)
		}

		// ファイルの中身が正確にキー文字列であること
		data, err := os.ReadFile(store.Path())
		if err != nil {
			t.Fatalf("キーファイルの読み込みに失敗しました: %v", err)
		}
		if string(data) != key {
			t.Errorf("ファイル内容が不正です: %q", string(data))
		}
	})

	t.Run("10文字以下の入力かつ保存なしの場合は空が返ること", func(t *testing.T) {
		store := newTestStore(t)
		var log domain.DiagnosticLog

		if got := store.Resolve("short", &log); got != "" {
			t.Errorf("空文字列を期待しましたが %q が返りました", got)
		}
		if !strings.Contains(log.Join(), "有効な API キーが提供されていません") {
			t.Errorf("警告メッセージが記録されていません: %q", log.Join())
		}
	})

	t.Run("ちょうど10文字の入力は拒否されること", func(t *testing.T) {
		store := newTestStore(t)
		var log domain.DiagnosticLog

		if got := store.Resolve("0123456789", &log); got != "" {
			t.Errorf("閾値ちょうどの入力が受理されました: %q", got)
		}
	})

	t.Run("新しいキーが既存のキーを上書きすること", func(t *testing.T) {
		store := newTestStore(t)
		var log domain.DiagnosticLog

		store.Resolve("first-key-00000000", &log)
		store.Resolve("second-key-1111111", &log)

		var log2 domain.DiagnosticLog
		if got := store.Resolve("", &log2); got != "second-key-1111111" {
			t.Errorf("上書きされたキーが返りませんでした: %q", got)
		}
	})

	t.Run("保存済みキーの前後の空白は除去されること", func(t *testing.T) {
		store := newTestStore(t)
		if err := os.WriteFile(store.Path(), []byte("  stored-key-22222222\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		var log domain.DiagnosticLog
		if got := store.Resolve("", &log); got != "stored-key-22222222" {
			t.Errorf("期待値 %q, 実際の値 %q", "stored-key-22222222", got)
		}
	})
}
