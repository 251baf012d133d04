package domain

import (
	"fmt"
	"strings"
)

// DiagnosticLog は 1 回の呼び出しの間に蓄積される診断メッセージ列です。
// 呼び出しごとに新しい値を生成し、結果のテキスト出力に結合します。
// グローバルな可変リストではなく、値として受け渡します。
type DiagnosticLog struct {
	messages []string
}

// Add はメッセージを末尾に追記します。
func (l *DiagnosticLog) Add(format string, args ...any) {
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

// Messages は蓄積されたメッセージのコピーを返します。
func (l *DiagnosticLog) Messages() []string {
	out := make([]string, len(l.messages))
	copy(out, l.messages)
	return out
}

// Join は全メッセージを改行で結合した文字列を返します。
func (l *DiagnosticLog) Join() string {
	return strings.Join(l.messages, "\n")
}

// Len は蓄積されたメッセージ数を返します。
func (l *DiagnosticLog) Len() int {
	return len(l.messages)
}
