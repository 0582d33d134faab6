// Package security はアプリケーションのセキュリティ機能を提供する。
//
// InputSanitizerService は問い合わせフォームの入力をサニタイズし、
// 保存されたテキストが後で管理画面に表示される際のXSSを防ぐ。
// bluemondayのStrictPolicyですべてのHTMLタグを除去する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// InputSanitizerService はユーザー入力のサニタイズ機能のインターフェースを定義する。
// 問い合わせ送信の保存前に使用される。
type InputSanitizerService interface {
	// Sanitize は入力テキストからすべてのHTMLタグを除去し、
	// 前後の空白をトリムして返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(input string) string
}

// inputSanitizer はInputSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type inputSanitizer struct {
	policy *bluemonday.Policy
}

// NewInputSanitizer はInputSanitizerServiceの新しいインスタンスを生成する。
// 問い合わせ入力はプレーンテキストとして扱うため、
// タグを一切許可しないStrictPolicyを使用する。
func NewInputSanitizer() *inputSanitizer {
	return &inputSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストからすべてのHTMLタグを除去して返す。
func (s *inputSanitizer) Sanitize(input string) string {
	return strings.TrimSpace(s.policy.Sanitize(input))
}
