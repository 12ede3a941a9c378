// Package security はアプリケーションのセキュリティ機能を提供する。
//
// NotesSanitizerService は顧客・販売の備考欄に入力された自由記述テキストを
// サニタイズし、保存されたHTMLが管理画面で描画される際のXSSを防ぐ。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 最小限の整形タグのみを通過させる。
package security

import "github.com/microcosm-cc/bluemonday"

// NotesSanitizerService は備考テキストのサニタイズ機能のインターフェースを定義する。
// 顧客・販売の作成および更新時、保存前に適用される。
type NotesSanitizerService interface {
	// Sanitize は備考テキストをサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, strong, em, ul, ol, li）のみを通過させ、
	// script, iframe, style, img タグおよびon*イベント属性を除去する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// notesSanitizer はNotesSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type notesSanitizer struct {
	policy *bluemonday.Policy
}

// NewNotesSanitizer はNotesSanitizerServiceの新しいインスタンスを生成する。
// 備考欄はリッチテキストを想定しないため、リンクと画像は許可しない。
// script, iframe, style等は許可リストに含めないことで自動的に除去される。
func NewNotesSanitizer() *notesSanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "em", "ul", "ol", "li")

	return &notesSanitizer{
		policy: p,
	}
}

// Sanitize は備考テキストをサニタイズして安全なHTMLを返す。
func (s *notesSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
