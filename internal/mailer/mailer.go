// Package mailer は確認メールなどの送信メッセージディスパッチを提供する。
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer はメール送信のインターフェース。
// 呼び出し側はエラー伝播のため送信完了を待ち合わせる。
type Mailer interface {
	// SendEmail はHTML本文のメールを1通送信する。
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPConfig はSMTPメーラーの設定。
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer はSMTP経由でメールを送信する。
type SMTPMailer struct {
	config SMTPConfig
}

// NewSMTPMailer はSMTPMailerを生成する。
func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	return &SMTPMailer{config: config}
}

// SendEmail はHTML本文のメールを1通送信する。
// 送信失敗は呼び出し元に伝播し、握りつぶさない。
func (m *SMTPMailer) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	msg := buildMessage(m.config.From, to, subject, htmlBody)

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("email sent",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}

// buildMessage はHTML本文付きのRFC 5322メッセージを組み立てる。
func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// LogMailer は実際には送信せず、ログに記録するだけのメーラー。
// SMTP_HOST未設定のローカル開発環境で使用する。
type LogMailer struct{}

// NewLogMailer はLogMailerを生成する。
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// SendEmail はメール内容をログに記録する。常に成功する。
func (m *LogMailer) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slog.Info("email dispatch skipped (log mailer)",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", htmlBody),
	)
	return nil
}

// compile-time interface checks
var _ Mailer = (*SMTPMailer)(nil)
var _ Mailer = (*LogMailer)(nil)
