// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// auth.MetricsRecorderを実装する。
type Collector struct {
	registrations          prometheus.Counter
	logins                 *prometheus.CounterVec
	confirmationEmailsSent prometheus.Counter
	emailsConfirmed        prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "huevopadigal_registrations_total",
			Help: "ユーザー登録成功の合計数",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huevopadigal_logins_total",
			Help: "ログイン試行の結果別合計数",
		}, []string{"outcome"}),
		confirmationEmailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "huevopadigal_confirmation_emails_sent_total",
			Help: "送信された確認メールの合計数",
		}),
		emailsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "huevopadigal_emails_confirmed_total",
			Help: "確認完了したメールアドレスの合計数",
		}),
	}

	reg.MustRegister(
		c.registrations,
		c.logins,
		c.confirmationEmailsSent,
		c.emailsConfirmed,
	)

	return c
}

// RecordRegistration はユーザー登録成功を記録する。
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// RecordLogin はログイン試行の結果を記録する。
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordConfirmationEmailSent は確認メール送信を記録する。
func (c *Collector) RecordConfirmationEmailSent() {
	c.confirmationEmailsSent.Inc()
}

// RecordEmailConfirmed はメール確認完了を記録する。
func (c *Collector) RecordEmailConfirmed() {
	c.emailsConfirmed.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
