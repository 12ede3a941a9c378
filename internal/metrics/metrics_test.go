package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestCollector_Counters はカウンターの登録と加算を検証する。
func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRegistration()
	c.RecordRegistration()
	c.RecordLogin("success")
	c.RecordLogin("failure")
	c.RecordLogin("failure")
	c.RecordConfirmationEmailSent()
	c.RecordEmailConfirmed()

	if got := testutil.ToFloat64(c.registrations); got != 2 {
		t.Errorf("expected 2 registrations, got %v", got)
	}
	if got := testutil.ToFloat64(c.logins.WithLabelValues("success")); got != 1 {
		t.Errorf("expected 1 successful login, got %v", got)
	}
	if got := testutil.ToFloat64(c.logins.WithLabelValues("failure")); got != 2 {
		t.Errorf("expected 2 failed logins, got %v", got)
	}
	if got := testutil.ToFloat64(c.confirmationEmailsSent); got != 1 {
		t.Errorf("expected 1 confirmation email, got %v", got)
	}
	if got := testutil.ToFloat64(c.emailsConfirmed); got != 1 {
		t.Errorf("expected 1 confirmed email, got %v", got)
	}
}

// TestHandler_ExposesMetrics はスクレイプエンドポイントの出力を検証する。
func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRegistration()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "huevopadigal_registrations_total 1") {
		t.Errorf("expected registrations counter in scrape output:\n%s", rec.Body.String())
	}
}
