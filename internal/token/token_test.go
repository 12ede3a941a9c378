package token

import (
	"testing"
	"time"

	"github.com/renataunda/HuevoPadigal/internal/model"
)

const testIssuer = "https://api.example.com"

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService([]byte("test-signing-key"), testIssuer)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

// TestNewService_EmptyKey は署名鍵未設定での構築が失敗することを検証する。
// 起動時に大きく失敗し、署名なしトークンの発行を防ぐ。
func TestNewService_EmptyKey(t *testing.T) {
	if _, err := NewService(nil, testIssuer); err != ErrEmptySigningKey {
		t.Errorf("expected ErrEmptySigningKey, got %v", err)
	}
	if _, err := NewService([]byte{}, testIssuer); err != ErrEmptySigningKey {
		t.Errorf("expected ErrEmptySigningKey, got %v", err)
	}
}

// TestNewService_EmptyIssuer は発行者未設定での構築が失敗することを検証する。
func TestNewService_EmptyIssuer(t *testing.T) {
	if _, err := NewService([]byte("key"), ""); err == nil {
		t.Error("expected error for empty issuer")
	}
}

// TestService_IssueAndVerify は発行したトークンの検証とクレーム内容を検証する。
func TestService_IssueAndVerify(t *testing.T) {
	svc := newTestService(t)
	user := &model.User{ID: "user-1", Email: "a@x.com"}

	signed, err := svc.Issue(user, []string{model.RoleViewer})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := svc.Verify(signed)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if claims.Subject != "a@x.com" {
		t.Errorf("expected sub a@x.com, got %s", claims.Subject)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("expected email claim a@x.com, got %s", claims.Email)
	}
	if !claims.HasRole(model.RoleViewer) {
		t.Errorf("expected viewer role, got %v", claims.Roles)
	}
	if claims.HasRole(model.RoleAdmin) {
		t.Error("admin role should not be present")
	}
	if claims.Issuer != testIssuer {
		t.Errorf("expected issuer %s, got %s", testIssuer, claims.Issuer)
	}
	if len(claims.Audience) != 1 || claims.Audience[0] != testIssuer {
		t.Errorf("audience should equal issuer, got %v", claims.Audience)
	}
	if claims.ID == "" {
		t.Error("jti should be set")
	}
}

// TestService_Issue_ExpiryIsOneHour は有効期限が発行時刻の1時間後であることを検証する。
func TestService_Issue_ExpiryIsOneHour(t *testing.T) {
	svc := newTestService(t)
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	signed, err := svc.Issue(&model.User{ID: "user-1", Email: "a@x.com"}, nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := svc.Verify(signed)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if !claims.IssuedAt.Time.Equal(fixed) {
		t.Errorf("expected iat %v, got %v", fixed, claims.IssuedAt.Time)
	}
	if !claims.ExpiresAt.Time.Equal(fixed.Add(time.Hour)) {
		t.Errorf("expected exp %v, got %v", fixed.Add(time.Hour), claims.ExpiresAt.Time)
	}
}

// TestService_Issue_UniqueJTI は同一瞬間に発行された2つのトークンが
// 異なることを検証する。
func TestService_Issue_UniqueJTI(t *testing.T) {
	svc := newTestService(t)
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	user := &model.User{ID: "user-1", Email: "a@x.com"}
	first, err := svc.Issue(user, nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	second, err := svc.Issue(user, nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if first == second {
		t.Error("tokens issued at the same instant must differ (jti)")
	}
}

// TestService_Verify_Expired は失効したトークンの拒否を検証する。
func TestService_Verify_Expired(t *testing.T) {
	svc := newTestService(t)
	issuedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	signed, err := svc.Issue(&model.User{ID: "user-1", Email: "a@x.com"}, nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// 検証時刻を有効期限の後に進める
	svc.now = func() time.Time { return issuedAt.Add(time.Hour + time.Minute) }

	if _, err := svc.Verify(signed); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

// TestService_Verify_WrongKey は別の鍵で署名されたトークンの拒否を検証する。
func TestService_Verify_WrongKey(t *testing.T) {
	svc := newTestService(t)
	other, err := NewService([]byte("another-key"), testIssuer)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	signed, err := other.Issue(&model.User{ID: "user-1", Email: "a@x.com"}, nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := svc.Verify(signed); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for wrong key, got %v", err)
	}
}

// TestService_Verify_WrongIssuer は発行者不一致のトークンの拒否を検証する。
func TestService_Verify_WrongIssuer(t *testing.T) {
	svc := newTestService(t)
	other, err := NewService([]byte("test-signing-key"), "https://other.example.com")
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	signed, err := other.Issue(&model.User{ID: "user-1", Email: "a@x.com"}, nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := svc.Verify(signed); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}

// TestService_Verify_Garbage は不正な文字列の拒否を検証する。
func TestService_Verify_Garbage(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Verify("not.a.token"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
