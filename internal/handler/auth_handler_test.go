package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/renataunda/HuevoPadigal/internal/auth"
	"github.com/renataunda/HuevoPadigal/internal/model"
)

// --- モック ---

type mockAuthService struct {
	registerFn           func(ctx context.Context, input auth.RegisterInput) error
	confirmEmailFn       func(ctx context.Context, userID, rawToken string) error
	resendConfirmationFn func(ctx context.Context, email string) error
	loginFn              func(ctx context.Context, email, password string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, input auth.RegisterInput) error {
	return m.registerFn(ctx, input)
}
func (m *mockAuthService) ConfirmEmail(ctx context.Context, userID, rawToken string) error {
	return m.confirmEmailFn(ctx, userID, rawToken)
}
func (m *mockAuthService) ResendConfirmation(ctx context.Context, email string) error {
	return m.resendConfirmationFn(ctx, email)
}
func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return m.loginFn(ctx, email, password)
}

var _ AuthServiceInterface = (*mockAuthService)(nil)

// --- テスト ---

// TestAuthHandler_Register_Success は登録成功のレスポンスを検証する。
func TestAuthHandler_Register_Success(t *testing.T) {
	var got auth.RegisterInput
	h := NewAuthHandler(&mockAuthService{
		registerFn: func(ctx context.Context, input auth.RegisterInput) error {
			got = input
			return nil
		},
	})

	body := `{"email":"a@x.com","password":"Secr3t!","fullName":"Ann","dateOfBirth":"2000-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "registered successfully") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
	if got.Email != "a@x.com" || got.FullName != "Ann" {
		t.Errorf("unexpected input passed to service: %+v", got)
	}
	if got.DateOfBirth.Year() != 2000 || got.DateOfBirth.Month() != 1 {
		t.Errorf("dateOfBirth not parsed: %v", got.DateOfBirth)
	}
}

// TestAuthHandler_Register_ValidationError はフィールドエラー付きの400を検証する。
func TestAuthHandler_Register_ValidationError(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		registerFn: func(ctx context.Context, input auth.RegisterInput) error {
			return model.NewValidationError([]model.FieldError{
				{Field: "password", Message: "Password must be at least 6 characters long."},
			})
		},
	})

	body := `{"email":"a@x.com","password":"x","fullName":"Ann","dateOfBirth":"2000-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp apiErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != model.ErrCodeValidationFailed {
		t.Errorf("expected code %s, got %s", model.ErrCodeValidationFailed, resp.Code)
	}
	if len(resp.Fields) != 1 || resp.Fields[0].Field != "password" {
		t.Errorf("expected password field error, got %v", resp.Fields)
	}
}

// TestAuthHandler_Register_MalformedBody はJSON解析失敗の400を検証する。
func TestAuthHandler_Register_MalformedBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// TestAuthHandler_Register_InvalidDate は不正な生年月日の400を検証する。
func TestAuthHandler_Register_InvalidDate(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	body := `{"email":"a@x.com","password":"Secr3t!","fullName":"Ann","dateOfBirth":"yesterday"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// TestAuthHandler_ConfirmEmail_Success は確認成功のレスポンスを検証する。
func TestAuthHandler_ConfirmEmail_Success(t *testing.T) {
	var gotUserID, gotToken string
	h := NewAuthHandler(&mockAuthService{
		confirmEmailFn: func(ctx context.Context, userID, rawToken string) error {
			gotUserID, gotToken = userID, rawToken
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/confirmemail?userId=user-1&token=abc123", nil)
	rec := httptest.NewRecorder()

	h.ConfirmEmail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Email confirmed successfully") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
	if gotUserID != "user-1" || gotToken != "abc123" {
		t.Errorf("query params not forwarded: %s / %s", gotUserID, gotToken)
	}
}

// TestAuthHandler_ConfirmEmail_MissingParams はパラメータ欠落の400を検証する。
func TestAuthHandler_ConfirmEmail_MissingParams(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/confirmemail?userId=user-1", nil)
	rec := httptest.NewRecorder()

	h.ConfirmEmail(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// TestAuthHandler_ConfirmEmail_UnknownUser はユーザー未検出でも
// 400が返ることを検証する（確認リンクでは404を使わない）。
func TestAuthHandler_ConfirmEmail_UnknownUser(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		confirmEmailFn: func(ctx context.Context, userID, rawToken string) error {
			return model.NewUserNotFoundError()
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/confirmemail?userId=nope&token=abc", nil)
	rec := httptest.NewRecorder()

	h.ConfirmEmail(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// TestAuthHandler_ConfirmEmail_TokenFailure はトークン照合失敗の400を検証する。
func TestAuthHandler_ConfirmEmail_TokenFailure(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		confirmEmailFn: func(ctx context.Context, userID, rawToken string) error {
			return model.NewConfirmationFailedError()
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/confirmemail?userId=user-1&token=bad", nil)
	rec := httptest.NewRecorder()

	h.ConfirmEmail(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// TestAuthHandler_ResendConfirmation は再送の各結果を検証する。
func TestAuthHandler_ResendConfirmation(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"unknown user", model.NewUserNotFoundError(), http.StatusNotFound},
		{"already confirmed", model.NewAlreadyConfirmedError(), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthService{
				resendConfirmationFn: func(ctx context.Context, email string) error {
					return tt.serviceErr
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/auth/resend-confirmation-email",
				strings.NewReader(`"a@x.com"`))
			rec := httptest.NewRecorder()

			h.ResendConfirmation(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

// TestAuthHandler_ResendConfirmation_EmptyBody は空ボディの400を検証する。
func TestAuthHandler_ResendConfirmation_EmptyBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/resend-confirmation-email",
		strings.NewReader(`""`))
	rec := httptest.NewRecorder()

	h.ResendConfirmation(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// TestAuthHandler_Login_Success はログイン成功のトークンレスポンスを検証する。
func TestAuthHandler_Login_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "signed-token", nil
		},
	})

	body := `{"email":"a@x.com","password":"Secr3t!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token != "signed-token" {
		t.Errorf("expected signed-token, got %s", resp.Token)
	}
}

// TestAuthHandler_Login_Unauthorized は認証失敗の401を検証する。
func TestAuthHandler_Login_Unauthorized(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
	}{
		{"bad credentials", model.NewInvalidCredentialsError()},
		{"unconfirmed email", model.NewEmailNotConfirmedError()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthService{
				loginFn: func(ctx context.Context, email, password string) (string, error) {
					return "", tt.serviceErr
				},
			})

			body := `{"email":"a@x.com","password":"wrong"}`
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
			rec := httptest.NewRecorder()

			h.Login(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
			if strings.Contains(rec.Body.String(), "token") && tt.serviceErr != nil {
				// エラー時にトークンフィールドを含めない
				t.Errorf("error response should not contain a token: %s", rec.Body.String())
			}
		})
	}
}

// TestHandleServiceError_InternalErrorHidesDetail は内部エラーの詳細が
// レスポンスに漏れないことを検証する。
func TestHandleServiceError_InternalErrorHidesDetail(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "", context.DeadlineExceeded
		},
	})

	body := `{"email":"a@x.com","password":"Secr3t!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "deadline") {
		t.Errorf("internal error detail leaked: %s", rec.Body.String())
	}
}
