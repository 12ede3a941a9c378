package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/renataunda/HuevoPadigal/internal/auth"
	"github.com/renataunda/HuevoPadigal/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Register はユーザーを登録し、確認メールを送信する。
	Register(ctx context.Context, input auth.RegisterInput) error
	// ConfirmEmail は確認トークンを照合し、ユーザーを確認済みにする。
	ConfirmEmail(ctx context.Context, userID, rawToken string) error
	// ResendConfirmation は未確認ユーザーへ確認メールを再送する。
	ResendConfirmation(ctx context.Context, email string) error
	// Login は資格情報を検証し、ベアラートークンを発行する。
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthHandler は認証フローのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse はログイン成功時のレスポンス。
type loginResponse struct {
	Token string `json:"token"`
}

// Register はユーザー登録を処理する。
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Request body could not be parsed."))
		return
	}

	input := auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	}

	if req.DateOfBirth != "" {
		dob, err := parseDate(req.DateOfBirth)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError([]model.FieldError{
				{Field: "dateOfBirth", Message: "Date of birth must be a valid date."},
			}))
			return
		}
		input.DateOfBirth = dob
	}

	if err := h.service.Register(r.Context(), input); err != nil {
		handleServiceError(w, err)
		return
	}

	writeText(w, http.StatusOK,
		"User registered successfully. Please check your email to confirm your account.")
}

// ConfirmEmail は確認リンクのコールバックを処理する。
// GET /api/auth/confirmemail?userId=&token=
// ユーザー未検出を含め、失敗はすべて400で返す（確認リンクの照会は404を返さない）。
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	rawToken := r.URL.Query().Get("token")

	if userID == "" || rawToken == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("userId and token are required."))
		return
	}

	if err := h.service.ConfirmEmail(r.Context(), userID, rawToken); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUserNotFound {
			writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
			return
		}
		handleServiceError(w, err)
		return
	}

	writeText(w, http.StatusOK, "Email confirmed successfully")
}

// ResendConfirmation は確認メールの再送を処理する。
// POST /api/auth/resend-confirmation-email
// ボディはメールアドレスのJSON文字列（例: "user@example.com"）。
func (h *AuthHandler) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
	var email string
	if err := json.NewDecoder(r.Body).Decode(&email); err != nil || email == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Request body must be an email address."))
		return
	}

	if err := h.service.ResendConfirmation(r.Context(), email); err != nil {
		handleServiceError(w, err)
		return
	}

	writeText(w, http.StatusOK,
		"Confirmation email sent. Please check your inbox.")
}

// Login はログインを処理する。
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Request body could not be parsed."))
		return
	}

	signed, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: signed})
}

// parseDate は日付文字列を解釈する。日付のみとRFC 3339の両形式を受け付ける。
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
