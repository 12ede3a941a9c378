package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Messageはクライアント契約の一部で、内部例外の詳細は決して含めない。
type APIError struct {
	Code     string       // エラーコード
	Message  string       // エラーメッセージ
	Category string       // カテゴリ: auth, validation, client, sale, system
	Fields   []FieldError // フィールド単位のバリデーションエラー（任意）
}

// FieldError はフィールド単位のバリデーションエラーを表す。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeEmailNotConfirmed  = "EMAIL_NOT_CONFIRMED"
	ErrCodeAlreadyConfirmed   = "ALREADY_CONFIRMED"
	ErrCodeConfirmationFailed = "CONFIRMATION_FAILED"
	ErrCodeClientNotFound     = "CLIENT_NOT_FOUND"
	ErrCodeSaleNotFound       = "SALE_NOT_FOUND"
	ErrCodeIDMismatch         = "ID_MISMATCH"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewValidationError はフィールド単位のバリデーションエラーを生成する。
func NewValidationError(fields []FieldError) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  "One or more fields are invalid.",
		Category: "validation",
		Fields:   fields,
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
// ユーザーIDはメッセージに含めない（存在照会の手掛かりを最小化する）。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found",
		Category: "auth",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// メールアドレス不明とパスワード不一致で同一のメッセージを返し、
// ユーザー列挙を防ぐ。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid email or password",
		Category: "auth",
	}
}

// NewEmailNotConfirmedError はメール未確認エラーを生成する。
func NewEmailNotConfirmedError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailNotConfirmed,
		Message:  "Email not confirmed. A new confirmation link has been sent to your email.",
		Category: "auth",
	}
}

// NewAlreadyConfirmedError は確認済みユーザーへのリセンドエラーを生成する。
func NewAlreadyConfirmedError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyConfirmed,
		Message:  "Email is already confirmed",
		Category: "auth",
	}
}

// NewConfirmationFailedError はトークン照合失敗エラーを生成する。
// 失効・使用済み・不一致のいずれであるかは開示しない。
func NewConfirmationFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeConfirmationFailed,
		Message:  "Email confirmation failed",
		Category: "auth",
	}
}

// NewClientNotFoundError は顧客未検出エラーを生成する。
func NewClientNotFoundError(clientID string) *APIError {
	return &APIError{
		Code:     ErrCodeClientNotFound,
		Message:  fmt.Sprintf("Client with ID %s not found", clientID),
		Category: "client",
	}
}

// NewSaleNotFoundError は販売未検出エラーを生成する。
func NewSaleNotFoundError(saleID string) *APIError {
	return &APIError{
		Code:     ErrCodeSaleNotFound,
		Message:  fmt.Sprintf("Sale with ID %s not found", saleID),
		Category: "sale",
	}
}

// NewIDMismatchError はパスとボディのID不一致エラーを生成する。
func NewIDMismatchError(resource string) *APIError {
	return &APIError{
		Code:     ErrCodeIDMismatch,
		Message:  fmt.Sprintf("%s ID mismatch.", resource),
		Category: "validation",
	}
}

// NewInvalidRequestError はリクエスト解析失敗エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  reason,
		Category: "validation",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "You do not have permission to perform this action.",
		Category: "auth",
	}
}

// NewInternalError は内部エラーの汎用レスポンスを生成する。
// 例外の詳細はログにのみ記録し、レスポンスには含めない。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "An unexpected error occurred. Please try again later.",
		Category: "system",
	}
}
