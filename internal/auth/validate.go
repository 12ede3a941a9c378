package auth

import (
	"net/mail"
	"time"
	"unicode"

	"github.com/renataunda/HuevoPadigal/internal/model"
)

// minPasswordLength はパスワードの最小文字数。
const minPasswordLength = 6

// validateRegisterInput は登録入力のフィールド単位バリデーションを行う。
// すべての違反を収集して返し、最初の1件で打ち切らない。
func validateRegisterInput(input RegisterInput) []model.FieldError {
	var fields []model.FieldError

	if input.Email == "" {
		fields = append(fields, model.FieldError{Field: "email", Message: "Email is required."})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		fields = append(fields, model.FieldError{Field: "email", Message: "Email is not a valid email address."})
	}

	fields = append(fields, validatePassword(input.Password)...)

	if input.FullName == "" {
		fields = append(fields, model.FieldError{Field: "fullName", Message: "Full name is required."})
	}

	if input.DateOfBirth.IsZero() {
		fields = append(fields, model.FieldError{Field: "dateOfBirth", Message: "Date of birth is required."})
	} else if input.DateOfBirth.After(time.Now()) {
		fields = append(fields, model.FieldError{Field: "dateOfBirth", Message: "Date of birth must be in the past."})
	}

	return fields
}

// validatePassword はパスワードポリシーを検査する。
// ポリシー: 6文字以上、大文字・小文字・数字・記号を各1文字以上。
func validatePassword(password string) []model.FieldError {
	var fields []model.FieldError

	if len(password) < minPasswordLength {
		fields = append(fields, model.FieldError{
			Field:   "password",
			Message: "Password must be at least 6 characters long.",
		})
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasUpper {
		fields = append(fields, model.FieldError{Field: "password", Message: "Password must contain an uppercase letter."})
	}
	if !hasLower {
		fields = append(fields, model.FieldError{Field: "password", Message: "Password must contain a lowercase letter."})
	}
	if !hasDigit {
		fields = append(fields, model.FieldError{Field: "password", Message: "Password must contain a digit."})
	}
	if !hasSymbol {
		fields = append(fields, model.FieldError{Field: "password", Message: "Password must contain a non-alphanumeric character."})
	}

	return fields
}
