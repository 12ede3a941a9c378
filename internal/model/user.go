// Package model はドメインモデルを定義する。
package model

import "time"

// デフォルトで付与されるロールと管理者ロール。
const (
	RoleViewer = "viewer"
	RoleAdmin  = "admin"
)

// User はメール/パスワード認証のユーザーを表す。
// EmailはログインIDを兼ねており、全ユーザーで一意。
type User struct {
	ID             string
	Email          string
	PasswordHash   string
	FullName       string
	DateOfBirth    time.Time
	EmailConfirmed bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ConfirmationToken はメールアドレス確認用のワンタイムトークンを表す。
// 平文のシークレットは保存せず、SHA-256ハッシュのみ永続化する。
// ConsumedAtがnilでなければ使用済み。同一ユーザーに複数の未使用トークンが
// 併存することを許容する（リセンド時に旧トークンを失効させない）。
type ConfirmationToken struct {
	ID         string
	UserID     string
	TokenHash  string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// IsActive はトークンが未使用かつ未失効であればtrueを返す。
func (t *ConfirmationToken) IsActive(now time.Time) bool {
	return t.ConsumedAt == nil && now.Before(t.ExpiresAt)
}
