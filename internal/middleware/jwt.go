// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/renataunda/HuevoPadigal/internal/token"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// コンテキストキーの定義。
var (
	subjectContextKey = contextKey("subject")
	rolesContextKey   = contextKey("roles")
)

// TokenVerifier はベアラートークンの検証に必要なインターフェース。
// token.Serviceの部分集合として定義する。
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// NewJWTMiddleware はAuthorizationヘッダーのベアラートークンを検証する
// ミドルウェアを返す。検証済みのサブジェクト（メールアドレス）とロールを
// リクエストコンテキストに注入する。
// ヘッダー欠落・形式不正・検証失敗はすべて401 Unauthorizedを返す。
func NewJWTMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(strings.TrimPrefix(header, prefix))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), subjectContextKey, claims.Subject)
			ctx = context.WithValue(ctx, rolesContextKey, claims.Roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewRoleMiddleware は指定ロールを持たないリクエストを403で拒否する
// ミドルウェアを返す。JWTミドルウェアの後段に配置すること。
func NewRoleMiddleware(role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roles, err := RolesFromContext(r.Context())
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			for _, got := range roles {
				if got == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, "forbidden", http.StatusForbidden)
		})
	}
}

// SubjectFromContext はリクエストコンテキストから認証済みサブジェクトを取得する。
// JWTミドルウェアを通過したリクエストでのみ有効。
func SubjectFromContext(ctx context.Context) (string, error) {
	subject, ok := ctx.Value(subjectContextKey).(string)
	if !ok || subject == "" {
		return "", fmt.Errorf("subject not found in context")
	}
	return subject, nil
}

// RolesFromContext はリクエストコンテキストから認証済みロールを取得する。
func RolesFromContext(ctx context.Context) ([]string, error) {
	roles, ok := ctx.Value(rolesContextKey).([]string)
	if !ok {
		return nil, fmt.Errorf("roles not found in context")
	}
	return roles, nil
}

// ContextWithIdentity はコンテキストにサブジェクトとロールを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, subject string, roles []string) context.Context {
	ctx = context.WithValue(ctx, subjectContextKey, subject)
	return context.WithValue(ctx, rolesContextKey, roles)
}
