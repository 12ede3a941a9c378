// Package token はJWTベアラートークンの発行と検証を提供する。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/renataunda/HuevoPadigal/internal/model"
)

// TokenTTL は発行するトークンの有効期間。リフレッシュ機構はなく、
// 失効後は再ログインのみが再取得の手段となる。
const TokenTTL = time.Hour

// ErrEmptySigningKey は署名鍵が未設定の場合に返される。
// 署名なし・弱署名のトークンを発行しないため、構築時点で失敗させる。
var ErrEmptySigningKey = errors.New("signing key must not be empty")

// ErrInvalidToken は検証に失敗したトークンを表す。
// 失効・改ざん・署名方式不一致のいずれであるかは区別しない。
var ErrInvalidToken = errors.New("invalid token")

// Claims はアクセストークンのクレームを表す。
// subにはログインID（メールアドレス）を設定する。
type Claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Roles []string `json:"roles,omitempty"`
}

// Service はHMAC-SHA256で署名されたJWTを発行・検証する。
// issuerとaudienceには同一の設定値を使用する。
type Service struct {
	signingKey []byte
	issuer     string
	now        func() time.Time
}

// NewService はServiceを生成する。署名鍵が空の場合はエラーを返す。
func NewService(signingKey []byte, issuer string) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrEmptySigningKey
	}
	if issuer == "" {
		return nil, errors.New("issuer must not be empty")
	}
	return &Service{
		signingKey: signingKey,
		issuer:     issuer,
		now:        time.Now,
	}, nil
}

// Issue は検証済みユーザーとそのロールから署名付きトークンを生成する。
// jtiには毎回新しいUUIDを割り当て、同一瞬間に発行された2つのトークンが
// ビット単位で一致しないことを保証する。
func (s *Service) Issue(user *model.User, roles []string) (string, error) {
	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.Email,
			Audience:  jwt.ClaimStrings{s.issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			ID:        uuid.New().String(),
		},
		Email: user.Email,
		Roles: roles,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークン文字列を検証し、クレームを返す。
// HMAC以外の署名方式、失効、issuer/audience不一致はすべてErrInvalidTokenとなる。
func (s *Service) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.issuer),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// HasRole はクレームに指定ロールが含まれていればtrueを返す。
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
