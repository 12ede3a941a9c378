// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/renataunda/HuevoPadigal/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーと初期ロールを同一トランザクションで作成する。
	// メールアドレスが既に使用されている場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User, roles []string) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// MarkEmailConfirmed はユーザーのメール確認フラグを立てる。
	MarkEmailConfirmed(ctx context.Context, userID string) error

	// AddRole はユーザーにロールを付与する。付与済みの場合は何もしない。
	AddRole(ctx context.Context, userID, role string) error

	// RolesByUserID はユーザーに付与された全ロールを返す。
	RolesByUserID(ctx context.Context, userID string) ([]string, error)
}

// TokenRepository はメール確認トークンの永続化インターフェース。
type TokenRepository interface {
	// Create はトークンを作成する。
	Create(ctx context.Context, token *model.ConfirmationToken) error

	// FindActiveByUserAndHash は未使用かつ未失効のトークンをユーザーIDとハッシュで検索する。
	// 見つからない場合はnilを返す。
	FindActiveByUserAndHash(ctx context.Context, userID, tokenHash string) (*model.ConfirmationToken, error)

	// Consume はトークンを使用済みにする。既に使用済みの場合はエラーを返す。
	Consume(ctx context.Context, tokenID string, consumedAt time.Time) error

	// DeleteExpired は指定時刻より前に失効または使用されたトークンを削除し、件数を返す。
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ClientRepository は顧客データの永続化インターフェース。
type ClientRepository interface {
	// Create は顧客と住所・電話番号を同一トランザクションで作成する。
	Create(ctx context.Context, client *model.Client) error

	// FindByID は指定IDの顧客を住所・電話番号付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Client, error)

	// List は全顧客を住所・電話番号付きで返す。
	List(ctx context.Context) ([]*model.Client, error)

	// Update は顧客情報を更新し、住所・電話番号を入れ替える。
	Update(ctx context.Context, client *model.Client) error

	// Delete は指定IDの顧客を削除する。住所・電話番号はCASCADE削除される。
	// 顧客が存在しない場合はfalseを返す。
	Delete(ctx context.Context, id string) (bool, error)

	// SetActive は顧客の有効フラグを更新する。顧客が存在しない場合はfalseを返す。
	SetActive(ctx context.Context, id string, active bool) (bool, error)
}

// SaleRepository は販売データの永続化インターフェース。
type SaleRepository interface {
	// Create は販売を作成する。
	Create(ctx context.Context, sale *model.Sale) error

	// FindByID は指定IDの販売を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Sale, error)

	// List は全販売を返す。
	List(ctx context.Context) ([]*model.Sale, error)

	// Update は販売情報を更新する。
	Update(ctx context.Context, sale *model.Sale) error

	// Delete は指定IDの販売を削除する。販売が存在しない場合はfalseを返す。
	Delete(ctx context.Context, id string) (bool, error)
}
