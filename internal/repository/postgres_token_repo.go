package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/renataunda/HuevoPadigal/internal/model"
)

// PostgresTokenRepo はPostgreSQLを使用したメール確認トークンリポジトリ。
type PostgresTokenRepo struct {
	db *sql.DB
}

// NewPostgresTokenRepo はPostgresTokenRepoを生成する。
func NewPostgresTokenRepo(db *sql.DB) *PostgresTokenRepo {
	return &PostgresTokenRepo{db: db}
}

// Create はトークンを作成する。
func (r *PostgresTokenRepo) Create(ctx context.Context, token *model.ConfirmationToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO confirmation_tokens (id, user_id, token_hash, expires_at, consumed_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.ConsumedAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert confirmation token: %w", err)
	}
	return nil
}

// FindActiveByUserAndHash は未使用かつ未失効のトークンをユーザーIDとハッシュで検索する。
// 見つからない場合はnilを返す。
func (r *PostgresTokenRepo) FindActiveByUserAndHash(ctx context.Context, userID, tokenHash string) (*model.ConfirmationToken, error) {
	token := &model.ConfirmationToken{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, consumed_at, created_at
		 FROM confirmation_tokens
		 WHERE user_id = $1 AND token_hash = $2 AND consumed_at IS NULL AND expires_at > now()`,
		userID, tokenHash,
	).Scan(&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.ConsumedAt, &token.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find confirmation token: %w", err)
	}

	return token, nil
}

// Consume はトークンを使用済みにする。
// consumed_at IS NULL条件により、並行する二重照合でも一方のみが成功する。
func (r *PostgresTokenRepo) Consume(ctx context.Context, tokenID string, consumedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE confirmation_tokens SET consumed_at = $2 WHERE id = $1 AND consumed_at IS NULL`,
		tokenID, consumedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to consume confirmation token: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("confirmation token already consumed: %s", tokenID)
	}
	return nil
}

// DeleteExpired は指定時刻より前に失効または使用されたトークンを削除し、件数を返す。
func (r *PostgresTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM confirmation_tokens WHERE expires_at < $1 OR consumed_at < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// compile-time interface check
var _ TokenRepository = (*PostgresTokenRepo)(nil)
