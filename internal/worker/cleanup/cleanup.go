// Package cleanup はメール確認トークンの自動削除ジョブを提供する。
// 失効済みまたは使用済みのトークンを日次バッチで削除し、
// confirmation_tokensテーブルの無制限な肥大化を防ぐ。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/renataunda/HuevoPadigal/internal/repository"
)

// CleanupJob は不要になった確認トークンの自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	tokenRepo repository.TokenRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewCleanupJob は新しいCleanupJobを生成する。
func NewCleanupJob(tokenRepo repository.TokenRepository, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		tokenRepo: tokenRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Run は現在時刻より前に失効または使用されたトークンを削除する。
// 未失効・未使用のトークンには影響しない。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := j.tokenRepo.DeleteExpired(ctx, j.now())
	if err != nil {
		j.logger.Error("確認トークンのクリーンアップに失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("確認トークンのクリーンアップに失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("確認トークンのクリーンアップが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// Start は起動直後に1回実行し、以降は指定間隔で定期実行する。
// コンテキストのキャンセルで停止する。
func (j *CleanupJob) Start(ctx context.Context, interval time.Duration) {
	if err := j.Run(ctx); err != nil {
		j.logger.Error("cleanup job failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("cleanup job failed", slog.String("error", err.Error()))
			}
		}
	}
}
