package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/renataunda/HuevoPadigal/internal/middleware"
	"github.com/renataunda/HuevoPadigal/internal/model"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// メトリクス公開用ハンドラー（nilの場合は/metricsを公開しない）
	MetricsHandler http.Handler

	// ドメインサービス
	AuthService   AuthServiceInterface
	ClientService ClientServiceInterface
	SaleService   SaleServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → （認証ルートはIPレート制限、
//	保護ルートはJWT → サブジェクト単位レート制限）
//
// /api/sales 以下は admin ロールが必要。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}

	authHandler := NewAuthHandler(deps.AuthService)
	clientHandler := NewClientHandler(deps.ClientService)
	saleHandler := NewSaleHandler(deps.SaleService)

	// --- 認証不要のルート ---

	r.Get("/health", newHealthHandler(deps.HealthChecker))

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// 認証フロー（IP単位レート制限を適用）
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.AuthMiddleware())

		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Get("/confirmemail", authHandler.ConfirmEmail)
			r.Post("/resend-confirmation-email", authHandler.ResendConfirmation)
			r.Post("/login", authHandler.Login)
		})
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: JWT → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewJWTMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 顧客管理
		r.Route("/api/clients", func(r chi.Router) {
			r.Get("/", clientHandler.ListClients)
			r.Post("/", clientHandler.CreateClient)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", clientHandler.GetClient)
				r.Put("/", clientHandler.UpdateClient)
				r.Delete("/", clientHandler.DeleteClient)
				r.Put("/activate", clientHandler.ActivateClient)
				r.Put("/deactivate", clientHandler.DeactivateClient)
			})
		})

		// 販売管理（adminロールが必要）
		r.Route("/api/sales", func(r chi.Router) {
			r.Use(middleware.NewRoleMiddleware(model.RoleAdmin))

			r.Get("/", saleHandler.ListSales)
			r.Post("/", saleHandler.CreateSale)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", saleHandler.GetSale)
				r.Put("/", saleHandler.UpdateSale)
				r.Delete("/", saleHandler.DeleteSale)
			})
		})
	})

	return r
}

// newHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
