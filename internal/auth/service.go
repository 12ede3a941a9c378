// Package auth は登録・メール確認・ログインの認証フローを提供する。
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/renataunda/HuevoPadigal/internal/mailer"
	"github.com/renataunda/HuevoPadigal/internal/model"
	"github.com/renataunda/HuevoPadigal/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost はパスワードハッシュの計算コスト。
const bcryptCost = bcrypt.DefaultCost

// TokenIssuer は検証済みユーザーへのベアラートークン発行インターフェース。
type TokenIssuer interface {
	Issue(user *model.User, roles []string) (string, error)
}

// MetricsRecorder は認証イベントのメトリクス記録インターフェース。
// nilの場合は記録しない。
type MetricsRecorder interface {
	RecordRegistration()
	RecordLogin(outcome string)
	RecordConfirmationEmailSent()
	RecordEmailConfirmed()
}

// ログイン結果のメトリクスラベル。
const (
	LoginOutcomeSuccess     = "success"
	LoginOutcomeUnconfirmed = "unconfirmed"
	LoginOutcomeFailure     = "failure"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	BaseURL  string        // 確認リンクのベースURL
	TokenTTL time.Duration // 確認トークンの有効期間
}

// Service は認証フローのビジネスロジックを提供する。
// 依存はすべてコンストラクタで注入し、グローバルなサービスロケータは使わない。
type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	mailer    mailer.Mailer
	issuer    TokenIssuer
	metrics   MetricsRecorder
	config    ServiceConfig
	now       func() time.Time
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	m mailer.Mailer,
	issuer TokenIssuer,
	metrics MetricsRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    m,
		issuer:    issuer,
		metrics:   metrics,
		config:    config,
		now:       time.Now,
	}
}

// RegisterInput はユーザー登録の入力を表す。
type RegisterInput struct {
	Email       string
	Password    string
	FullName    string
	DateOfBirth time.Time
}

// Register はユーザーを登録し、確認メールを1通送信する。
// バリデーション失敗時はフィールド単位のエラーを返す。
// ユーザー作成後のメール送信失敗はエラーとして伝播するが、
// 作成済みユーザーはロールバックしない（リセンドで回復可能なため）。
func (s *Service) Register(ctx context.Context, input RegisterInput) error {
	if fields := validateRegisterInput(input); len(fields) > 0 {
		return model.NewValidationError(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &model.User{
		ID:             uuid.New().String(),
		Email:          input.Email,
		PasswordHash:   string(hash),
		FullName:       input.FullName,
		DateOfBirth:    input.DateOfBirth,
		EmailConfirmed: false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.userRepo.Create(ctx, user, []string{model.RoleViewer}); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.NewValidationError([]model.FieldError{
				{Field: "email", Message: "Email is already taken."},
			})
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	if s.metrics != nil {
		s.metrics.RecordRegistration()
	}

	if err := s.sendConfirmationEmail(ctx, user); err != nil {
		return fmt.Errorf("user created but confirmation email failed: %w", err)
	}

	return nil
}

// ConfirmEmail は確認リンクのコールバックを処理し、ユーザーを確認済みにする。
// トークン不一致・失効・使用済みはすべて同一のエラーで返し、理由を開示しない。
// 確認済みユーザーでも未使用の有効トークンであれば照合は成功する（冪等）。
func (s *Service) ConfirmEmail(ctx context.Context, userID, rawToken string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	tok, err := s.tokenRepo.FindActiveByUserAndHash(ctx, userID, hashToken(rawToken))
	if err != nil {
		return fmt.Errorf("failed to find confirmation token: %w", err)
	}
	if tok == nil {
		return model.NewConfirmationFailedError()
	}

	if err := s.tokenRepo.Consume(ctx, tok.ID, s.now()); err != nil {
		// 並行照合で先を越された場合もここに入る。理由は開示しない。
		slog.Warn("confirmation token consume failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return model.NewConfirmationFailedError()
	}

	if !user.EmailConfirmed {
		if err := s.userRepo.MarkEmailConfirmed(ctx, userID); err != nil {
			return fmt.Errorf("failed to mark email confirmed: %w", err)
		}
	}

	slog.Info("email confirmed", slog.String("user_id", userID))
	if s.metrics != nil {
		s.metrics.RecordEmailConfirmed()
	}

	return nil
}

// ResendConfirmation は未確認ユーザーへ確認メールを再送する。
// 確認済みユーザーにはメールを送らず、確認済みエラーを返す。
func (s *Service) ResendConfirmation(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}
	if user.EmailConfirmed {
		return model.NewAlreadyConfirmedError()
	}

	if err := s.sendConfirmationEmail(ctx, user); err != nil {
		return fmt.Errorf("failed to resend confirmation email: %w", err)
	}

	return nil
}

// Login は資格情報を検証し、ベアラートークンを発行する。
// メールアドレス不明とパスワード不一致は同一のエラーを返す。
// 資格情報が正しく未確認の場合は、確認メールを再送したうえで
// 未確認エラーを返す（トークンは発行しない）。
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		s.recordLogin(LoginOutcomeFailure)
		return "", model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordLogin(LoginOutcomeFailure)
		return "", model.NewInvalidCredentialsError()
	}

	if !user.EmailConfirmed {
		// 失敗応答に新しいトークンの生成とメール送信が伴う。
		// 既存クライアントとの互換性のため、この挙動は維持する。
		if err := s.sendConfirmationEmail(ctx, user); err != nil {
			slog.Error("failed to resend confirmation email on login",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
		s.recordLogin(LoginOutcomeUnconfirmed)
		return "", model.NewEmailNotConfirmedError()
	}

	roles, err := s.userRepo.RolesByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load roles: %w", err)
	}

	signed, err := s.issuer.Issue(user, roles)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	s.recordLogin(LoginOutcomeSuccess)

	return signed, nil
}

// sendConfirmationEmail は新しい確認トークンを生成し、確認リンクを送信する。
// 既存の未使用トークンは失効させない（並行リセンドの許容）。
func (s *Service) sendConfirmationEmail(ctx context.Context, user *model.User) error {
	rawToken, err := generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate confirmation token: %w", err)
	}

	now := s.now()
	tok := &model.ConfirmationToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: now.Add(s.config.TokenTTL),
		CreatedAt: now,
	}

	if err := s.tokenRepo.Create(ctx, tok); err != nil {
		return fmt.Errorf("failed to store confirmation token: %w", err)
	}

	link := fmt.Sprintf("%s/api/auth/confirmemail?userId=%s&token=%s",
		s.config.BaseURL, url.QueryEscape(user.ID), url.QueryEscape(rawToken))

	body := fmt.Sprintf(
		`Please confirm your account by clicking this link: <a href="%s">link</a>`, link)

	if err := s.mailer.SendEmail(ctx, user.Email, "Confirm your email", body); err != nil {
		return err
	}

	slog.Info("confirmation email dispatched", slog.String("user_id", user.ID))
	if s.metrics != nil {
		s.metrics.RecordConfirmationEmailSent()
	}

	return nil
}

func (s *Service) recordLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordLogin(outcome)
	}
}

// generateToken は暗号的に安全な不透明トークンを生成する。
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashToken はトークンの保存用SHA-256ハッシュを返す。
// 平文のトークンはメール以外の経路に出さない。
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
