// Package sale は販売（注文）管理のドメインロジックを提供する。
package sale

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/renataunda/HuevoPadigal/internal/model"
	"github.com/renataunda/HuevoPadigal/internal/repository"
	"github.com/renataunda/HuevoPadigal/internal/security"
)

// Service は販売管理のサービス層。
type Service struct {
	saleRepo   repository.SaleRepository
	clientRepo repository.ClientRepository
	sanitizer  security.NotesSanitizerService
	now        func() time.Time
}

// NewService はServiceを生成する。
func NewService(saleRepo repository.SaleRepository, clientRepo repository.ClientRepository, sanitizer security.NotesSanitizerService) *Service {
	return &Service{
		saleRepo:   saleRepo,
		clientRepo: clientRepo,
		sanitizer:  sanitizer,
		now:        time.Now,
	}
}

// Create は販売を作成する。
// 合計金額と総重量はサーバー側で計算し、クライアント入力を上書きする。
func (s *Service) Create(ctx context.Context, sale *model.Sale) (*model.Sale, error) {
	if fields := validateSale(sale); len(fields) > 0 {
		return nil, model.NewValidationError(fields)
	}

	client, err := s.clientRepo.FindByID(ctx, sale.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if client == nil {
		return nil, model.NewClientNotFoundError(sale.ClientID)
	}

	now := s.now()
	sale.ID = uuid.New().String()
	sale.Notes = s.sanitizer.Sanitize(sale.Notes)
	sale.CreatedAt = now
	sale.UpdatedAt = now
	if sale.OrderDate.IsZero() {
		sale.OrderDate = now
	}
	computeTotals(sale)

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	slog.Info("sale created",
		slog.String("sale_id", sale.ID),
		slog.String("client_id", sale.ClientID),
		slog.String("product_type", string(sale.ProductType)),
	)

	return sale, nil
}

// GetByID は指定IDの販売を取得する。
func (s *Service) GetByID(ctx context.Context, id string) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	if sale == nil {
		return nil, model.NewSaleNotFoundError(id)
	}
	return sale, nil
}

// List は全販売を返す。
func (s *Service) List(ctx context.Context) ([]*model.Sale, error) {
	sales, err := s.saleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

// Update は販売情報を更新する。合計金額と総重量は再計算する。
func (s *Service) Update(ctx context.Context, sale *model.Sale) (*model.Sale, error) {
	if fields := validateSale(sale); len(fields) > 0 {
		return nil, model.NewValidationError(fields)
	}

	existing, err := s.saleRepo.FindByID(ctx, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	if existing == nil {
		return nil, model.NewSaleNotFoundError(sale.ID)
	}

	sale.Notes = s.sanitizer.Sanitize(sale.Notes)
	sale.CreatedAt = existing.CreatedAt
	sale.UpdatedAt = s.now()
	computeTotals(sale)

	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}

	slog.Info("sale updated", slog.String("sale_id", sale.ID))

	return sale, nil
}

// Delete は指定IDの販売を削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.saleRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	if !deleted {
		return model.NewSaleNotFoundError(id)
	}

	slog.Info("sale deleted", slog.String("sale_id", id))
	return nil
}

// computeTotals は合計金額と総重量を計算して設定する。
func computeTotals(sale *model.Sale) {
	sale.TotalPrice = float64(sale.Quantity) * sale.UnitPrice

	var total float64
	for _, w := range sale.BoxWeights {
		total += w
	}
	sale.TotalWeight = total
}

// validateSale は販売入力のフィールド単位バリデーションを行う。
func validateSale(sale *model.Sale) []model.FieldError {
	var fields []model.FieldError

	if sale.ClientID == "" {
		fields = append(fields, model.FieldError{Field: "clientId", Message: "Client ID is required."})
	}

	if !model.ValidProductType(sale.ProductType) {
		fields = append(fields, model.FieldError{Field: "productType", Message: "Product type must be one of: docena, cartera, caja, otro."})
	}

	if sale.Quantity <= 0 {
		fields = append(fields, model.FieldError{Field: "quantity", Message: "Quantity must be greater than zero."})
	}

	if sale.UnitPrice < 0 {
		fields = append(fields, model.FieldError{Field: "unitPrice", Message: "Unit price must not be negative."})
	}

	if sale.Recurring {
		if sale.Frequency == nil {
			fields = append(fields, model.FieldError{Field: "frequency", Message: "Frequency is required for recurring sales."})
		} else if !model.ValidFrequency(*sale.Frequency) {
			fields = append(fields, model.FieldError{Field: "frequency", Message: "Frequency must be one of: semanal, quincenal, mensual."})
		}
	} else if sale.Frequency != nil {
		fields = append(fields, model.FieldError{Field: "frequency", Message: "Frequency must not be set for non-recurring sales."})
	}

	if sale.PaymentType != nil && !model.ValidPaymentType(*sale.PaymentType) {
		fields = append(fields, model.FieldError{Field: "paymentType", Message: "Payment type must be one of: efectivo, debito, credito, otro."})
	}

	for i, w := range sale.BoxWeights {
		if w < 0 {
			fields = append(fields, model.FieldError{
				Field:   fmt.Sprintf("boxWeights[%d]", i),
				Message: "Box weight must not be negative.",
			})
		}
	}

	return fields
}
