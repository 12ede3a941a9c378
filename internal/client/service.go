// Package client は顧客管理のドメインロジックを提供する。
package client

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

// Service は顧客管理のサービス層。
type Service struct {
	clientRepo repository.ClientRepository
	sanitizer  security.NotesSanitizerService
	now        func() time.Time
}

// NewService はServiceを生成する。
func NewService(clientRepo repository.ClientRepository, sanitizer security.NotesSanitizerService) *Service {
	return &Service{
		clientRepo: clientRepo,
		sanitizer:  sanitizer,
		now:        time.Now,
	}
}

// Create は顧客を作成する。住所・電話番号にもIDを採番する。
// 備考は保存前にサニタイズする。
func (s *Service) Create(ctx context.Context, c *model.Client) (*model.Client, error) {
	if fields := validateClient(c); len(fields) > 0 {
		return nil, model.NewValidationError(fields)
	}

	now := s.now()
	c.ID = uuid.New().String()
	c.Notes = s.sanitizer.Sanitize(c.Notes)
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.RegistrationDate.IsZero() {
		c.RegistrationDate = now
	}
	assignContactIDs(c)

	if err := s.clientRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	slog.Info("client created",
		slog.String("client_id", c.ID),
		slog.String("client_type", string(c.ClientType)),
	)

	return c, nil
}

// GetByID は指定IDの顧客を取得する。
func (s *Service) GetByID(ctx context.Context, id string) (*model.Client, error) {
	c, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if c == nil {
		return nil, model.NewClientNotFoundError(id)
	}
	return c, nil
}

// List は全顧客を返す。
func (s *Service) List(ctx context.Context) ([]*model.Client, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// Update は顧客情報を更新する。住所・電話番号は全置換となる。
func (s *Service) Update(ctx context.Context, c *model.Client) (*model.Client, error) {
	if fields := validateClient(c); len(fields) > 0 {
		return nil, model.NewValidationError(fields)
	}

	existing, err := s.clientRepo.FindByID(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if existing == nil {
		return nil, model.NewClientNotFoundError(c.ID)
	}

	c.Notes = s.sanitizer.Sanitize(c.Notes)
	c.CreatedAt = existing.CreatedAt
	assignContactIDs(c)

	if err := s.clientRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	slog.Info("client updated", slog.String("client_id", c.ID))

	return s.GetByID(ctx, c.ID)
}

// Delete は指定IDの顧客を削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.clientRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if !deleted {
		return model.NewClientNotFoundError(id)
	}

	slog.Info("client deleted", slog.String("client_id", id))
	return nil
}

// SetActive は顧客の有効フラグを切り替える。
func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	updated, err := s.clientRepo.SetActive(ctx, id, active)
	if err != nil {
		return fmt.Errorf("failed to update client active flag: %w", err)
	}
	if !updated {
		return model.NewClientNotFoundError(id)
	}

	slog.Info("client active flag updated",
		slog.String("client_id", id),
		slog.Bool("active", active),
	)
	return nil
}

// validateClient は顧客入力のフィールド単位バリデーションを行う。
func validateClient(c *model.Client) []model.FieldError {
	var fields []model.FieldError

	if c.Name == "" {
		fields = append(fields, model.FieldError{Field: "name", Message: "Name is required."})
	} else if len(c.Name) > 100 {
		fields = append(fields, model.FieldError{Field: "name", Message: "Name must be 100 characters or fewer."})
	}

	if c.Email == "" {
		fields = append(fields, model.FieldError{Field: "email", Message: "Email is required."})
	}

	if !model.ValidClientType(c.ClientType) {
		fields = append(fields, model.FieldError{Field: "clientType", Message: "Client type must be one of: mayorista, minorista, otro."})
	}

	for i, a := range c.Addresses {
		if a.AddressLine == "" {
			fields = append(fields, model.FieldError{
				Field:   fmt.Sprintf("addresses[%d].addressLine", i),
				Message: "Address line is required.",
			})
		}
	}

	for i, p := range c.Phones {
		if p.PhoneNumber == "" {
			fields = append(fields, model.FieldError{
				Field:   fmt.Sprintf("phoneNumbers[%d].phoneNumber", i),
				Message: "Phone number is required.",
			})
		} else if len(p.PhoneNumber) > 20 {
			fields = append(fields, model.FieldError{
				Field:   fmt.Sprintf("phoneNumbers[%d].phoneNumber", i),
				Message: "Phone number must be 20 characters or fewer.",
			})
		}
	}

	return fields
}

// assignContactIDs はIDのない住所・電話番号に新しいIDを採番する。
func assignContactIDs(c *model.Client) {
	for i := range c.Addresses {
		if c.Addresses[i].ID == "" {
			c.Addresses[i].ID = uuid.New().String()
		}
		c.Addresses[i].ClientID = c.ID
	}
	for i := range c.Phones {
		if c.Phones[i].ID == "" {
			c.Phones[i].ID = uuid.New().String()
		}
		c.Phones[i].ClientID = c.ID
	}
}
