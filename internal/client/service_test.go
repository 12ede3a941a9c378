package client

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/renataunda/HuevoPadigal/internal/model"
	"github.com/renataunda/HuevoPadigal/internal/security"
)

// --- モック ---

type mockClientRepo struct {
	createFn    func(ctx context.Context, c *model.Client) error
	findByIDFn  func(ctx context.Context, id string) (*model.Client, error)
	listFn      func(ctx context.Context) ([]*model.Client, error)
	updateFn    func(ctx context.Context, c *model.Client) error
	deleteFn    func(ctx context.Context, id string) (bool, error)
	setActiveFn func(ctx context.Context, id string, active bool) (bool, error)
}

func (m *mockClientRepo) Create(ctx context.Context, c *model.Client) error {
	return m.createFn(ctx, c)
}
func (m *mockClientRepo) FindByID(ctx context.Context, id string) (*model.Client, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockClientRepo) List(ctx context.Context) ([]*model.Client, error) {
	return m.listFn(ctx)
}
func (m *mockClientRepo) Update(ctx context.Context, c *model.Client) error {
	return m.updateFn(ctx, c)
}
func (m *mockClientRepo) Delete(ctx context.Context, id string) (bool, error) {
	return m.deleteFn(ctx, id)
}
func (m *mockClientRepo) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	return m.setActiveFn(ctx, id, active)
}

func validClient() *model.Client {
	return &model.Client{
		Name:       "Tienda Rosa",
		Email:      "rosa@example.com",
		ClientType: model.ClientTypeMinorista,
		Addresses: []model.ClientAddress{
			{AddressLine: "Av. Central 12", Neighborhood: "Centro", Zone: "1", IsActive: true},
		},
		Phones: []model.ClientPhone{
			{PhoneNumber: "555-0101", IsActive: true},
		},
	}
}

// --- テスト ---

// TestService_Create は顧客作成時のID採番とタイムスタンプ設定を検証する。
func TestService_Create(t *testing.T) {
	var stored *model.Client
	repo := &mockClientRepo{
		createFn: func(ctx context.Context, c *model.Client) error {
			stored = c
			return nil
		},
	}
	svc := NewService(repo, security.NewNotesSanitizer())

	created, err := svc.Create(context.Background(), validClient())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == "" {
		t.Error("client ID should be assigned")
	}
	if created.Addresses[0].ID == "" || created.Phones[0].ID == "" {
		t.Error("contact IDs should be assigned")
	}
	if created.Addresses[0].ClientID != created.ID {
		t.Error("address should reference the client")
	}
	if created.CreatedAt.IsZero() || created.RegistrationDate.IsZero() {
		t.Error("timestamps should be set")
	}
	if stored != created {
		t.Error("created client should be passed to the repository")
	}
}

// TestService_Create_SanitizesNotes は備考のサニタイズを検証する。
func TestService_Create_SanitizesNotes(t *testing.T) {
	repo := &mockClientRepo{
		createFn: func(ctx context.Context, c *model.Client) error {
			return nil
		},
	}
	svc := NewService(repo, security.NewNotesSanitizer())

	c := validClient()
	c.Notes = `<p>Buen cliente</p><script>alert("x")</script>`

	created, err := svc.Create(context.Background(), c)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if strings.Contains(created.Notes, "<script>") {
		t.Errorf("script tag should be stripped: %s", created.Notes)
	}
	if !strings.Contains(created.Notes, "<p>Buen cliente</p>") {
		t.Errorf("allowed tags should survive: %s", created.Notes)
	}
}

// TestService_Create_Validation はバリデーション失敗を検証する。
func TestService_Create_Validation(t *testing.T) {
	repo := &mockClientRepo{
		createFn: func(ctx context.Context, c *model.Client) error {
			t.Fatal("repository must not be called on validation failure")
			return nil
		},
	}
	svc := NewService(repo, security.NewNotesSanitizer())

	c := &model.Client{
		Name:       "",
		ClientType: "wholesale", // 未知の区分
		Phones:     []model.ClientPhone{{PhoneNumber: ""}},
	}

	_, err := svc.Create(context.Background(), c)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
		t.Fatalf("expected validation error, got %v", err)
	}

	seen := map[string]bool{}
	for _, f := range apiErr.Fields {
		seen[f.Field] = true
	}
	for _, want := range []string{"name", "email", "clientType", "phoneNumbers[0].phoneNumber"} {
		if !seen[want] {
			t.Errorf("expected violation for %q, got %v", want, apiErr.Fields)
		}
	}
}

// TestService_GetByID_NotFound は未知IDのエラーを検証する。
func TestService_GetByID_NotFound(t *testing.T) {
	repo := &mockClientRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Client, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, security.NewNotesSanitizer())

	_, err := svc.GetByID(context.Background(), "nope")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeClientNotFound {
		t.Fatalf("expected %s, got %v", model.ErrCodeClientNotFound, err)
	}
}

// TestService_Update_NotFound は存在しない顧客の更新エラーを検証する。
func TestService_Update_NotFound(t *testing.T) {
	repo := &mockClientRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Client, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, security.NewNotesSanitizer())

	c := validClient()
	c.ID = "nope"

	_, err := svc.Update(context.Background(), c)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeClientNotFound {
		t.Fatalf("expected %s, got %v", model.ErrCodeClientNotFound, err)
	}
}

// TestService_Delete はリポジトリの結果に応じた分岐を検証する。
func TestService_Delete(t *testing.T) {
	deleted := true
	repo := &mockClientRepo{
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			return deleted, nil
		},
	}
	svc := NewService(repo, security.NewNotesSanitizer())

	if err := svc.Delete(context.Background(), "client-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	deleted = false
	err := svc.Delete(context.Background(), "client-1")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeClientNotFound {
		t.Fatalf("expected %s, got %v", model.ErrCodeClientNotFound, err)
	}
}

// TestService_SetActive は有効フラグ更新の分岐を検証する。
func TestService_SetActive(t *testing.T) {
	var gotActive bool
	repo := &mockClientRepo{
		setActiveFn: func(ctx context.Context, id string, active bool) (bool, error) {
			gotActive = active
			return true, nil
		},
	}
	svc := NewService(repo, security.NewNotesSanitizer())

	if err := svc.SetActive(context.Background(), "client-1", false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if gotActive {
		t.Error("expected active=false to be forwarded")
	}
}
