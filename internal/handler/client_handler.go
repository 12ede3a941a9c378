package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/renataunda/HuevoPadigal/internal/model"
)

// ClientServiceInterface は顧客ハンドラーが必要とするサービスインターフェース。
type ClientServiceInterface interface {
	// Create は顧客を作成する。
	Create(ctx context.Context, client *model.Client) (*model.Client, error)
	// GetByID は指定IDの顧客を取得する。
	GetByID(ctx context.Context, id string) (*model.Client, error)
	// List は全顧客を返す。
	List(ctx context.Context) ([]*model.Client, error)
	// Update は顧客情報を更新する。
	Update(ctx context.Context, client *model.Client) (*model.Client, error)
	// Delete は指定IDの顧客を削除する。
	Delete(ctx context.Context, id string) error
	// SetActive は顧客の有効フラグを切り替える。
	SetActive(ctx context.Context, id string, active bool) error
}

// ClientHandler は顧客管理のHTTPハンドラー。
type ClientHandler struct {
	service ClientServiceInterface
}

// NewClientHandler はClientHandlerを生成する。
func NewClientHandler(service ClientServiceInterface) *ClientHandler {
	return &ClientHandler{service: service}
}

// clientAddressPayload は住所のリクエスト／レスポンス表現。
type clientAddressPayload struct {
	ID           string `json:"id,omitempty"`
	AddressLine  string `json:"addressLine"`
	Neighborhood string `json:"neighborhood"`
	Zone         string `json:"zone"`
	IsActive     bool   `json:"isActive"`
}

// clientPhonePayload は電話番号のリクエスト／レスポンス表現。
type clientPhonePayload struct {
	ID          string `json:"id,omitempty"`
	PhoneNumber string `json:"phoneNumber"`
	IsActive    bool   `json:"isActive"`
}

// clientRequest は顧客作成・更新リクエストのボディ。
type clientRequest struct {
	ID         string                 `json:"id,omitempty"`
	Name       string                 `json:"name"`
	Email      string                 `json:"email"`
	IsActive   *bool                  `json:"isActive"`
	Notes      string                 `json:"notes"`
	ClientType string                 `json:"clientType"`
	Addresses  []clientAddressPayload `json:"addresses"`
	Phones     []clientPhonePayload   `json:"phoneNumbers"`
}

// clientResponse は顧客情報のAPIレスポンス。
type clientResponse struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Email            string                 `json:"email"`
	RegistrationDate time.Time              `json:"registrationDate"`
	IsActive         bool                   `json:"isActive"`
	Notes            string                 `json:"notes"`
	ClientType       string                 `json:"clientType"`
	Addresses        []clientAddressPayload `json:"addresses"`
	Phones           []clientPhonePayload   `json:"phoneNumbers"`
}

// CreateClient は顧客作成を処理する。
// POST /api/clients
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Request body could not be parsed."))
		return
	}

	created, err := h.service.Create(r.Context(), toClientModel(&req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toClientResponse(created))
}

// GetClient は顧客詳細を取得する。
// GET /api/clients/{id}
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toClientResponse(c))
}

// ListClients は顧客一覧を取得する。
// GET /api/clients
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		resp = append(resp, toClientResponse(c))
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateClient は顧客更新を処理する。
// PUT /api/clients/{id}
// パスとボディのIDが一致しない場合は400を返す。
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Request body could not be parsed."))
		return
	}

	if req.ID != "" && req.ID != id {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewIDMismatchError("Client"))
		return
	}

	c := toClientModel(&req)
	c.ID = id

	updated, err := h.service.Update(r.Context(), c)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toClientResponse(updated))
}

// DeleteClient は顧客削除を処理する。
// DELETE /api/clients/{id}
func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ActivateClient は顧客を有効化する。
// PUT /api/clients/{id}/activate
func (h *ClientHandler) ActivateClient(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// DeactivateClient は顧客を無効化する。
// PUT /api/clients/{id}/deactivate
func (h *ClientHandler) DeactivateClient(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *ClientHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	if err := h.service.SetActive(r.Context(), chi.URLParam(r, "id"), active); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ヘルパー関数 ---

// toClientModel はリクエストからmodel.Clientに変換する。
func toClientModel(req *clientRequest) *model.Client {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	c := &model.Client{
		ID:         req.ID,
		Name:       req.Name,
		Email:      req.Email,
		IsActive:   active,
		Notes:      req.Notes,
		ClientType: model.ClientType(req.ClientType),
	}

	for _, a := range req.Addresses {
		c.Addresses = append(c.Addresses, model.ClientAddress{
			ID:           a.ID,
			AddressLine:  a.AddressLine,
			Neighborhood: a.Neighborhood,
			Zone:         a.Zone,
			IsActive:     a.IsActive,
		})
	}
	for _, p := range req.Phones {
		c.Phones = append(c.Phones, model.ClientPhone{
			ID:          p.ID,
			PhoneNumber: p.PhoneNumber,
			IsActive:    p.IsActive,
		})
	}

	return c
}

// toClientResponse はmodel.ClientからAPIレスポンスに変換する。
func toClientResponse(c *model.Client) clientResponse {
	resp := clientResponse{
		ID:               c.ID,
		Name:             c.Name,
		Email:            c.Email,
		RegistrationDate: c.RegistrationDate,
		IsActive:         c.IsActive,
		Notes:            c.Notes,
		ClientType:       string(c.ClientType),
		Addresses:        []clientAddressPayload{},
		Phones:           []clientPhonePayload{},
	}

	for _, a := range c.Addresses {
		resp.Addresses = append(resp.Addresses, clientAddressPayload{
			ID:           a.ID,
			AddressLine:  a.AddressLine,
			Neighborhood: a.Neighborhood,
			Zone:         a.Zone,
			IsActive:     a.IsActive,
		})
	}
	for _, p := range c.Phones {
		resp.Phones = append(resp.Phones, clientPhonePayload{
			ID:          p.ID,
			PhoneNumber: p.PhoneNumber,
			IsActive:    p.IsActive,
		})
	}

	return resp
}
