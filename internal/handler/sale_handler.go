package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/renataunda/HuevoPadigal/internal/model"
)

// SaleServiceInterface は販売ハンドラーが必要とするサービスインターフェース。
type SaleServiceInterface interface {
	// Create は販売を作成する。
	Create(ctx context.Context, sale *model.Sale) (*model.Sale, error)
	// GetByID は指定IDの販売を取得する。
	GetByID(ctx context.Context, id string) (*model.Sale, error)
	// List は全販売を返す。
	List(ctx context.Context) ([]*model.Sale, error)
	// Update は販売情報を更新する。
	Update(ctx context.Context, sale *model.Sale) (*model.Sale, error)
	// Delete は指定IDの販売を削除する。
	Delete(ctx context.Context, id string) error
}

// SaleHandler は販売管理のHTTPハンドラー。
type SaleHandler struct {
	service SaleServiceInterface
}

// NewSaleHandler はSaleHandlerを生成する。
func NewSaleHandler(service SaleServiceInterface) *SaleHandler {
	return &SaleHandler{service: service}
}

// saleRequest は販売作成・更新リクエストのボディ。
// totalPriceとtotalWeightは受け付けず、常にサーバー側で計算する。
type saleRequest struct {
	ID           string     `json:"id,omitempty"`
	ClientID     string     `json:"clientId"`
	PhoneID      string     `json:"phoneId"`
	AddressID    string     `json:"addressId"`
	OrderDate    *time.Time `json:"orderDate"`
	DeliveryDate *time.Time `json:"deliveryDate"`
	ProductType  string     `json:"productType"`
	Quantity     int        `json:"quantity"`
	UnitPrice    float64    `json:"unitPrice"`
	Recurring    bool       `json:"recurring"`
	Frequency    *string    `json:"frequency"`
	BoxWeights   []float64  `json:"boxWeights"`
	PaymentType  *string    `json:"paymentType"`
	IsPaid       bool       `json:"isPaid"`
	Notes        string     `json:"notes"`
}

// saleResponse は販売情報のAPIレスポンス。
type saleResponse struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"clientId"`
	PhoneID      string    `json:"phoneId"`
	AddressID    string    `json:"addressId"`
	OrderDate    time.Time `json:"orderDate"`
	DeliveryDate time.Time `json:"deliveryDate"`
	ProductType  string    `json:"productType"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unitPrice"`
	TotalPrice   float64   `json:"totalPrice"`
	Recurring    bool      `json:"recurring"`
	Frequency    *string   `json:"frequency,omitempty"`
	BoxWeights   []float64 `json:"boxWeights"`
	TotalWeight  float64   `json:"totalWeight"`
	PaymentType  *string   `json:"paymentType,omitempty"`
	IsPaid       bool      `json:"isPaid"`
	Notes        string    `json:"notes"`
}

// CreateSale は販売作成を処理する。
// POST /api/sales
func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Request body could not be parsed."))
		return
	}

	created, err := h.service.Create(r.Context(), toSaleModel(&req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSaleResponse(created))
}

// GetSale は販売詳細を取得する。
// GET /api/sales/{id}
func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSaleResponse(sale))
}

// ListSales は販売一覧を取得する。
// GET /api/sales
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]saleResponse, 0, len(sales))
	for _, s := range sales {
		resp = append(resp, toSaleResponse(s))
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateSale は販売更新を処理する。
// PUT /api/sales/{id}
// パスとボディのIDが一致しない場合は400を返す。
func (h *SaleHandler) UpdateSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Request body could not be parsed."))
		return
	}

	if req.ID != "" && req.ID != id {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewIDMismatchError("Sale"))
		return
	}

	sale := toSaleModel(&req)
	sale.ID = id

	updated, err := h.service.Update(r.Context(), sale)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSaleResponse(updated))
}

// DeleteSale は販売削除を処理する。
// DELETE /api/sales/{id}
func (h *SaleHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ヘルパー関数 ---

// toSaleModel はリクエストからmodel.Saleに変換する。
func toSaleModel(req *saleRequest) *model.Sale {
	sale := &model.Sale{
		ID:          req.ID,
		ClientID:    req.ClientID,
		PhoneID:     req.PhoneID,
		AddressID:   req.AddressID,
		ProductType: model.ProductType(req.ProductType),
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Recurring:   req.Recurring,
		BoxWeights:  req.BoxWeights,
		IsPaid:      req.IsPaid,
		Notes:       req.Notes,
	}

	if req.OrderDate != nil {
		sale.OrderDate = *req.OrderDate
	}
	if req.DeliveryDate != nil {
		sale.DeliveryDate = *req.DeliveryDate
	}
	if req.Frequency != nil {
		f := model.Frequency(*req.Frequency)
		sale.Frequency = &f
	}
	if req.PaymentType != nil {
		p := model.PaymentType(*req.PaymentType)
		sale.PaymentType = &p
	}

	return sale
}

// toSaleResponse はmodel.SaleからAPIレスポンスに変換する。
func toSaleResponse(sale *model.Sale) saleResponse {
	resp := saleResponse{
		ID:           sale.ID,
		ClientID:     sale.ClientID,
		PhoneID:      sale.PhoneID,
		AddressID:    sale.AddressID,
		OrderDate:    sale.OrderDate,
		DeliveryDate: sale.DeliveryDate,
		ProductType:  string(sale.ProductType),
		Quantity:     sale.Quantity,
		UnitPrice:    sale.UnitPrice,
		TotalPrice:   sale.TotalPrice,
		Recurring:    sale.Recurring,
		BoxWeights:   sale.BoxWeights,
		TotalWeight:  sale.TotalWeight,
		IsPaid:       sale.IsPaid,
		Notes:        sale.Notes,
	}

	if resp.BoxWeights == nil {
		resp.BoxWeights = []float64{}
	}
	if sale.Frequency != nil {
		f := string(*sale.Frequency)
		resp.Frequency = &f
	}
	if sale.PaymentType != nil {
		p := string(*sale.PaymentType)
		resp.PaymentType = &p
	}

	return resp
}
