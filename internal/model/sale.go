package model

import "time"

// ProductType は販売単位を表す。
type ProductType string

// 販売単位の定義。
const (
	ProductTypeDocena  ProductType = "docena"  // ダース
	ProductTypeCartera ProductType = "cartera" // トレー
	ProductTypeCaja    ProductType = "caja"    // 箱
	ProductTypeOtro    ProductType = "otro"
)

// ValidProductType は既知の販売単位であればtrueを返す。
func ValidProductType(t ProductType) bool {
	switch t {
	case ProductTypeDocena, ProductTypeCartera, ProductTypeCaja, ProductTypeOtro:
		return true
	}
	return false
}

// Frequency は定期販売の頻度を表す。
type Frequency string

// 定期販売頻度の定義。
const (
	FrequencySemanal   Frequency = "semanal"   // 毎週
	FrequencyQuincenal Frequency = "quincenal" // 隔週
	FrequencyMensual   Frequency = "mensual"   // 毎月
)

// ValidFrequency は既知の頻度であればtrueを返す。
func ValidFrequency(f Frequency) bool {
	switch f {
	case FrequencySemanal, FrequencyQuincenal, FrequencyMensual:
		return true
	}
	return false
}

// PaymentType は支払い方法を表す。
type PaymentType string

// 支払い方法の定義。
const (
	PaymentTypeEfectivo PaymentType = "efectivo" // 現金
	PaymentTypeDebito   PaymentType = "debito"
	PaymentTypeCredito  PaymentType = "credito"
	PaymentTypeOtro     PaymentType = "otro"
)

// ValidPaymentType は既知の支払い方法であればtrueを返す。
func ValidPaymentType(t PaymentType) bool {
	switch t {
	case PaymentTypeEfectivo, PaymentTypeDebito, PaymentTypeCredito, PaymentTypeOtro:
		return true
	}
	return false
}

// Sale は販売（注文）を表す。
// TotalPriceとTotalWeightはサービス層で計算し、クライアント入力を信用しない。
// PhoneID/AddressIDは注文時点で使用した連絡先を固定するための参照。
type Sale struct {
	ID           string
	ClientID     string
	PhoneID      string
	AddressID    string
	OrderDate    time.Time
	DeliveryDate time.Time
	ProductType  ProductType
	Quantity     int
	UnitPrice    float64
	TotalPrice   float64
	Recurring    bool
	Frequency    *Frequency
	BoxWeights   []float64
	TotalWeight  float64
	PaymentType  *PaymentType
	IsPaid       bool
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
