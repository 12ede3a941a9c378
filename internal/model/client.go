package model

import "time"

// ClientType は顧客区分を表す。
type ClientType string

// 顧客区分の定義。値はAPI契約の一部であり小文字のまま永続化する。
const (
	ClientTypeMayorista ClientType = "mayorista" // 卸売
	ClientTypeMinorista ClientType = "minorista" // 小売
	ClientTypeOtro      ClientType = "otro"
)

// ValidClientType は既知の顧客区分であればtrueを返す。
func ValidClientType(t ClientType) bool {
	switch t {
	case ClientTypeMayorista, ClientTypeMinorista, ClientTypeOtro:
		return true
	}
	return false
}

// Client は顧客を表す。住所と電話番号を複数保持できる。
type Client struct {
	ID               string
	Name             string
	Email            string
	RegistrationDate time.Time
	IsActive         bool
	Notes            string
	ClientType       ClientType
	Addresses        []ClientAddress
	Phones           []ClientPhone
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ClientAddress は顧客の配送先住所を表す。
type ClientAddress struct {
	ID           string
	ClientID     string
	AddressLine  string
	Neighborhood string
	Zone         string
	IsActive     bool
}

// ClientPhone は顧客の電話番号を表す。
type ClientPhone struct {
	ID          string
	ClientID    string
	PhoneNumber string
	IsActive    bool
}
