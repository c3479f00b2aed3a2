package erpapimodels

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// LookupStatus результат обращения к ERP
type LookupStatus string

const (
	LookupFound       LookupStatus = "found"
	LookupNotFound    LookupStatus = "not_found"
	LookupUnavailable LookupStatus = "unavailable"
)

// EanValidation результат сверки одного EAN с ERP
type EanValidation struct {
	EAN                 string           `json:"ean"`
	Status              LookupStatus     `json:"status"`
	Found               bool             `json:"found"`
	PricesMatch         bool             `json:"prices_match"` // true, если локальные цены не переданы
	ErpPrice            *decimal.Decimal `json:"erp_price"`
	ErpOriginalPrice    *decimal.Decimal `json:"erp_original_price"`
	ErpInstallationType string           `json:"erp_installation_type"`
	ErpName             string           `json:"erp_name"`
}

// ProductValidationError ошибки сверки товара листовки
type ProductValidationError struct {
	ProductID   string   `json:"product_id"`
	EAN         string   `json:"ean"`
	ProductName string   `json:"product_name"`
	Errors      []string `json:"errors"`
}

// ExistenceResult наличие товара в ERP
type ExistenceResult struct {
	EAN          string `json:"ean"`
	Exists       bool   `json:"exists"`
	Discontinued bool   `json:"discontinued"`
}

type ExistenceResponse struct {
	Unavailable bool              `json:"unavailable"` // ERP недоступна, результат консервативный
	Items       []ExistenceResult `json:"items"`
}

type ValidateEANRequest struct {
	EAN           string           `json:"ean"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	ActionID      *string          `json:"action_id"`
}

func (r ValidateEANRequest) Validate() error {
	if strings.TrimSpace(r.EAN) == "" {
		return errors.New("не указан EAN")
	}
	return nil
}

type ExistenceRequest struct {
	EANs []string `json:"eans"`
}

func (r ExistenceRequest) Validate() error {
	if len(r.EANs) == 0 {
		return errors.New("не указан список EAN")
	}
	if len(r.EANs) > 500 {
		return errors.New("за один запрос можно проверить не более 500 EAN")
	}
	return nil
}
