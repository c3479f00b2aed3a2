package productapimodels

import (
	apimodels "flyer-backend/models/api"
	dictapimodels "flyer-backend/models/api/dict"
	dbmodels "flyer-backend/models/db"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var eanRe = regexp.MustCompile(`^\d{8}$|^\d{12,14}$`)

type ProductData struct {
	EAN              string           `json:"ean"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Price            *decimal.Decimal `json:"price"`          // акционная цена
	OriginalPrice    *decimal.Decimal `json:"original_price"` // цена до акции
	InstallationType string           `json:"installation_type"`
	BrandID          *string          `json:"brand_id"`
	CategoryID       *string          `json:"category_id"`
}

func (r ProductData) Validate() error {
	if !eanRe.MatchString(strings.TrimSpace(r.EAN)) {
		return errors.New("EAN должен состоять из 8, 12, 13 или 14 цифр")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("не указано наименование товара")
	}
	if r.Price != nil && r.Price.IsNegative() {
		return errors.New("цена не может быть отрицательной")
	}
	if r.OriginalPrice != nil && r.OriginalPrice.IsNegative() {
		return errors.New("цена до акции не может быть отрицательной")
	}
	return nil
}

type ProductView struct {
	ID               string                      `json:"id"`
	SupplierID       string                      `json:"supplier_id"`
	EAN              string                      `json:"ean"`
	Name             string                      `json:"name"`
	Description      string                      `json:"description"`
	Price            *decimal.Decimal            `json:"price"`
	OriginalPrice    *decimal.Decimal            `json:"original_price"`
	InstallationType string                      `json:"installation_type"`
	Brand            *dictapimodels.BrandView    `json:"brand"`
	Category         *dictapimodels.CategoryView `json:"category"`
	ImageFileID      *string                     `json:"image_file_id"`
}

func ProductConvert(rec dbmodels.Product) ProductView {
	result := ProductView{
		ID:               rec.ID,
		SupplierID:       rec.SupplierID,
		EAN:              rec.EAN,
		Name:             rec.Name,
		Description:      rec.Description,
		InstallationType: rec.InstallationType,
		ImageFileID:      rec.ImageFileID,
	}
	if rec.Price.Valid {
		result.Price = &rec.Price.Decimal
	}
	if rec.OriginalPrice.Valid {
		result.OriginalPrice = &rec.OriginalPrice.Decimal
	}
	if rec.Brand != nil {
		brand := dictapimodels.BrandConvert(*rec.Brand)
		result.Brand = &brand
	}
	if rec.Category != nil {
		category := dictapimodels.CategoryConvert(*rec.Category)
		result.Category = &category
	}
	return result
}

type ProductFilter struct {
	Search     string `json:"search"` // по EAN или наименованию
	BrandID    string `json:"brand_id"`
	CategoryID string `json:"category_id"`
	SupplierID string `json:"supplier_id"` // учитывается только для администратора
	apimodels.Pagination
}
