package dbmodels

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	SupplierID       string              `gorm:"type:varchar(36);index"`
	EAN              string              `gorm:"type:varchar(14);index"`
	Name             string              `gorm:"type:varchar(255)"`
	Description      string
	Price            decimal.NullDecimal `gorm:"type:numeric(12,2)"` // акционная цена
	OriginalPrice    decimal.NullDecimal `gorm:"type:numeric(12,2)"` // цена до акции
	InstallationType string              `gorm:"type:varchar(100)"`
	BrandID          *string             `gorm:"type:varchar(36)"`
	Brand            *Brand
	CategoryID       *string `gorm:"type:varchar(36)"`
	Category         *Category
	ImageFileID      *string `gorm:"type:varchar(36)"`
}

func (p Product) RequiresInstallationType() bool {
	return p.Category != nil && p.Category.RequiresInstallationType
}
