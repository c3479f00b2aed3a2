package dbmodels

type Brand struct {
	BaseModel
	Name       string  `gorm:"type:varchar(255);uniqueIndex"`
	Color      string  `gorm:"type:varchar(7)"` // цвет плашки товара на странице, #RRGGBB
	LogoFileID *string `gorm:"type:varchar(36)"`
}

type Category struct {
	BaseModel
	Name                     string  `gorm:"type:varchar(255);uniqueIndex"`
	RequiresInstallationType bool    // для товаров категории сверяется тип установки с ERP
	IconFileID               *string `gorm:"type:varchar(36)"`
}
