package dbmodels

import "flyer-backend/models"

type PromoImage struct {
	BaseModel
	SupplierID string           `gorm:"type:varchar(36);index"`
	Name       string           `gorm:"type:varchar(255)"`
	Size       models.PromoSize `gorm:"type:varchar(20)"`
	FileID     string           `gorm:"type:varchar(36)"`
	File       *FileStorage     `gorm:"foreignKey:FileID"`
}
