package dbmodels

import (
	"gorm.io/datatypes"
)

type FlyerVerification struct {
	BaseModel
	FlyerID         string `gorm:"type:varchar(36);index"`
	UserID          string `gorm:"type:varchar(36)"`
	ErpAvailable    bool
	CheckedProducts int
	Passed          bool
	Errors          datatypes.JSON `gorm:"type:jsonb"` // []erpapimodels.ProductValidationError
}
