package dbmodels

import (
	"flyer-backend/models"
	"fmt"
	"strings"
	"time"
)

type User struct {
	BaseModel
	Email     string          `gorm:"type:varchar(255);uniqueIndex"`
	Password  string          `gorm:"type:varchar(128)"`
	FirstName string          `gorm:"type:varchar(150)"`
	LastName  string          `gorm:"type:varchar(150)"`
	Company   string          `gorm:"type:varchar(255)"` // для поставщика - название компании
	Role      models.UserRole `gorm:"type:varchar(50);index"`
	IsActive  bool
	LastLogin *time.Time
}

func (r User) GetFullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", r.FirstName, r.LastName))
}
