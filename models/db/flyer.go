package dbmodels

import (
	"flyer-backend/models"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Flyer struct {
	BaseModel
	SupplierID      string             `gorm:"type:varchar(36);index"`
	Supplier        *User              `gorm:"foreignKey:SupplierID"`
	Name            string             `gorm:"type:varchar(255)"`
	Status          models.FlyerStatus `gorm:"type:varchar(50);index"`
	IsDraft         bool
	RejectionReason *string
	ValidFrom       time.Time         `gorm:"type:date"`
	ValidTo         time.Time         `gorm:"type:date"`
	ActionID        *string           `gorm:"type:varchar(50)"` // идентификатор акции в ERP
	Pages           []FlyerPage       `gorm:"foreignKey:FlyerID"`
	Workflow        *ApprovalWorkflow `gorm:"foreignKey:FlyerID"`
}

// IsValidAt листовка действует на указанную дату
func (f Flyer) IsValidAt(t time.Time) bool {
	day := t.Truncate(24 * time.Hour)
	return !day.Before(f.ValidFrom.Truncate(24*time.Hour)) && !day.After(f.ValidTo.Truncate(24*time.Hour))
}

func (f *Flyer) AfterDelete(tx *gorm.DB) (err error) {
	if f.ID == "" {
		return nil
	}
	pageIDs := tx.Session(&gorm.Session{NewDB: true}).
		Model(&FlyerPage{}).
		Select("id").
		Where("flyer_id = ?", f.ID)
	tx.Clauses(clause.Returning{}).Where("page_id in (?)", pageIDs).Delete(&FlyerSlot{})
	tx.Clauses(clause.Returning{}).Where("flyer_id = ?", f.ID).Delete(&FlyerPage{})
	tx.Clauses(clause.Returning{}).Where("flyer_id = ?", f.ID).Delete(&Approval{})
	tx.Clauses(clause.Returning{}).Where("flyer_id = ?", f.ID).Delete(&ApprovalWorkflow{})
	tx.Clauses(clause.Returning{}).Where("flyer_id = ?", f.ID).Delete(&ApprovalHistory{})
	tx.Clauses(clause.Returning{}).Where("flyer_id = ?", f.ID).Delete(&FlyerVerification{})
	return
}

type FlyerPage struct {
	BaseModel
	FlyerID    string            `gorm:"type:varchar(36);uniqueIndex:idx_flyer_page_number"`
	PageNumber int               `gorm:"uniqueIndex:idx_flyer_page_number"`
	LayoutType models.LayoutType `gorm:"type:varchar(20)"`
	Slots      []FlyerSlot       `gorm:"foreignKey:PageID"`
}

func (p *FlyerPage) AfterDelete(tx *gorm.DB) (err error) {
	if p.ID == "" {
		return nil
	}
	tx.Clauses(clause.Returning{}).Where("page_id = ?", p.ID).Delete(&FlyerSlot{})
	return
}

// FlyerSlot занятая ячейка страницы. Промо-изображение занимает по записи на каждую ячейку своего
// диапазона, уникальный индекс (page_id, position) не допускает пересечений.
type FlyerSlot struct {
	BaseModel
	PageID         string  `gorm:"type:varchar(36);uniqueIndex:idx_page_position"`
	Position       int     `gorm:"uniqueIndex:idx_page_position"`
	ProductID      *string `gorm:"type:varchar(36)"`
	Product        *Product
	PromoImageID   *string `gorm:"type:varchar(36)"`
	PromoImage     *PromoImage
	PromoSize      models.PromoSize `gorm:"type:varchar(20)"`
	AnchorPosition *int
	SpanCells      pq.Int64Array `gorm:"type:integer[]"`
}

func (s FlyerSlot) IsPromo() bool {
	return s.PromoImageID != nil
}
