package workflowstore

import (
	dbmodels "flyer-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	GetByFlyer(flyerID string) (rec *dbmodels.ApprovalWorkflow, err error)
	// GetForUpdate блокирует строку процесса до конца транзакции
	GetForUpdate(flyerID string) (rec *dbmodels.ApprovalWorkflow, err error)
	Save(rec dbmodels.ApprovalWorkflow) (id string, err error)
	Update(flyerID string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByFlyer(flyerID string) (*dbmodels.ApprovalWorkflow, error) {
	return i.get(i.db, flyerID)
}

func (i impl) GetForUpdate(flyerID string) (*dbmodels.ApprovalWorkflow, error) {
	return i.get(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), flyerID)
}

func (i impl) get(tx *gorm.DB, flyerID string) (*dbmodels.ApprovalWorkflow, error) {
	rec := dbmodels.ApprovalWorkflow{}
	err := tx.
		Where("flyer_id = ?", flyerID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Save(rec dbmodels.ApprovalWorkflow) (id string, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(flyerID string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.ApprovalWorkflow{}).
		Where("flyer_id = ?", flyerID).
		Updates(updMap).
		Error
}
