package approvalstore

import (
	"flyer-backend/models"
	dbmodels "flyer-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Approval) (id string, err error)
	Get(flyerID, approverID string) (rec *dbmodels.Approval, err error)
	Update(id string, updMap map[string]interface{}) error
	ListByFlyer(flyerID string) (list []dbmodels.Approval, err error)
	ListByApprover(approverID string, onlyPending bool) (list []dbmodels.Approval, err error)
	DeleteByFlyer(flyerID string) error
	CountPreApproved(flyerID string) (int, error)
	CountApproved(flyerID string) (int, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Approval) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", models.ErrDuplicateApproval
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Get(flyerID, approverID string) (*dbmodels.Approval, error) {
	rec := dbmodels.Approval{}
	err := i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("flyer_id = ?", flyerID).
		Where("approver_id = ?", approverID).
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Approval{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) ListByFlyer(flyerID string) (list []dbmodels.Approval, err error) {
	list = []dbmodels.Approval{}
	err = i.db.
		Preload("Approver").
		Where("flyer_id = ?", flyerID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByApprover(approverID string, onlyPending bool) (list []dbmodels.Approval, err error) {
	tx := i.db.
		Preload("Flyer").
		Preload("Approver").
		Where("approver_id = ?", approverID)
	if onlyPending {
		tx = tx.
			Where("status = ?", models.ApprovalStatusPending).
			Where("flyer_id in (?)", i.db.
				Model(&dbmodels.Flyer{}).
				Select("id").
				Where("status = ?", models.FlyerStatusPendingApproval))
	}
	list = []dbmodels.Approval{}
	err = tx.
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) DeleteByFlyer(flyerID string) error {
	return i.db.
		Where("flyer_id = ?", flyerID).
		Delete(&dbmodels.Approval{}).
		Error
}

func (i impl) CountPreApproved(flyerID string) (int, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.Approval{}).
		Where("flyer_id = ?", flyerID).
		Where("pre_approval_status = ?", models.ApprovalStatusApproved).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (i impl) CountApproved(flyerID string) (int, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.Approval{}).
		Where("flyer_id = ?", flyerID).
		Where("status = ?", models.ApprovalStatusApproved).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
