package promoimagestore

import (
	dbmodels "flyer-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.PromoImage) (id string, err error)
	GetByID(id string) (rec *dbmodels.PromoImage, err error)
	List(supplierID string) (list []dbmodels.PromoImage, err error)
	Delete(id string) error
	IsPlaced(id string) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.PromoImage) (id string, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.PromoImage, error) {
	rec := dbmodels.PromoImage{}
	err := i.db.
		Preload("File").
		Where("id = ?", id).
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

func (i impl) List(supplierID string) (list []dbmodels.PromoImage, err error) {
	tx := i.db.Preload("File")
	if supplierID != "" {
		tx = tx.Where("supplier_id = ?", supplierID)
	}
	list = []dbmodels.PromoImage{}
	err = tx.
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.PromoImage{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	return i.db.Delete(&rec).Error
}

func (i impl) IsPlaced(id string) (bool, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.FlyerSlot{}).
		Where("promo_image_id = ?", id).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
