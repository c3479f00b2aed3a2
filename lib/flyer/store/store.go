package flyerstore

import (
	"flyer-backend/models"
	flyerapimodels "flyer-backend/models/api/flyer"
	dbmodels "flyer-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Flyer) (id string, err error)
	GetByID(id string) (rec *dbmodels.Flyer, err error)
	GetByIDForUpdate(id string) (rec *dbmodels.Flyer, err error)
	GetFull(id string) (rec *dbmodels.Flyer, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	List(supplierID string, hideDrafts bool, filter flyerapimodels.FlyerFilter) (list []dbmodels.Flyer, rowCount int64, err error)
	ProductIDs(id string) (ids []string, err error)
	// ReadyToActivate согласованные листовки, период действия которых уже начался
	ReadyToActivate(now time.Time) (ids []string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Flyer) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Flyer, error) {
	rec := dbmodels.Flyer{}
	err := i.db.
		Preload("Supplier").
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

func (i impl) GetByIDForUpdate(id string) (*dbmodels.Flyer, error) {
	rec := dbmodels.Flyer{}
	err := i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
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

func (i impl) GetFull(id string) (*dbmodels.Flyer, error) {
	rec := dbmodels.Flyer{}
	err := i.db.
		Preload("Supplier").
		Preload("Pages", func(db *gorm.DB) *gorm.DB {
			return db.Order("page_number ASC")
		}).
		Preload("Pages.Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Pages.Slots.Product").
		Preload("Pages.Slots.Product.Brand").
		Preload("Pages.Slots.Product.Category").
		Preload("Pages.Slots.PromoImage").
		Preload("Pages.Slots.PromoImage.File").
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Flyer{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) Delete(id string) error {
	rec := dbmodels.Flyer{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	return i.db.Delete(&rec).Error
}

func (i impl) List(supplierID string, hideDrafts bool, filter flyerapimodels.FlyerFilter) (list []dbmodels.Flyer, rowCount int64, err error) {
	tx := i.db.Model(&dbmodels.Flyer{})
	if supplierID != "" {
		tx = tx.Where("supplier_id = ?", supplierID)
	}
	if hideDrafts {
		tx = tx.Where("status <> ?", models.FlyerStatusDraft)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		tx = tx.Where("LOWER(name) like ?", "%"+strings.ToLower(strings.TrimSpace(filter.Search))+"%")
	}
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	offset, limit := filter.GetOffset()
	list = []dbmodels.Flyer{}
	err = tx.
		Preload("Supplier").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

func (i impl) ProductIDs(id string) (ids []string, err error) {
	ids = []string{}
	err = i.db.
		Model(&dbmodels.FlyerSlot{}).
		Joins("JOIN flyer_pages ON flyer_pages.id = flyer_slots.page_id").
		Where("flyer_pages.flyer_id = ?", id).
		Where("flyer_slots.product_id is not null").
		Distinct().
		Pluck("flyer_slots.product_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (i impl) ReadyToActivate(now time.Time) (ids []string, err error) {
	ids = []string{}
	err = i.db.
		Model(&dbmodels.Flyer{}).
		Where("status = ?", models.FlyerStatusApproved).
		Where("valid_from <= ?", now).
		Where("valid_to >= ?", now).
		Pluck("id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
