package productstore

import (
	productapimodels "flyer-backend/models/api/product"
	dbmodels "flyer-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Product) (id string, err error)
	GetByID(id string) (rec *dbmodels.Product, err error)
	GetByIDs(ids []string) (list []dbmodels.Product, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	List(supplierID string, filter productapimodels.ProductFilter) (list []dbmodels.Product, rowCount int64, err error)
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

func (i impl) Create(rec dbmodels.Product) (id string, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Product, error) {
	rec := dbmodels.Product{}
	err := i.db.
		Preload("Brand").
		Preload("Category").
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

func (i impl) GetByIDs(ids []string) (list []dbmodels.Product, err error) {
	list = []dbmodels.Product{}
	if len(ids) == 0 {
		return list, nil
	}
	err = i.db.
		Preload("Brand").
		Preload("Category").
		Where("id in (?)", ids).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Product{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) Delete(id string) error {
	rec := dbmodels.Product{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	return i.db.Delete(&rec).Error
}

func (i impl) List(supplierID string, filter productapimodels.ProductFilter) (list []dbmodels.Product, rowCount int64, err error) {
	tx := i.db.Model(&dbmodels.Product{})
	if supplierID != "" {
		tx = tx.Where("supplier_id = ?", supplierID)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		tx = tx.Where("LOWER(name) like ? or ean like ?", search, search)
	}
	if filter.BrandID != "" {
		tx = tx.Where("brand_id = ?", filter.BrandID)
	}
	if filter.CategoryID != "" {
		tx = tx.Where("category_id = ?", filter.CategoryID)
	}
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	offset, limit := filter.GetOffset()
	list = []dbmodels.Product{}
	err = tx.
		Preload("Brand").
		Preload("Category").
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

func (i impl) IsPlaced(id string) (bool, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.FlyerSlot{}).
		Where("product_id = ?", id).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
