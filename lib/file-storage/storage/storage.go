package filesdbstorage

import (
	dbmodels "flyer-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Provider метаданные файлов, содержимое лежит в объектном хранилище
type Provider interface {
	Create(rec dbmodels.FileStorage) (id string, err error)
	GetByID(id string) (rec *dbmodels.FileStorage, err error)
	Delete(id string) error
}

func NewInstance(db *gorm.DB) Provider {
	return &impl{db: db}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.FileStorage) (string, error) {
	if err := i.db.Create(&rec).Error; err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.FileStorage, error) {
	var rec dbmodels.FileStorage
	err := i.db.Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) Delete(id string) error {
	return i.db.Where("id = ?", id).Delete(&dbmodels.FileStorage{}).Error
}
