package pagestore

import (
	dbmodels "flyer-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.FlyerPage) (id string, err error)
	GetByID(flyerID, pageID string) (rec *dbmodels.FlyerPage, err error)
	List(flyerID string) (list []dbmodels.FlyerPage, err error)
	Update(flyerID, pageID string, updMap map[string]interface{}) error
	Delete(flyerID, pageID string) error
	NextPageNumber(flyerID string) (int, error)
	Renumber(flyerID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.FlyerPage) (id string, err error) {
	err = i.db.
		Omit("Slots").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(flyerID, pageID string) (*dbmodels.FlyerPage, error) {
	rec := dbmodels.FlyerPage{}
	err := i.db.
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("flyer_id = ?", flyerID).
		Where("id = ?", pageID).
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

func (i impl) List(flyerID string) (list []dbmodels.FlyerPage, err error) {
	list = []dbmodels.FlyerPage{}
	err = i.db.
		Where("flyer_id = ?", flyerID).
		Order("page_number ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(flyerID, pageID string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.FlyerPage{}).
		Where("flyer_id = ?", flyerID).
		Where("id = ?", pageID).
		Updates(updMap).
		Error
}

func (i impl) Delete(flyerID, pageID string) error {
	rec := dbmodels.FlyerPage{
		BaseModel: dbmodels.BaseModel{ID: pageID},
		FlyerID:   flyerID,
	}
	return i.db.
		Where("flyer_id = ?", flyerID).
		Delete(&rec).
		Error
}

func (i impl) NextPageNumber(flyerID string) (int, error) {
	var maxNumber *int
	err := i.db.
		Model(&dbmodels.FlyerPage{}).
		Where("flyer_id = ?", flyerID).
		Select("MAX(page_number)").
		Scan(&maxNumber).
		Error
	if err != nil {
		return 0, err
	}
	if maxNumber == nil {
		return 1, nil
	}
	return *maxNumber + 1, nil
}

// Renumber восстанавливает сплошную нумерацию страниц 1..N после удаления
func (i impl) Renumber(flyerID string) error {
	list, err := i.List(flyerID)
	if err != nil {
		return err
	}
	// сдвигаем номера за пределы уникального индекса, затем проставляем итоговые
	err = i.db.
		Model(&dbmodels.FlyerPage{}).
		Where("flyer_id = ?", flyerID).
		Update("page_number", gorm.Expr("page_number + ?", 10000)).
		Error
	if err != nil {
		return errors.Wrap(err, "ошибка сдвига номеров страниц")
	}
	for idx, page := range list {
		err = i.db.
			Model(&dbmodels.FlyerPage{}).
			Where("id = ?", page.ID).
			Update("page_number", idx+1).
			Error
		if err != nil {
			return errors.Wrap(err, "ошибка изменения номера страницы")
		}
	}
	return nil
}
