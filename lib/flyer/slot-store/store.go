package slotstore

import (
	dbmodels "flyer-backend/models/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	ListByPage(pageID string) (list []dbmodels.FlyerSlot, err error)
	Create(list []dbmodels.FlyerSlot) error
	DeleteProduct(pageID string, position int) error
	DeletePromo(pageID string, anchor int) error
	DeleteByPage(pageID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) ListByPage(pageID string) (list []dbmodels.FlyerSlot, err error) {
	list = []dbmodels.FlyerSlot{}
	err = i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("page_id = ?", pageID).
		Order("position ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Create сохраняет ячейки одним insert, пересечение с занятой ячейкой отклоняется уникальным индексом
func (i impl) Create(list []dbmodels.FlyerSlot) error {
	if len(list) == 0 {
		return nil
	}
	return i.db.
		Omit(clause.Associations).
		Create(&list).
		Error
}

func (i impl) DeleteProduct(pageID string, position int) error {
	return i.db.
		Where("page_id = ?", pageID).
		Where("position = ?", position).
		Where("product_id is not null").
		Delete(&dbmodels.FlyerSlot{}).
		Error
}

// DeletePromo удаляет весь диапазон промо-изображения одним запросом
func (i impl) DeletePromo(pageID string, anchor int) error {
	return i.db.
		Where("page_id = ?", pageID).
		Where("anchor_position = ?", anchor).
		Where("promo_image_id is not null").
		Delete(&dbmodels.FlyerSlot{}).
		Error
}

func (i impl) DeleteByPage(pageID string) error {
	return i.db.
		Where("page_id = ?", pageID).
		Delete(&dbmodels.FlyerSlot{}).
		Error
}
