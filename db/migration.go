package db

import (
	dbmodels "flyer-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return errors.Wrap(err, "ошибка создания расширения uuid-ossp")
	}
	log.Info("Запуск миграций")
	toMigrate := []struct {
		name  string
		model any
	}{
		{"User", &dbmodels.User{}},
		{"FileStorage", &dbmodels.FileStorage{}},
		{"Brand", &dbmodels.Brand{}},
		{"Category", &dbmodels.Category{}},
		{"Product", &dbmodels.Product{}},
		{"PromoImage", &dbmodels.PromoImage{}},
		{"Flyer", &dbmodels.Flyer{}},
		{"FlyerPage", &dbmodels.FlyerPage{}},
		{"FlyerSlot", &dbmodels.FlyerSlot{}},
		{"ApprovalWorkflow", &dbmodels.ApprovalWorkflow{}},
		{"Approval", &dbmodels.Approval{}},
		{"ApprovalHistory", &dbmodels.ApprovalHistory{}},
		{"FlyerVerification", &dbmodels.FlyerVerification{}},
	}
	for _, item := range toMigrate {
		if err := DB.AutoMigrate(item.model); err != nil {
			return errors.Wrapf(err, "ошибка создания структуры %s", item.name)
		}
	}
	log.Info("Миграция прошла успешно")
	return nil
}
