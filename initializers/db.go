package initializers

import (
	"flyer-backend/config"
	"flyer-backend/db"
	"time"
)

func InitDBConnection() {
	cfg := config.Conf.Database
	err := db.Connect(db.Options{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Name:            cfg.Name,
		User:            cfg.User,
		Password:        cfg.Password,
		Debug:           *cfg.DebugMode,
		Migrate:         *cfg.MigrateOnStart,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifeMin) * time.Minute,
	})
	if err != nil {
		panic(err.Error())
	}
}
