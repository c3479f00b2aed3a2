package initializers

import (
	"flyer-backend/config"
	"flyer-backend/lib/smtp"

	log "github.com/sirupsen/logrus"
)

func InitSmtp() {
	cfg := config.Conf.Smtp
	if cfg.Host == "" {
		log.Warn("SMTP не настроен, уведомления будут только через websocket")
	}
	err := smtp.Connect(cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.From, *cfg.TLSEnabled)
	if err != nil {
		panic(err.Error())
	}
}
