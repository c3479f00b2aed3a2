package initializers

import (
	"context"
	"flyer-backend/config"
	erphandler "flyer-backend/lib/erp"
	erpcache "flyer-backend/lib/erp/cache"
	erpconnector "flyer-backend/lib/erp/connector"
	erpstore "flyer-backend/lib/erp/store"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

var erpConn erpconnector.Provider

// InitErp подключение к ERP ленивое: сервис стартует и при недоступной ERP
func InitErp(ctx context.Context) {
	cfg := config.Conf.Erp
	erpConn = erpconnector.New(erpconnector.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Name:            cfg.Name,
		User:            cfg.User,
		Password:        cfg.Password,
		MaxOpenConns:    cfg.MaxOpenConns,
		QueryTimeout:    time.Duration(cfg.QueryTimeoutSec) * time.Second,
		ConnectAttempts: cfg.ConnectAttempts,
		ConnectBackoff:  time.Duration(cfg.ConnectBackoffMs) * time.Millisecond,
		BreakerFailures: uint32(cfg.BreakerFailures),
		BreakerOpen:     time.Duration(cfg.BreakerOpenSec) * time.Second,
	})
	store := erpstore.NewInstance(erpConn, cfg.ProductsTable, cfg.ActionPricesTable)
	erphandler.NewHandler(store, initErpCache(ctx))
}

func initErpCache(ctx context.Context) erpcache.Provider {
	if config.Conf.Redis.Addr == "" {
		log.Info("кэш ERP отключен")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.Conf.Redis.Addr,
		Password: config.Conf.Redis.Password,
		DB:       config.Conf.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis недоступен, кэш ERP отключен")
		_ = client.Close()
		return nil
	}
	log.WithField("addr", config.Conf.Redis.Addr).Info("кэш ERP подключен")
	return erpcache.NewInstance(client, time.Duration(config.Conf.Redis.ErpCacheTTL)*time.Second)
}

func CloseErp() {
	if erpConn == nil {
		return
	}
	if err := erpConn.Close(); err != nil {
		log.WithError(err).Warn("ошибка закрытия подключения к ERP")
	}
}
