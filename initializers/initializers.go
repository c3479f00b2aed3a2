package initializers

import (
	"context"
	"flyer-backend/config"
	"flyer-backend/db"
	"flyer-backend/fiberlog"
	approvalhandler "flyer-backend/lib/approval"
	brandprovider "flyer-backend/lib/dicts/brand"
	categoryprovider "flyer-backend/lib/dicts/category"
	pdfexport "flyer-backend/lib/export/pdf"
	xlsexport "flyer-backend/lib/export/xls"
	filestorage "flyer-backend/lib/file-storage"
	flyerhandler "flyer-backend/lib/flyer"
	activationworker "flyer-backend/lib/flyer/activation-worker"
	"flyer-backend/lib/notification"
	producthandler "flyer-backend/lib/product"
	promoimagehandler "flyer-backend/lib/promo-image"
	usershandler "flyer-backend/lib/users"
	verificationhandler "flyer-backend/lib/verification"
	connectionhub "flyer-backend/lib/ws/hub/connection-hub"
)

var LoggerConfig *fiberlog.Config

// InitAllServices порядок важен: обработчики получают зависимости через Instance уже созданных
func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	InitErp(ctx)
	connectionhub.Init()
	filestorage.NewHandler(db.DB, S3, config.Conf.Upload.MaxImageSize)
	xlsexport.NewHandler()
	pdfexport.NewHandler(config.Conf.App.FontDir)
	notification.NewHandler()
	approvalhandler.NewHandler()
	verificationhandler.NewHandler(db.DB)
	flyerhandler.NewHandler()
	brandprovider.NewHandler()
	categoryprovider.NewHandler()
	producthandler.NewHandler()
	promoimagehandler.NewHandler()
	usershandler.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача активации согласованных листовок по наступлении даты начала действия
	activationworker.StartWorker(ctx)
}
