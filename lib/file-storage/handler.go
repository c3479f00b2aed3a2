package filestorage

import (
	"context"
	filesdbstorage "flyer-backend/lib/file-storage/storage"
	"flyer-backend/models"
	dbmodels "flyer-backend/models/db"
	s3client "flyer-backend/s3"

	"gorm.io/gorm"
)

type Provider interface {
	// UploadImage проверяет формат и размер изображения, сохраняет его в S3 и возвращает идентификатор файла
	UploadImage(ctx context.Context, info dbmodels.UploadFileInfo, body []byte) (fileID string, err error)
	GetFile(ctx context.Context, fileID string) (*models.File, error)
	DeleteFile(ctx context.Context, fileID string) error
}

var Instance Provider

func NewHandler(DB *gorm.DB, s3 s3client.Provider, maxImageSize int64) {
	Instance = impl{
		s3:           s3,
		store:        filesdbstorage.NewInstance(DB),
		maxImageSize: maxImageSize,
	}
}
