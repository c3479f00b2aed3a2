package filestorage

import (
	"context"
	filesdbstorage "flyer-backend/lib/file-storage/storage"
	"flyer-backend/models"
	dbmodels "flyer-backend/models/db"
	s3client "flyer-backend/s3"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type impl struct {
	s3           s3client.Provider
	store        filesdbstorage.Provider
	maxImageSize int64
}

func (i impl) UploadImage(ctx context.Context, info dbmodels.UploadFileInfo, body []byte) (string, error) {
	if i.maxImageSize > 0 && int64(len(body)) > i.maxImageSize {
		return "", errors.Wrapf(models.ErrImageTooLarge, "size=%v", len(body))
	}
	// заголовку клиента не доверяем, тип определяем по содержимому
	contentType := sniffContentType(body)
	ext, ok := models.AllowedImageTypes[contentType]
	if !ok {
		return "", errors.Wrapf(models.ErrUnsupportedImage, "content-type=%v", contentType)
	}
	objectKey := fmt.Sprintf("%s/%s.%s", info.FileType, uuid.NewString(), ext)
	err := i.s3.PutObject(ctx, objectKey, contentType, body)
	if err != nil {
		return "", errors.Wrap(err, "ошибка загрузки файла в S3")
	}
	rec := dbmodels.FileStorage{
		OwnerID:     info.OwnerID,
		Name:        info.FileName,
		Type:        info.FileType,
		ContentType: contentType,
		Size:        int64(len(body)),
		ObjectKey:   objectKey,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		if rmErr := i.s3.RemoveObject(ctx, objectKey); rmErr != nil {
			log.WithError(rmErr).WithField("object_key", objectKey).Warn("ошибка удаления файла из S3")
		}
		return "", errors.Wrap(err, "ошибка сохранения информации о файле")
	}
	return id, nil
}

func (i impl) GetFile(ctx context.Context, fileID string) (*models.File, error) {
	rec, err := i.store.GetByID(fileID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, models.ErrNotFound
	}
	body, err := i.s3.GetObject(ctx, rec.ObjectKey)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения файла из S3")
	}
	return &models.File{
		FileName:    rec.ObjectKey,
		ContentType: rec.ContentType,
		Body:        body,
	}, nil
}

func (i impl) DeleteFile(ctx context.Context, fileID string) error {
	rec, err := i.store.GetByID(fileID)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	err = i.s3.RemoveObject(ctx, rec.ObjectKey)
	if err != nil {
		return errors.Wrap(err, "ошибка удаления файла из S3")
	}
	return i.store.Delete(fileID)
}

func sniffContentType(body []byte) string {
	contentType := http.DetectContentType(body)
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return contentType
}
