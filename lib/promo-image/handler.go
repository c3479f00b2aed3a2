package promoimagehandler

import (
	"context"
	"flyer-backend/db"
	filestorage "flyer-backend/lib/file-storage"
	promoimagestore "flyer-backend/lib/promo-image/store"
	initchecker "flyer-backend/lib/utils/init-checker"
	"flyer-backend/models"
	promoapimodels "flyer-backend/models/api/promo"
	dbmodels "flyer-backend/models/db"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Upload(ctx context.Context, supplierID string, request promoapimodels.PromoImageData, file models.File) (id string, err error)
	Get(id, userID string, role models.UserRole) (promoapimodels.PromoImageView, error)
	GetImage(ctx context.Context, id, userID string, role models.UserRole) (*models.File, error)
	List(userID string, role models.UserRole) ([]promoapimodels.PromoImageView, error)
	// Delete удаление запрещено, пока изображение размещено на странице листовки
	Delete(ctx context.Context, id, userID string, role models.UserRole) error
}

var Instance Provider

var errPromoImageNotFound = models.NewNotFoundError("PROMO_IMAGE_NOT_FOUND", "промо-изображение не найдено")

func NewHandler() {
	instance := impl{
		store: promoimagestore.NewInstance(db.DB),
		files: filestorage.Instance,
	}
	initchecker.CheckInit(
		"store", instance.store,
		"files", instance.files,
	)
	Instance = instance
}

type impl struct {
	store promoimagestore.Provider
	files filestorage.Provider
}

func (i impl) Upload(ctx context.Context, supplierID string, request promoapimodels.PromoImageData, file models.File) (id string, err error) {
	logger := log.WithField("supplier_id", supplierID)
	fileID, err := i.files.UploadImage(ctx, dbmodels.UploadFileInfo{
		OwnerID:     supplierID,
		FileName:    file.FileName,
		FileType:    models.FileTypePromoImage,
		ContentType: file.ContentType,
	}, file.Body)
	if err != nil {
		return "", err
	}
	rec := dbmodels.PromoImage{
		SupplierID: supplierID,
		Name:       strings.TrimSpace(request.Name),
		Size:       request.Size,
		FileID:     fileID,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения промо-изображения")
		if delErr := i.files.DeleteFile(ctx, fileID); delErr != nil {
			logger.WithError(delErr).Warn("ошибка удаления файла промо-изображения")
		}
		return "", err
	}
	logger.
		WithField("rec_id", id).
		WithField("size", request.Size).
		Info("загружено промо-изображение")
	return id, nil
}

func (i impl) Get(id, userID string, role models.UserRole) (promoapimodels.PromoImageView, error) {
	rec, err := i.getAllowed(id, userID, role)
	if err != nil {
		return promoapimodels.PromoImageView{}, err
	}
	return promoapimodels.PromoImageConvert(*rec), nil
}

func (i impl) GetImage(ctx context.Context, id, userID string, role models.UserRole) (*models.File, error) {
	rec, err := i.getAllowed(id, userID, role)
	if err != nil {
		return nil, err
	}
	return i.files.GetFile(ctx, rec.FileID)
}

func (i impl) List(userID string, role models.UserRole) ([]promoapimodels.PromoImageView, error) {
	supplierID := ""
	if role == models.UserRoleSupplier {
		supplierID = userID
	}
	recList, err := i.store.List(supplierID)
	if err != nil {
		return nil, err
	}
	result := make([]promoapimodels.PromoImageView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, promoapimodels.PromoImageConvert(rec))
	}
	return result, nil
}

func (i impl) Delete(ctx context.Context, id, userID string, role models.UserRole) error {
	logger := log.WithField("rec_id", id)
	rec, err := i.getAllowed(id, userID, role)
	if err != nil {
		return err
	}
	if role != models.UserRoleAdmin && rec.SupplierID != userID {
		return models.ErrForbidden
	}
	placed, err := i.store.IsPlaced(id)
	if err != nil {
		return err
	}
	if placed {
		return models.ErrPromoImageInUse
	}
	err = i.store.Delete(id)
	if err != nil {
		logger.WithError(err).Error("ошибка удаления промо-изображения")
		return err
	}
	if err = i.files.DeleteFile(ctx, rec.FileID); err != nil {
		logger.WithError(err).Warn("ошибка удаления файла промо-изображения")
	}
	logger.Info("удалено промо-изображение")
	return nil
}

func (i impl) getAllowed(id, userID string, role models.UserRole) (*dbmodels.PromoImage, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errPromoImageNotFound
	}
	if role == models.UserRoleSupplier && rec.SupplierID != userID {
		return nil, models.ErrForbidden
	}
	return rec, nil
}
