package brandprovider

import (
	"context"
	"flyer-backend/db"
	brandstore "flyer-backend/lib/dicts/brand/store"
	filestorage "flyer-backend/lib/file-storage"
	initchecker "flyer-backend/lib/utils/init-checker"
	"flyer-backend/models"
	dictapimodels "flyer-backend/models/api/dict"
	dbmodels "flyer-backend/models/db"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(request dictapimodels.BrandData) (id string, err error)
	Update(id string, request dictapimodels.BrandData) error
	Get(id string) (item dictapimodels.BrandView, err error)
	List() (list []dictapimodels.BrandView, err error)
	Delete(id string) error
	UploadLogo(ctx context.Context, id, userID string, file models.File) error
}

var Instance Provider

var errBrandExist = models.NewConflictError("BRAND_EXIST", "бренд с таким названием уже существует")

func NewHandler() {
	instance := impl{
		store: brandstore.NewInstance(db.DB),
		files: filestorage.Instance,
	}
	initchecker.CheckInit(
		"store", instance.store,
		"files", instance.files,
	)
	Instance = instance
}

type impl struct {
	store brandstore.Provider
	files filestorage.Provider
}

func (i impl) Create(request dictapimodels.BrandData) (id string, err error) {
	name := strings.TrimSpace(request.Name)
	exist, err := i.store.ExistByName(name, "")
	if err != nil {
		return "", err
	}
	if exist {
		return "", errBrandExist
	}
	rec := dbmodels.Brand{
		Name:  name,
		Color: strings.ToUpper(request.Color),
	}
	id, err = i.store.Create(rec)
	if err != nil {
		log.
			WithField("request", fmt.Sprintf("%+v", request)).
			WithError(err).
			Error("ошибка создания бренда")
		return "", err
	}
	log.
		WithField("brand_name", rec.Name).
		WithField("rec_id", id).
		Info("создан бренд")
	return id, nil
}

func (i impl) Update(id string, request dictapimodels.BrandData) error {
	logger := log.WithField("rec_id", id)
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return models.ErrNotFound
	}
	name := strings.TrimSpace(request.Name)
	exist, err := i.store.ExistByName(name, id)
	if err != nil {
		return err
	}
	if exist {
		return errBrandExist
	}
	updMap := map[string]interface{}{
		"name":  name,
		"color": strings.ToUpper(request.Color),
	}
	err = i.store.Update(id, updMap)
	if err != nil {
		logger.
			WithField("request", fmt.Sprintf("%+v", request)).
			WithError(err).
			Error("ошибка обновления бренда")
		return err
	}
	logger.Info("обновлен бренд")
	return nil
}

func (i impl) Get(id string) (item dictapimodels.BrandView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return dictapimodels.BrandView{}, err
	}
	if rec == nil {
		return dictapimodels.BrandView{}, models.ErrNotFound
	}
	return dictapimodels.BrandConvert(*rec), nil
}

func (i impl) List() (list []dictapimodels.BrandView, err error) {
	recList, err := i.store.List()
	if err != nil {
		return nil, err
	}
	result := make([]dictapimodels.BrandView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, dictapimodels.BrandConvert(rec))
	}
	return result, nil
}

func (i impl) Delete(id string) error {
	err := i.store.Delete(id)
	if err != nil {
		log.WithField("rec_id", id).
			WithError(err).
			Error("ошибка удаления бренда")
		return err
	}
	log.WithField("rec_id", id).Info("удален бренд")
	return nil
}

func (i impl) UploadLogo(ctx context.Context, id, userID string, file models.File) error {
	logger := log.WithField("rec_id", id)
	rec, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return models.ErrNotFound
	}
	fileID, err := i.files.UploadImage(ctx, dbmodels.UploadFileInfo{
		OwnerID:     userID,
		FileName:    file.FileName,
		FileType:    models.FileTypeBrandLogo,
		ContentType: file.ContentType,
	}, file.Body)
	if err != nil {
		return err
	}
	err = i.store.Update(id, map[string]interface{}{"logo_file_id": fileID})
	if err != nil {
		return err
	}
	if rec.LogoFileID != nil {
		if err = i.files.DeleteFile(ctx, *rec.LogoFileID); err != nil {
			logger.WithError(err).Warn("ошибка удаления предыдущего логотипа")
		}
	}
	logger.Info("загружен логотип бренда")
	return nil
}
