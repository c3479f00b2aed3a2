package categoryprovider

import (
	"context"
	"flyer-backend/db"
	categorystore "flyer-backend/lib/dicts/category/store"
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
	Create(request dictapimodels.CategoryData) (id string, err error)
	Update(id string, request dictapimodels.CategoryData) error
	Get(id string) (item dictapimodels.CategoryView, err error)
	List() (list []dictapimodels.CategoryView, err error)
	Delete(id string) error
	UploadIcon(ctx context.Context, id, userID string, file models.File) error
}

var Instance Provider

var errCategoryExist = models.NewConflictError("CATEGORY_EXIST", "категория с таким названием уже существует")

func NewHandler() {
	instance := impl{
		store: categorystore.NewInstance(db.DB),
		files: filestorage.Instance,
	}
	initchecker.CheckInit(
		"store", instance.store,
		"files", instance.files,
	)
	Instance = instance
}

type impl struct {
	store categorystore.Provider
	files filestorage.Provider
}

func (i impl) Create(request dictapimodels.CategoryData) (id string, err error) {
	name := strings.TrimSpace(request.Name)
	exist, err := i.store.ExistByName(name, "")
	if err != nil {
		return "", err
	}
	if exist {
		return "", errCategoryExist
	}
	rec := dbmodels.Category{
		Name:                     name,
		RequiresInstallationType: request.RequiresInstallationType,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		log.
			WithField("request", fmt.Sprintf("%+v", request)).
			WithError(err).
			Error("ошибка создания категории")
		return "", err
	}
	log.
		WithField("category_name", rec.Name).
		WithField("rec_id", id).
		Info("создана категория")
	return id, nil
}

func (i impl) Update(id string, request dictapimodels.CategoryData) error {
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
		return errCategoryExist
	}
	updMap := map[string]interface{}{
		"name":                       name,
		"requires_installation_type": request.RequiresInstallationType,
	}
	err = i.store.Update(id, updMap)
	if err != nil {
		logger.
			WithField("request", fmt.Sprintf("%+v", request)).
			WithError(err).
			Error("ошибка обновления категории")
		return err
	}
	logger.Info("обновлена категория")
	return nil
}

func (i impl) Get(id string) (item dictapimodels.CategoryView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return dictapimodels.CategoryView{}, err
	}
	if rec == nil {
		return dictapimodels.CategoryView{}, models.ErrNotFound
	}
	return dictapimodels.CategoryConvert(*rec), nil
}

func (i impl) List() (list []dictapimodels.CategoryView, err error) {
	recList, err := i.store.List()
	if err != nil {
		return nil, err
	}
	result := make([]dictapimodels.CategoryView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, dictapimodels.CategoryConvert(rec))
	}
	return result, nil
}

func (i impl) Delete(id string) error {
	err := i.store.Delete(id)
	if err != nil {
		log.WithField("rec_id", id).
			WithError(err).
			Error("ошибка удаления категории")
		return err
	}
	log.WithField("rec_id", id).Info("удалена категория")
	return nil
}

func (i impl) UploadIcon(ctx context.Context, id, userID string, file models.File) error {
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
		FileType:    models.FileTypeCategoryIcon,
		ContentType: file.ContentType,
	}, file.Body)
	if err != nil {
		return err
	}
	err = i.store.Update(id, map[string]interface{}{"icon_file_id": fileID})
	if err != nil {
		return err
	}
	if rec.IconFileID != nil {
		if err = i.files.DeleteFile(ctx, *rec.IconFileID); err != nil {
			logger.WithError(err).Warn("ошибка удаления предыдущей иконки")
		}
	}
	logger.Info("загружена иконка категории")
	return nil
}
