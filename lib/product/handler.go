package producthandler

import (
	"context"
	"flyer-backend/db"
	brandstore "flyer-backend/lib/dicts/brand/store"
	categorystore "flyer-backend/lib/dicts/category/store"
	filestorage "flyer-backend/lib/file-storage"
	productstore "flyer-backend/lib/product/store"
	initchecker "flyer-backend/lib/utils/init-checker"
	"flyer-backend/models"
	productapimodels "flyer-backend/models/api/product"
	dbmodels "flyer-backend/models/db"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(supplierID string, request productapimodels.ProductData) (id string, err error)
	Update(id, userID string, role models.UserRole, request productapimodels.ProductData) error
	Get(id, userID string, role models.UserRole) (item productapimodels.ProductView, err error)
	List(userID string, role models.UserRole, filter productapimodels.ProductFilter) (list []productapimodels.ProductView, rowCount int64, err error)
	Delete(id, userID string, role models.UserRole) error
	UploadImage(ctx context.Context, id, userID string, role models.UserRole, file models.File) error
}

var Instance Provider

var (
	errProductInUse    = models.NewConflictError("PRODUCT_IN_USE", "товар размещен в листовке")
	errProductNotFound = models.NewNotFoundError("PRODUCT_NOT_FOUND", "товар не найден")
	errBrandNotFound   = models.NewValidationError("BRAND_NOT_FOUND", "бренд не найден")
	errCategoryMissing = models.NewValidationError("CATEGORY_NOT_FOUND", "категория не найдена")
)

func NewHandler() {
	instance := impl{
		store:    productstore.NewInstance(db.DB),
		brand:    brandstore.NewInstance(db.DB),
		category: categorystore.NewInstance(db.DB),
		files:    filestorage.Instance,
	}
	initchecker.CheckInit(
		"store", instance.store,
		"brand", instance.brand,
		"category", instance.category,
		"files", instance.files,
	)
	Instance = instance
}

type impl struct {
	store    productstore.Provider
	brand    brandstore.Provider
	category categorystore.Provider
	files    filestorage.Provider
}

func (i impl) Create(supplierID string, request productapimodels.ProductData) (id string, err error) {
	logger := log.WithField("supplier_id", supplierID)
	if err = i.checkRefs(request); err != nil {
		return "", err
	}
	rec := dbmodels.Product{
		SupplierID:       supplierID,
		EAN:              strings.TrimSpace(request.EAN),
		Name:             strings.TrimSpace(request.Name),
		Description:      request.Description,
		Price:            nullDecimal(request.Price),
		OriginalPrice:    nullDecimal(request.OriginalPrice),
		InstallationType: strings.TrimSpace(request.InstallationType),
		BrandID:          request.BrandID,
		CategoryID:       request.CategoryID,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.
			WithField("request", fmt.Sprintf("%+v", request)).
			WithError(err).
			Error("ошибка создания товара")
		return "", err
	}
	logger.
		WithField("ean", rec.EAN).
		WithField("rec_id", id).
		Info("создан товар")
	return id, nil
}

func (i impl) Update(id, userID string, role models.UserRole, request productapimodels.ProductData) error {
	logger := log.WithField("rec_id", id)
	if _, err := i.getOwned(id, userID, role); err != nil {
		return err
	}
	if err := i.checkRefs(request); err != nil {
		return err
	}
	updMap := map[string]interface{}{
		"ean":               strings.TrimSpace(request.EAN),
		"name":              strings.TrimSpace(request.Name),
		"description":       request.Description,
		"price":             nullDecimal(request.Price),
		"original_price":    nullDecimal(request.OriginalPrice),
		"installation_type": strings.TrimSpace(request.InstallationType),
		"brand_id":          request.BrandID,
		"category_id":       request.CategoryID,
	}
	err := i.store.Update(id, updMap)
	if err != nil {
		logger.
			WithField("request", fmt.Sprintf("%+v", request)).
			WithError(err).
			Error("ошибка обновления товара")
		return err
	}
	logger.Info("обновлен товар")
	return nil
}

func (i impl) Get(id, userID string, role models.UserRole) (item productapimodels.ProductView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return productapimodels.ProductView{}, err
	}
	if rec == nil {
		return productapimodels.ProductView{}, errProductNotFound
	}
	if role == models.UserRoleSupplier && rec.SupplierID != userID {
		return productapimodels.ProductView{}, models.ErrForbidden
	}
	return productapimodels.ProductConvert(*rec), nil
}

func (i impl) List(userID string, role models.UserRole, filter productapimodels.ProductFilter) (list []productapimodels.ProductView, rowCount int64, err error) {
	supplierID := filter.SupplierID
	if role == models.UserRoleSupplier {
		supplierID = userID
	}
	recList, rowCount, err := i.store.List(supplierID, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]productapimodels.ProductView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, productapimodels.ProductConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Delete(id, userID string, role models.UserRole) error {
	logger := log.WithField("rec_id", id)
	if _, err := i.getOwned(id, userID, role); err != nil {
		return err
	}
	placed, err := i.store.IsPlaced(id)
	if err != nil {
		return err
	}
	if placed {
		return errProductInUse
	}
	err = i.store.Delete(id)
	if err != nil {
		logger.WithError(err).Error("ошибка удаления товара")
		return err
	}
	logger.Info("удален товар")
	return nil
}

func (i impl) UploadImage(ctx context.Context, id, userID string, role models.UserRole, file models.File) error {
	logger := log.WithField("rec_id", id)
	rec, err := i.getOwned(id, userID, role)
	if err != nil {
		return err
	}
	fileID, err := i.files.UploadImage(ctx, dbmodels.UploadFileInfo{
		OwnerID:     rec.SupplierID,
		FileName:    file.FileName,
		FileType:    models.FileTypeProductImage,
		ContentType: file.ContentType,
	}, file.Body)
	if err != nil {
		return err
	}
	err = i.store.Update(id, map[string]interface{}{"image_file_id": fileID})
	if err != nil {
		return err
	}
	if rec.ImageFileID != nil {
		if err = i.files.DeleteFile(ctx, *rec.ImageFileID); err != nil {
			logger.WithError(err).Warn("ошибка удаления предыдущего изображения товара")
		}
	}
	return nil
}

func (i impl) getOwned(id, userID string, role models.UserRole) (*dbmodels.Product, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errProductNotFound
	}
	if role != models.UserRoleAdmin && rec.SupplierID != userID {
		return nil, models.ErrForbidden
	}
	return rec, nil
}

func (i impl) checkRefs(request productapimodels.ProductData) error {
	if request.BrandID != nil {
		brand, err := i.brand.GetByID(*request.BrandID)
		if err != nil {
			return err
		}
		if brand == nil {
			return errBrandNotFound
		}
	}
	if request.CategoryID != nil {
		category, err := i.category.GetByID(*request.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return errCategoryMissing
		}
	}
	return nil
}

func nullDecimal(value *decimal.Decimal) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(value.Round(2))
}
