package verificationhandler

import (
	"bytes"
	"context"
	"encoding/json"
	approvalhandler "flyer-backend/lib/approval"
	erphandler "flyer-backend/lib/erp"
	xlsexport "flyer-backend/lib/export/xls"
	flyerstore "flyer-backend/lib/flyer/store"
	productstore "flyer-backend/lib/product/store"
	verificationstore "flyer-backend/lib/verification/store"
	"flyer-backend/models"
	erpapimodels "flyer-backend/models/api/erp"
	verificationapimodels "flyer-backend/models/api/verification"
	dbmodels "flyer-backend/models/db"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	// VerifyFlyer сверяет товары листовки с ERP: чистая проверка передает листовку на согласование,
	// найденные ошибки возвращают ее поставщику, при недоступной ERP статус не меняется
	VerifyFlyer(ctx context.Context, flyerID, userID string, role models.UserRole) (verificationapimodels.VerificationView, error)
	Get(flyerID, userID string, role models.UserRole) (*verificationapimodels.VerificationView, error)
	Report(flyerID, userID string, role models.UserRole) (*bytes.Buffer, error)
	ValidateEAN(ctx context.Context, request erpapimodels.ValidateEANRequest) erpapimodels.EanValidation
	CheckExistence(ctx context.Context, request erpapimodels.ExistenceRequest) erpapimodels.ExistenceResponse
}

var Instance Provider

func NewHandler(DB *gorm.DB) {
	Instance = impl{
		flyerStore:        flyerstore.NewInstance(DB),
		productStore:      productstore.NewInstance(DB),
		verificationStore: verificationstore.NewInstance(DB),
		erp:               erphandler.Instance,
		approval:          approvalhandler.Instance,
		xls:               xlsexport.Instance,
	}
}

type impl struct {
	flyerStore        flyerstore.Provider
	productStore      productstore.Provider
	verificationStore verificationstore.Provider
	erp               erphandler.Provider
	approval          approvalhandler.Provider
	xls               xlsexport.Provider
}

func (i impl) VerifyFlyer(ctx context.Context, flyerID, userID string, role models.UserRole) (verificationapimodels.VerificationView, error) {
	logger := log.WithField("flyer_id", flyerID)
	flyer, err := i.getFlyer(flyerID, userID, role)
	if err != nil {
		return verificationapimodels.VerificationView{}, err
	}
	productIDs, err := i.flyerStore.ProductIDs(flyerID)
	if err != nil {
		return verificationapimodels.VerificationView{}, errors.Wrap(err, "ошибка получения товаров листовки")
	}
	products, err := i.productStore.GetByIDs(productIDs)
	if err != nil {
		return verificationapimodels.VerificationView{}, errors.Wrap(err, "ошибка получения товаров листовки")
	}
	result := i.erp.ValidateFlyerProducts(ctx, products, flyer.ActionID)
	errorsJson, err := json.Marshal(result.Errors)
	if err != nil {
		return verificationapimodels.VerificationView{}, err
	}
	rec := dbmodels.FlyerVerification{
		FlyerID:         flyerID,
		UserID:          userID,
		ErpAvailable:    result.ErpAvailable,
		CheckedProducts: result.Checked,
		Passed:          result.ErpAvailable && len(result.Errors) == 0,
		Errors:          errorsJson,
	}
	id, err := i.verificationStore.Create(rec)
	if err != nil {
		return verificationapimodels.VerificationView{}, errors.Wrap(err, "ошибка сохранения результата проверки")
	}
	rec.ID = id
	view, err := verificationapimodels.VerificationConvert(rec)
	if err != nil {
		return verificationapimodels.VerificationView{}, err
	}
	logger = logger.
		WithField("erp_available", rec.ErpAvailable).
		WithField("error_count", len(result.Errors))
	if flyer.Status != models.FlyerStatusPendingVerification || !rec.ErpAvailable {
		// при недоступной ERP листовка остается на проверке до повторного запуска
		logger.Info("проверка листовки в ERP выполнена")
		return view, nil
	}
	if !rec.Passed {
		if err = i.reject(flyerID, result.Errors); err != nil {
			return view, err
		}
		view.Rejected = true
		logger.Info("проверка листовки в ERP не пройдена, листовка отклонена")
		return view, nil
	}
	err = i.approval.StartReview(flyerID, userID)
	if err != nil {
		return view, errors.Wrap(err, "ошибка передачи листовки на согласование")
	}
	view.MovedToReview = true
	logger.Info("проверка листовки в ERP пройдена, листовка передана на согласование")
	return view, nil
}

// reject возвращает листовку поставщику, в причине перечислены товары с ошибками
func (i impl) reject(flyerID string, list []erpapimodels.ProductValidationError) error {
	if !models.FlyerStatusPendingVerification.IsAllowChange(models.FlyerStatusRejected) {
		return models.ErrStatusChange
	}
	err := i.flyerStore.Update(flyerID, map[string]interface{}{
		"status":           models.FlyerStatusRejected,
		"rejection_reason": rejectionReason(list),
	})
	if err != nil {
		return errors.Wrap(err, "ошибка отклонения листовки")
	}
	return nil
}

const reasonMaxProducts = 5

func rejectionReason(list []erpapimodels.ProductValidationError) string {
	parts := make([]string, 0, reasonMaxProducts+1)
	for idx, item := range list {
		if idx == reasonMaxProducts {
			parts = append(parts, fmt.Sprintf("и еще товаров: %d", len(list)-reasonMaxProducts))
			break
		}
		parts = append(parts, fmt.Sprintf("%s (%s): %s", item.EAN, item.ProductName, strings.Join(item.Errors, ", ")))
	}
	return "сверка с ERP не пройдена: " + strings.Join(parts, "; ")
}

func (i impl) Get(flyerID, userID string, role models.UserRole) (*verificationapimodels.VerificationView, error) {
	_, err := i.getFlyer(flyerID, userID, role)
	if err != nil {
		return nil, err
	}
	rec, err := i.verificationStore.GetLast(flyerID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	view, err := verificationapimodels.VerificationConvert(*rec)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения результата проверки")
	}
	return &view, nil
}

func (i impl) Report(flyerID, userID string, role models.UserRole) (*bytes.Buffer, error) {
	flyer, err := i.getFlyer(flyerID, userID, role)
	if err != nil {
		return nil, err
	}
	rec, err := i.verificationStore.GetLast(flyerID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, models.NewNotFoundError("VERIFICATION_NOT_FOUND", "листовка еще не проверялась")
	}
	view, err := verificationapimodels.VerificationConvert(*rec)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения результата проверки")
	}
	return i.xls.ExportVerification(*flyer, view)
}

func (i impl) ValidateEAN(ctx context.Context, request erpapimodels.ValidateEANRequest) erpapimodels.EanValidation {
	return i.erp.ValidateEAN(ctx, request)
}

func (i impl) CheckExistence(ctx context.Context, request erpapimodels.ExistenceRequest) erpapimodels.ExistenceResponse {
	return i.erp.CheckProductsExistence(ctx, request.EANs)
}

func (i impl) getFlyer(flyerID, userID string, role models.UserRole) (*dbmodels.Flyer, error) {
	flyer, err := i.flyerStore.GetByID(flyerID)
	if err != nil {
		return nil, err
	}
	if flyer == nil {
		return nil, models.ErrFlyerNotFound
	}
	if role == models.UserRoleSupplier && flyer.SupplierID != userID {
		return nil, models.ErrForbidden
	}
	return flyer, nil
}
