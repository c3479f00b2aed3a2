package erphandler

import (
	"context"
	erpcache "flyer-backend/lib/erp/cache"
	erpstore "flyer-backend/lib/erp/store"
	erpapimodels "flyer-backend/models/api/erp"
	dbmodels "flyer-backend/models/db"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	ValidateEAN(ctx context.Context, request erpapimodels.ValidateEANRequest) erpapimodels.EanValidation
	ValidateFlyerProducts(ctx context.Context, products []dbmodels.Product, actionID *string) FlyerValidation
	CheckProductsExistence(ctx context.Context, eans []string) erpapimodels.ExistenceResponse
}

var Instance Provider

func NewHandler(store erpstore.Provider, cache erpcache.Provider) {
	Instance = impl{
		store: store,
		cache: cache,
	}
}

type impl struct {
	store erpstore.Provider
	cache erpcache.Provider // может быть nil
}

// LookupResult результат поиска EAN: найден, не найден или ERP недоступна (с причиной)
type LookupResult struct {
	Status  erpapimodels.LookupStatus
	Product *erpstore.ErpProduct
	Cause   error
}

// FlyerValidation итог сверки товаров листовки, в Errors только товары с ошибками
type FlyerValidation struct {
	Errors       []erpapimodels.ProductValidationError
	ErpAvailable bool
	Checked      int
}

func (i impl) lookup(ctx context.Context, ean string, actionID *string) LookupResult {
	ean = strings.TrimSpace(ean)
	logger := log.WithField("ean", ean)
	if i.cache != nil {
		rec, hit, err := i.cache.Get(ctx, ean, actionID)
		if err != nil {
			logger.WithError(err).Warn("ошибка чтения кэша ERP")
		} else if hit {
			return found(rec)
		}
	}
	rec, err := i.store.FindByEAN(ctx, ean, actionID)
	if err != nil {
		logger.WithError(err).Warn("ERP недоступна")
		return LookupResult{Status: erpapimodels.LookupUnavailable, Cause: err}
	}
	if i.cache != nil {
		if err = i.cache.Set(ctx, ean, actionID, rec); err != nil {
			logger.WithError(err).Warn("ошибка записи кэша ERP")
		}
	}
	return found(rec)
}

func found(rec *erpstore.ErpProduct) LookupResult {
	if rec == nil {
		return LookupResult{Status: erpapimodels.LookupNotFound}
	}
	return LookupResult{Status: erpapimodels.LookupFound, Product: rec}
}

func (i impl) ValidateEAN(ctx context.Context, request erpapimodels.ValidateEANRequest) erpapimodels.EanValidation {
	res := i.lookup(ctx, request.EAN, request.ActionID)
	result := erpapimodels.EanValidation{
		EAN:         strings.TrimSpace(request.EAN),
		Status:      res.Status,
		Found:       res.Status == erpapimodels.LookupFound,
		PricesMatch: true,
	}
	if res.Product == nil {
		return result
	}
	rec := res.Product
	result.ErpName = strings.TrimSpace(rec.Name)
	if rec.InstallationType != nil {
		result.ErpInstallationType = strings.TrimSpace(*rec.InstallationType)
	}
	if rec.ActionPrice.Valid {
		result.ErpPrice = &rec.ActionPrice.Decimal
	}
	if rec.OriginalPrice.Valid {
		result.ErpOriginalPrice = &rec.OriginalPrice.Decimal
	}
	if request.Price != nil && request.OriginalPrice != nil {
		result.PricesMatch = priceEqual(*request.Price, rec.ActionPrice) &&
			priceEqual(*request.OriginalPrice, rec.OriginalPrice)
	}
	return result
}

func (i impl) ValidateFlyerProducts(ctx context.Context, products []dbmodels.Product, actionID *string) FlyerValidation {
	result := FlyerValidation{
		Errors:       []erpapimodels.ProductValidationError{},
		ErpAvailable: true,
	}
	for _, product := range products {
		result.Checked++
		errs := i.validateProduct(ctx, product, actionID, &result)
		if len(errs) == 0 {
			continue
		}
		result.Errors = append(result.Errors, erpapimodels.ProductValidationError{
			ProductID:   product.ID,
			EAN:         product.EAN,
			ProductName: product.Name,
			Errors:      errs,
		})
	}
	return result
}

func (i impl) validateProduct(ctx context.Context, product dbmodels.Product, actionID *string, result *FlyerValidation) []string {
	res := i.lookup(ctx, product.EAN, actionID)
	switch res.Status {
	case erpapimodels.LookupUnavailable:
		result.ErpAvailable = false
		return []string{"ERP недоступна, товар не проверен"}
	case erpapimodels.LookupNotFound:
		return []string{fmt.Sprintf("EAN %s не найден в ERP", product.EAN)}
	}
	rec := res.Product
	errs := []string{}
	if rec.Discontinued {
		errs = append(errs, "товар выведен из ассортимента в ERP")
	}
	if product.Price.Valid {
		if msg := comparePrice("акционная цена", product.Price.Decimal, rec.ActionPrice); msg != "" {
			errs = append(errs, msg)
		}
	}
	if product.OriginalPrice.Valid {
		if msg := comparePrice("цена до акции", product.OriginalPrice.Decimal, rec.OriginalPrice); msg != "" {
			errs = append(errs, msg)
		}
	}
	if product.RequiresInstallationType() {
		erpType := ""
		if rec.InstallationType != nil {
			erpType = strings.TrimSpace(*rec.InstallationType)
		}
		if !strings.EqualFold(strings.TrimSpace(product.InstallationType), erpType) {
			errs = append(errs, fmt.Sprintf("тип установки «%s» не совпадает с ERP «%s»", product.InstallationType, erpType))
		}
	}
	return errs
}

func (i impl) CheckProductsExistence(ctx context.Context, eans []string) erpapimodels.ExistenceResponse {
	unique := make([]string, 0, len(eans))
	seen := map[string]bool{}
	for _, ean := range eans {
		ean = strings.TrimSpace(ean)
		if ean == "" || seen[ean] {
			continue
		}
		seen[ean] = true
		unique = append(unique, ean)
	}
	result := erpapimodels.ExistenceResponse{
		Items: make([]erpapimodels.ExistenceResult, 0, len(unique)),
	}
	discontinued, err := i.store.Discontinued(ctx, unique)
	if err != nil {
		log.WithError(err).Warn("ERP недоступна, проверка наличия завершена консервативно")
		result.Unavailable = true
		for _, ean := range unique {
			result.Items = append(result.Items, erpapimodels.ExistenceResult{EAN: ean, Exists: false, Discontinued: true})
		}
		return result
	}
	for _, ean := range unique {
		value, exists := discontinued[ean]
		result.Items = append(result.Items, erpapimodels.ExistenceResult{EAN: ean, Exists: exists, Discontinued: value})
	}
	return result
}

func comparePrice(name string, local decimal.Decimal, erp decimal.NullDecimal) string {
	if !erp.Valid {
		return fmt.Sprintf("%s %s не найдена в ERP", name, local.StringFixed(2))
	}
	if !priceEqual(local, erp) {
		return fmt.Sprintf("%s %s не совпадает с ERP %s", name, local.StringFixed(2), erp.Decimal.StringFixed(2))
	}
	return ""
}

// priceEqual сравнение цен с точностью до копеек
func priceEqual(local decimal.Decimal, erp decimal.NullDecimal) bool {
	if !erp.Valid {
		return false
	}
	return local.Round(2).Equal(erp.Decimal.Round(2))
}
