package flyerhandler

import (
	"context"
	"flyer-backend/db"
	pdfexport "flyer-backend/lib/export/pdf"
	filestorage "flyer-backend/lib/file-storage"
	pagestore "flyer-backend/lib/flyer/page-store"
	slotstore "flyer-backend/lib/flyer/slot-store"
	flyerstore "flyer-backend/lib/flyer/store"
	productstore "flyer-backend/lib/product/store"
	promoimagestore "flyer-backend/lib/promo-image/store"
	"flyer-backend/lib/slotgrid"
	"flyer-backend/models"
	flyerapimodels "flyer-backend/models/api/flyer"
	dbmodels "flyer-backend/models/db"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(supplierID string, data flyerapimodels.FlyerData) (id string, err error)
	Get(id, userID string, role models.UserRole) (flyerapimodels.FlyerView, error)
	List(userID string, role models.UserRole, filter flyerapimodels.FlyerFilter) (list []flyerapimodels.FlyerView, rowCount int64, err error)
	Update(id, userID string, role models.UserRole, data flyerapimodels.FlyerData) error
	Delete(id, userID string, role models.UserRole) error
	// Submit отправляет черновик или отклоненную листовку на проверку в ERP
	Submit(id, userID string, role models.UserRole) error
	Activate(id string) error
	// ActivateDue активирует все согласованные листовки, период действия которых начался
	ActivateDue(ctx context.Context) (activated int, err error)
	Pdf(ctx context.Context, id, userID string, role models.UserRole) ([]byte, error)

	AddPage(flyerID, userID string, role models.UserRole, data flyerapimodels.PageData) (flyerapimodels.PageView, error)
	ChangeLayout(flyerID, pageID, userID string, role models.UserRole, data flyerapimodels.PageData) error
	DeletePage(flyerID, pageID, userID string, role models.UserRole) error

	PlaceProduct(flyerID, pageID string, position int, userID string, role models.UserRole, request flyerapimodels.PlaceProductRequest) error
	RemoveProduct(flyerID, pageID string, position int, userID string, role models.UserRole) error
	PlacePromo(flyerID, pageID, userID string, role models.UserRole, request flyerapimodels.PlacePromoRequest) (flyerapimodels.SlotPromoView, error)
	RemovePromo(flyerID, pageID string, anchor int, userID string, role models.UserRole) error
}

var Instance Provider

// txStores хранилища, работающие в одной транзакции
type txStores struct {
	flyer flyerstore.Provider
	page  pagestore.Provider
	slot  slotstore.Provider
}

func newTxStores(tx *gorm.DB) txStores {
	return txStores{
		flyer: flyerstore.NewInstance(tx),
		page:  pagestore.NewInstance(tx),
		slot:  slotstore.NewInstance(tx),
	}
}

func NewHandler() {
	Instance = impl{
		stores:  newTxStores(db.DB),
		product: productstore.NewInstance(db.DB),
		promo:   promoimagestore.NewInstance(db.DB),
		files:   filestorage.Instance,
		pdf:     pdfexport.Instance,
		inTx: func(fn func(s txStores) error) error {
			return db.DB.Transaction(func(tx *gorm.DB) error {
				return fn(newTxStores(tx))
			})
		},
		now: time.Now,
	}
}

type impl struct {
	stores  txStores
	product productstore.Provider
	promo   promoimagestore.Provider
	files   filestorage.Provider
	pdf     pdfexport.Provider
	inTx    func(fn func(s txStores) error) error
	now     func() time.Time
}

func (i impl) Create(supplierID string, data flyerapimodels.FlyerData) (id string, err error) {
	validFrom, _ := data.GetValidFrom()
	validTo, _ := data.GetValidTo()
	rec := dbmodels.Flyer{
		SupplierID: supplierID,
		Name:       data.Name,
		Status:     models.FlyerStatusDraft,
		IsDraft:    true,
		ValidFrom:  validFrom,
		ValidTo:    validTo,
		ActionID:   data.GetActionID(),
	}
	id, err = i.stores.flyer.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания листовки")
	}
	log.WithField("flyer_id", id).WithField("supplier_id", supplierID).Info("листовка создана")
	return id, nil
}

func (i impl) Get(id, userID string, role models.UserRole) (flyerapimodels.FlyerView, error) {
	rec, err := i.stores.flyer.GetFull(id)
	if err != nil {
		return flyerapimodels.FlyerView{}, err
	}
	if err = checkView(rec, userID, role); err != nil {
		return flyerapimodels.FlyerView{}, err
	}
	return flyerapimodels.FlyerConvert(*rec), nil
}

func (i impl) List(userID string, role models.UserRole, filter flyerapimodels.FlyerFilter) (list []flyerapimodels.FlyerView, rowCount int64, err error) {
	supplierID := filter.SupplierID
	if role == models.UserRoleSupplier {
		supplierID = userID
	}
	recList, rowCount, err := i.stores.flyer.List(supplierID, role == models.UserRoleApprover, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]flyerapimodels.FlyerView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, flyerapimodels.FlyerConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Update(id, userID string, role models.UserRole, data flyerapimodels.FlyerData) error {
	return i.inTx(func(s txStores) error {
		_, err := lockEditable(s, id, userID, role)
		if err != nil {
			return err
		}
		validFrom, _ := data.GetValidFrom()
		validTo, _ := data.GetValidTo()
		updMap := map[string]interface{}{
			"name":       data.Name,
			"valid_from": validFrom,
			"valid_to":   validTo,
			"action_id":  data.GetActionID(),
		}
		return s.flyer.Update(id, updMap)
	})
}

func (i impl) Delete(id, userID string, role models.UserRole) error {
	return i.inTx(func(s txStores) error {
		rec, err := s.flyer.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if rec == nil {
			return models.ErrFlyerNotFound
		}
		if role != models.UserRoleAdmin {
			if rec.SupplierID != userID {
				return models.ErrForbidden
			}
			if !rec.Status.IsEditable() {
				return models.ErrFlyerNotEditable
			}
		}
		err = s.flyer.Delete(id)
		if err != nil {
			return errors.Wrap(err, "ошибка удаления листовки")
		}
		log.WithField("flyer_id", id).Info("листовка удалена")
		return nil
	})
}

func (i impl) Submit(id, userID string, role models.UserRole) error {
	return i.inTx(func(s txStores) error {
		rec, err := lockEditable(s, id, userID, role)
		if err != nil {
			return err
		}
		if !rec.Status.IsAllowChange(models.FlyerStatusPendingVerification) {
			return models.ErrStatusChange
		}
		productIDs, err := s.flyer.ProductIDs(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения товаров листовки")
		}
		if len(productIDs) == 0 {
			return models.ErrFlyerEmpty
		}
		updMap := map[string]interface{}{
			"status":           models.FlyerStatusPendingVerification,
			"is_draft":         false,
			"rejection_reason": nil,
		}
		err = s.flyer.Update(id, updMap)
		if err != nil {
			return errors.Wrap(err, "ошибка изменения статуса листовки")
		}
		log.WithField("flyer_id", id).Info("листовка отправлена на проверку")
		return nil
	})
}

func (i impl) Activate(id string) error {
	return i.inTx(func(s txStores) error {
		rec, err := s.flyer.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if rec == nil {
			return models.ErrFlyerNotFound
		}
		if !rec.Status.IsAllowChange(models.FlyerStatusActive) {
			return models.ErrStatusChange
		}
		now := i.now()
		if now.Before(rec.ValidFrom) {
			return models.ErrNotYetValid
		}
		return s.flyer.Update(id, map[string]interface{}{"status": models.FlyerStatusActive})
	})
}

func (i impl) ActivateDue(ctx context.Context) (activated int, err error) {
	ids, err := i.stores.flyer.ReadyToActivate(i.now())
	if err != nil {
		return 0, errors.Wrap(err, "ошибка получения листовок для активации")
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return activated, nil
		}
		err = i.Activate(id)
		if err != nil {
			// листовку могли изменить между выборкой и активацией
			log.WithError(err).WithField("flyer_id", id).Warn("листовка не активирована")
			continue
		}
		log.WithField("flyer_id", id).Info("листовка активирована")
		activated++
	}
	return activated, nil
}

func (i impl) Pdf(ctx context.Context, id, userID string, role models.UserRole) ([]byte, error) {
	rec, err := i.stores.flyer.GetFull(id)
	if err != nil {
		return nil, err
	}
	if err = checkView(rec, userID, role); err != nil {
		return nil, err
	}
	images := map[string]*models.File{}
	for _, page := range rec.Pages {
		for _, slot := range page.Slots {
			if slot.PromoImage == nil || slot.PromoImage.File == nil {
				continue
			}
			fileID := slot.PromoImage.FileID
			if _, ok := images[fileID]; ok {
				continue
			}
			file, err := i.files.GetFile(ctx, fileID)
			if err != nil {
				// без изображения промо выводится заглушкой
				log.WithError(err).WithField("file_id", fileID).Warn("ошибка получения промо-изображения")
				images[fileID] = nil
				continue
			}
			images[fileID] = file
		}
	}
	return i.pdf.RenderFlyer(*rec, images)
}

func (i impl) AddPage(flyerID, userID string, role models.UserRole, data flyerapimodels.PageData) (flyerapimodels.PageView, error) {
	var result flyerapimodels.PageView
	err := i.inTx(func(s txStores) error {
		_, err := lockEditable(s, flyerID, userID, role)
		if err != nil {
			return err
		}
		number, err := s.page.NextPageNumber(flyerID)
		if err != nil {
			return err
		}
		rec := dbmodels.FlyerPage{
			FlyerID:    flyerID,
			PageNumber: number,
			LayoutType: data.LayoutType,
		}
		rec.ID, err = s.page.Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка добавления страницы")
		}
		result = flyerapimodels.PageConvert(rec)
		return nil
	})
	return result, err
}

func (i impl) ChangeLayout(flyerID, pageID, userID string, role models.UserRole, data flyerapimodels.PageData) error {
	return i.inTx(func(s txStores) error {
		_, err := lockEditable(s, flyerID, userID, role)
		if err != nil {
			return err
		}
		page, err := s.page.GetByID(flyerID, pageID)
		if err != nil {
			return err
		}
		if page == nil {
			return models.ErrPageNotFound
		}
		if page.LayoutType == data.LayoutType {
			return nil
		}
		if len(page.Slots) != 0 {
			return models.ErrPageNotEmpty
		}
		return s.page.Update(flyerID, pageID, map[string]interface{}{"layout_type": data.LayoutType})
	})
}

func (i impl) DeletePage(flyerID, pageID, userID string, role models.UserRole) error {
	return i.inTx(func(s txStores) error {
		_, err := lockEditable(s, flyerID, userID, role)
		if err != nil {
			return err
		}
		page, err := s.page.GetByID(flyerID, pageID)
		if err != nil {
			return err
		}
		if page == nil {
			return models.ErrPageNotFound
		}
		err = s.slot.DeleteByPage(pageID)
		if err != nil {
			return errors.Wrap(err, "ошибка удаления содержимого страницы")
		}
		err = s.page.Delete(flyerID, pageID)
		if err != nil {
			return errors.Wrap(err, "ошибка удаления страницы")
		}
		return s.page.Renumber(flyerID)
	})
}

func (i impl) PlaceProduct(flyerID, pageID string, position int, userID string, role models.UserRole, request flyerapimodels.PlaceProductRequest) error {
	return i.inTx(func(s txStores) error {
		flyer, page, grid, err := loadPage(s, flyerID, pageID, userID, role)
		if err != nil {
			return err
		}
		product, err := i.product.GetByID(request.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return models.NewNotFoundError("PRODUCT_NOT_FOUND", "товар не найден")
		}
		if product.SupplierID != flyer.SupplierID {
			return models.ErrForbidden
		}
		err = grid.PlaceProduct(position, product.ID)
		if err != nil {
			return err
		}
		return s.slot.Create([]dbmodels.FlyerSlot{
			{
				PageID:    page.ID,
				Position:  position,
				ProductID: &product.ID,
			},
		})
	})
}

func (i impl) RemoveProduct(flyerID, pageID string, position int, userID string, role models.UserRole) error {
	return i.inTx(func(s txStores) error {
		_, page, grid, err := loadPage(s, flyerID, pageID, userID, role)
		if err != nil {
			return err
		}
		_, err = grid.RemoveProduct(position)
		if err != nil {
			return err
		}
		return s.slot.DeleteProduct(page.ID, position)
	})
}

func (i impl) PlacePromo(flyerID, pageID, userID string, role models.UserRole, request flyerapimodels.PlacePromoRequest) (flyerapimodels.SlotPromoView, error) {
	var result flyerapimodels.SlotPromoView
	err := i.inTx(func(s txStores) error {
		flyer, page, grid, err := loadPage(s, flyerID, pageID, userID, role)
		if err != nil {
			return err
		}
		promo, err := i.promo.GetByID(request.PromoImageID)
		if err != nil {
			return err
		}
		if promo == nil {
			return models.NewNotFoundError("PROMO_IMAGE_NOT_FOUND", "промо-изображение не найдено")
		}
		if promo.SupplierID != flyer.SupplierID {
			return models.ErrForbidden
		}
		size := request.Size
		if size == "" {
			size = promo.Size
		}
		occupant, err := grid.PlacePromo(request.Anchor, size, promo.ID)
		if err != nil {
			return err
		}
		err = s.slot.Create(promoSlots(page.ID, occupant))
		if err != nil {
			return errors.Wrap(err, "ошибка размещения промо-изображения")
		}
		result = flyerapimodels.SlotPromoView{
			Anchor:       occupant.Anchor,
			Size:         occupant.PromoSize,
			Cells:        occupant.Cells,
			PromoImageID: promo.ID,
			Name:         promo.Name,
		}
		return nil
	})
	return result, err
}

func (i impl) RemovePromo(flyerID, pageID string, anchor int, userID string, role models.UserRole) error {
	return i.inTx(func(s txStores) error {
		_, page, grid, err := loadPage(s, flyerID, pageID, userID, role)
		if err != nil {
			return err
		}
		_, err = grid.RemovePromo(anchor)
		if err != nil {
			return err
		}
		return s.slot.DeletePromo(page.ID, anchor)
	})
}

// lockEditable блокирует строку листовки до конца транзакции, изменения страниц выполняются по очереди
func lockEditable(s txStores, flyerID, userID string, role models.UserRole) (*dbmodels.Flyer, error) {
	rec, err := s.flyer.GetByIDForUpdate(flyerID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, models.ErrFlyerNotFound
	}
	if role != models.UserRoleAdmin && rec.SupplierID != userID {
		return nil, models.ErrForbidden
	}
	if !rec.Status.IsEditable() {
		return nil, models.ErrFlyerNotEditable
	}
	return rec, nil
}

func loadPage(s txStores, flyerID, pageID, userID string, role models.UserRole) (*dbmodels.Flyer, *dbmodels.FlyerPage, *slotgrid.Grid, error) {
	flyer, err := lockEditable(s, flyerID, userID, role)
	if err != nil {
		return nil, nil, nil, err
	}
	page, err := s.page.GetByID(flyerID, pageID)
	if err != nil {
		return nil, nil, nil, err
	}
	if page == nil {
		return nil, nil, nil, models.ErrPageNotFound
	}
	slots, err := s.slot.ListByPage(pageID)
	if err != nil {
		return nil, nil, nil, err
	}
	grid, err := slotgrid.LoadGrid(page.LayoutType, toOccupants(slots))
	if err != nil {
		return nil, nil, nil, err
	}
	return flyer, page, grid, nil
}

// toOccupants промо собирается из якорной строки, остальные строки диапазона пропускаются
func toOccupants(slots []dbmodels.FlyerSlot) []slotgrid.Occupant {
	result := make([]slotgrid.Occupant, 0, len(slots))
	for _, slot := range slots {
		if slot.IsPromo() {
			if slot.AnchorPosition == nil || *slot.AnchorPosition != slot.Position {
				continue
			}
			result = append(result, slotgrid.Occupant{
				PromoImageID: *slot.PromoImageID,
				PromoSize:    slot.PromoSize,
				Anchor:       slot.Position,
			})
			continue
		}
		if slot.ProductID == nil {
			continue
		}
		result = append(result, slotgrid.Occupant{
			ProductID: *slot.ProductID,
			Anchor:    slot.Position,
		})
	}
	return result
}

func promoSlots(pageID string, occupant slotgrid.Occupant) []dbmodels.FlyerSlot {
	span := make(pq.Int64Array, 0, len(occupant.Cells))
	for _, cell := range occupant.Cells {
		span = append(span, int64(cell))
	}
	result := make([]dbmodels.FlyerSlot, 0, len(occupant.Cells))
	for _, cell := range occupant.Cells {
		promoImageID := occupant.PromoImageID
		anchor := occupant.Anchor
		result = append(result, dbmodels.FlyerSlot{
			PageID:         pageID,
			Position:       cell,
			PromoImageID:   &promoImageID,
			PromoSize:      occupant.PromoSize,
			AnchorPosition: &anchor,
			SpanCells:      span,
		})
	}
	return result
}

func checkView(rec *dbmodels.Flyer, userID string, role models.UserRole) error {
	if rec == nil {
		return models.ErrFlyerNotFound
	}
	switch role {
	case models.UserRoleAdmin:
		return nil
	case models.UserRoleSupplier:
		if rec.SupplierID != userID {
			return models.ErrForbidden
		}
		return nil
	case models.UserRoleApprover:
		if rec.Status == models.FlyerStatusDraft {
			return models.ErrForbidden
		}
		return nil
	}
	return models.ErrForbidden
}
