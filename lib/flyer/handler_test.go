package flyerhandler

import (
	"context"
	"flyer-backend/models"
	flyerapimodels "flyer-backend/models/api/flyer"
	dbmodels "flyer-backend/models/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	supplierID = "supplier-1"
	otherID    = "supplier-2"
)

type testEnv struct {
	h   impl
	m   *memDB
	now time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	m := newMemDB()
	env := &testEnv{m: m, now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	env.h = impl{
		stores:  m.stores(),
		product: &productStoreMock{m},
		promo:   &promoStoreMock{m},
		inTx: func(fn func(s txStores) error) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			return fn(m.stores())
		},
		now: func() time.Time { return env.now },
	}
	m.products["p1"] = &dbmodels.Product{BaseModel: dbmodels.BaseModel{ID: "p1"}, SupplierID: supplierID, EAN: "8003437041402"}
	m.products["p2"] = &dbmodels.Product{BaseModel: dbmodels.BaseModel{ID: "p2"}, SupplierID: supplierID, EAN: "5900000000001"}
	m.products["foreign"] = &dbmodels.Product{BaseModel: dbmodels.BaseModel{ID: "foreign"}, SupplierID: otherID}
	m.promos["square"] = &dbmodels.PromoImage{BaseModel: dbmodels.BaseModel{ID: "square"}, SupplierID: supplierID, Name: "Jaro", Size: models.PromoSizeSquare}
	return env
}

func (env *testEnv) createFlyer(t *testing.T) string {
	id, err := env.h.Create(supplierID, flyerapimodels.FlyerData{Name: "Jarní akce", ValidFrom: "01.03.2026", ValidTo: "31.03.2026"})
	require.NoError(t, err)
	return id
}

func (env *testEnv) addPage(t *testing.T, flyerID string, layout models.LayoutType) string {
	page, err := env.h.AddPage(flyerID, supplierID, models.UserRoleSupplier, flyerapimodels.PageData{LayoutType: layout})
	require.NoError(t, err)
	return page.ID
}

func TestFlyerCrud(t *testing.T) {
	t.Run(`создание черновика`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createFlyer(t)
		view, err := env.h.Get(id, supplierID, models.UserRoleSupplier)
		require.NoError(t, err)
		require.Equal(t, models.FlyerStatusDraft, view.Status)
		require.True(t, view.IsDraft)
		require.Equal(t, "01.03.2026", view.ValidFrom)
	})
	t.Run(`доступ на просмотр`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createFlyer(t)
		_, err := env.h.Get(id, otherID, models.UserRoleSupplier)
		require.ErrorIs(t, err, models.ErrForbidden)
		_, err = env.h.Get(id, "approver", models.UserRoleApprover)
		require.ErrorIs(t, err, models.ErrForbidden)
		_, err = env.h.Get(id, "admin", models.UserRoleAdmin)
		require.NoError(t, err)
		_, err = env.h.Get("missing", "admin", models.UserRoleAdmin)
		require.ErrorIs(t, err, models.ErrFlyerNotFound)
	})
	t.Run(`список поставщика только свои листовки`, func(t *testing.T) {
		env := newTestEnv(t)
		env.createFlyer(t)
		_, err := env.h.Create(otherID, flyerapimodels.FlyerData{Name: "Cizí", ValidFrom: "01.03.2026", ValidTo: "31.03.2026"})
		require.NoError(t, err)
		list, count, err := env.h.List(supplierID, models.UserRoleSupplier, flyerapimodels.FlyerFilter{SupplierID: otherID})
		require.NoError(t, err)
		require.EqualValues(t, 1, count)
		require.Equal(t, supplierID, list[0].SupplierID)
		_, count, err = env.h.List("approver", models.UserRoleApprover, flyerapimodels.FlyerFilter{})
		require.NoError(t, err)
		require.EqualValues(t, 0, count)
	})
	t.Run(`изменение только в редактируемом статусе`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createFlyer(t)
		actionID := " AKCE-1 "
		err := env.h.Update(id, supplierID, models.UserRoleSupplier, flyerapimodels.FlyerData{Name: "Nový název", ValidFrom: "02.03.2026", ValidTo: "30.03.2026", ActionID: &actionID})
		require.NoError(t, err)
		require.Equal(t, "Nový název", env.m.flyers[id].Name)
		require.Equal(t, "AKCE-1", *env.m.flyers[id].ActionID)

		env.m.flyers[id].Status = models.FlyerStatusPendingApproval
		err = env.h.Update(id, supplierID, models.UserRoleSupplier, flyerapimodels.FlyerData{Name: "X", ValidFrom: "02.03.2026", ValidTo: "30.03.2026"})
		require.ErrorIs(t, err, models.ErrFlyerNotEditable)
		err = env.h.Delete(id, supplierID, models.UserRoleSupplier)
		require.ErrorIs(t, err, models.ErrFlyerNotEditable)
		require.NoError(t, env.h.Delete(id, "admin", models.UserRoleAdmin))
		require.Empty(t, env.m.flyers)
	})
}

func TestPages(t *testing.T) {
	t.Run(`нумерация страниц после удаления`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createFlyer(t)
		first := env.addPage(t, id, models.Layout8)
		second := env.addPage(t, id, models.Layout6)
		third := env.addPage(t, id, models.Layout4)
		require.Equal(t, 3, env.m.pages[third].PageNumber)

		require.NoError(t, env.h.PlaceProduct(id, first, 0, supplierID, models.UserRoleSupplier, flyerapimodels.PlaceProductRequest{ProductID: "p1"}))
		require.NoError(t, env.h.DeletePage(id, first, supplierID, models.UserRoleSupplier))
		require.Equal(t, 1, env.m.pages[second].PageNumber)
		require.Equal(t, 2, env.m.pages[third].PageNumber)
		require.Empty(t, env.m.slots)
	})
	t.Run(`схему можно сменить только у пустой страницы`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createFlyer(t)
		pageID := env.addPage(t, id, models.Layout8)
		require.NoError(t, env.h.ChangeLayout(id, pageID, supplierID, models.UserRoleSupplier, flyerapimodels.PageData{LayoutType: models.Layout4}))
		require.Equal(t, models.Layout4, env.m.pages[pageID].LayoutType)

		require.NoError(t, env.h.PlaceProduct(id, pageID, 3, supplierID, models.UserRoleSupplier, flyerapimodels.PlaceProductRequest{ProductID: "p1"}))
		err := env.h.ChangeLayout(id, pageID, supplierID, models.UserRoleSupplier, flyerapimodels.PageData{LayoutType: models.Layout2})
		require.ErrorIs(t, err, models.ErrPageNotEmpty)
	})
	t.Run(`страница чужой листовки`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createFlyer(t)
		_, err := env.h.AddPage(id, otherID, models.UserRoleSupplier, flyerapimodels.PageData{LayoutType: models.Layout8})
		require.ErrorIs(t, err, models.ErrForbidden)
		err = env.h.DeletePage(id, "missing", supplierID, models.UserRoleSupplier)
		require.ErrorIs(t, err, models.ErrPageNotFound)
	})
}

func TestSlots(t *testing.T) {
	t.Run(`товар в занятую ячейку`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createFlyer(t)
		pageID := env.addPage(t, id, models.Layout8)
		require.NoError(t, env.h.PlaceProduct(id, pageID, 1, supplierID, models.UserRoleSupplier, flyerapimodels.PlaceProductRequest{ProductID: "p1"}))
		err := env.h.PlaceProduct(id, pageID, 1, supplierID, models.UserRoleSupplier, flyerapimodels.PlaceProductRequest{ProductID: "p2"})
		require.ErrorIs(t, err, models.ErrSlotOccupied)
		err = env.h.PlaceProduct(id, pageID, 8, supplierID, models.UserRoleSupplier, flyerapimodels.PlaceProductRequest{ProductID: "p2"})
		require.ErrorIs(t, err, models.ErrInvalidPosition)
		err = env.h.PlaceProduct(id, pageID, 2, supplierID, models.UserRoleSupplier, flyerapimodels.PlaceProductRequest{ProductID: "foreign"})
		require.ErrorIs(t, err, models.ErrForbidden)
		require.Len(t, env.m.slots, 1)

		require.NoError(t, env.h.RemoveProduct(id, pageID, 1, supplierID, models.UserRoleSupplier))
		require.Empty(t, env.m.slots)
		err = env.h.RemoveProduct(id, pageID, 1, supplierID, models.UserRoleSupplier)
		require.ErrorIs(t, err, models.ErrSlotEmpty)
	})
	t.Run(`промо занимает весь диапазон и удаляется целиком`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createFlyer(t)
		pageID := env.addPage(t, id, models.Layout8)
		promo, err := env.h.PlacePromo(id, pageID, supplierID, models.UserRoleSupplier, flyerapimodels.PlacePromoRequest{PromoImageID: "square", Anchor: 1})
		require.NoError(t, err)
		require.Equal(t, models.PromoSizeSquare, promo.Size)
		require.Equal(t, []int{1, 2, 5, 6}, promo.Cells)
		require.Len(t, env.m.slots, 4)

		err = env.h.PlaceProduct(id, pageID, 6, supplierID, models.UserRoleSupplier, flyerapimodels.PlaceProductRequest{ProductID: "p1"})
		require.ErrorIs(t, err, models.ErrSlotOccupied)

		err = env.h.RemovePromo(id, pageID, 2, supplierID, models.UserRoleSupplier)
		require.ErrorIs(t, err, models.ErrPromoNotFound)
		require.NoError(t, env.h.RemovePromo(id, pageID, 1, supplierID, models.UserRoleSupplier))
		require.Empty(t, env.m.slots)
	})
	t.Run(`пересечение промо с товаром не меняет страницу`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createFlyer(t)
		pageID := env.addPage(t, id, models.Layout8)
		require.NoError(t, env.h.PlaceProduct(id, pageID, 5, supplierID, models.UserRoleSupplier, flyerapimodels.PlaceProductRequest{ProductID: "p1"}))
		_, err := env.h.PlacePromo(id, pageID, supplierID, models.UserRoleSupplier, flyerapimodels.PlacePromoRequest{PromoImageID: "square", Anchor: 0})
		require.ErrorIs(t, err, models.ErrSlotConflict)
		require.Len(t, env.m.slots, 1)
	})
	t.Run(`размер промо из запроса и выход за сетку`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createFlyer(t)
		pageID := env.addPage(t, id, models.Layout8)
		_, err := env.h.PlacePromo(id, pageID, supplierID, models.UserRoleSupplier, flyerapimodels.PlacePromoRequest{PromoImageID: "square", Anchor: 3, Size: models.PromoSizeHorizontal})
		require.ErrorIs(t, err, models.ErrInvalidPlacement)
		promo, err := env.h.PlacePromo(id, pageID, supplierID, models.UserRoleSupplier, flyerapimodels.PlacePromoRequest{PromoImageID: "square", Anchor: 0, Size: models.PromoSizeFullPage})
		require.NoError(t, err)
		require.Len(t, promo.Cells, 8)

		view, err := env.h.Get(id, supplierID, models.UserRoleSupplier)
		require.NoError(t, err)
		require.Len(t, view.Pages, 1)
		require.Len(t, view.Pages[0].Promos, 1)
		require.Empty(t, view.Pages[0].Products)
	})
	t.Run(`страница не меняется после отправки на проверку`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createFlyer(t)
		pageID := env.addPage(t, id, models.Layout8)
		require.NoError(t, env.h.PlaceProduct(id, pageID, 0, supplierID, models.UserRoleSupplier, flyerapimodels.PlaceProductRequest{ProductID: "p1"}))
		require.NoError(t, env.h.Submit(id, supplierID, models.UserRoleSupplier))
		err := env.h.PlaceProduct(id, pageID, 1, supplierID, models.UserRoleSupplier, flyerapimodels.PlaceProductRequest{ProductID: "p2"})
		require.ErrorIs(t, err, models.ErrFlyerNotEditable)
	})
}

func TestSubmit(t *testing.T) {
	t.Run(`пустая листовка`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createFlyer(t)
		env.addPage(t, id, models.Layout8)
		err := env.h.Submit(id, supplierID, models.UserRoleSupplier)
		require.ErrorIs(t, err, models.ErrFlyerEmpty)
	})
	t.Run(`повторная отправка после отклонения сбрасывает причину`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createFlyer(t)
		pageID := env.addPage(t, id, models.Layout8)
		require.NoError(t, env.h.PlaceProduct(id, pageID, 0, supplierID, models.UserRoleSupplier, flyerapimodels.PlaceProductRequest{ProductID: "p1"}))
		reason := "chybí logo"
		env.m.flyers[id].Status = models.FlyerStatusRejected
		env.m.flyers[id].RejectionReason = &reason

		require.NoError(t, env.h.Submit(id, supplierID, models.UserRoleSupplier))
		rec := env.m.flyers[id]
		require.Equal(t, models.FlyerStatusPendingVerification, rec.Status)
		require.False(t, rec.IsDraft)
		require.Nil(t, rec.RejectionReason)

		err := env.h.Submit(id, supplierID, models.UserRoleSupplier)
		require.ErrorIs(t, err, models.ErrFlyerNotEditable)
	})
}

func TestActivate(t *testing.T) {
	t.Run(`активация согласованной листовки`, func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createFlyer(t)
		err := env.h.Activate(id)
		require.ErrorIs(t, err, models.ErrStatusChange)

		env.m.flyers[id].Status = models.FlyerStatusApproved
		env.now = time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
		err = env.h.Activate(id)
		require.ErrorIs(t, err, models.ErrNotYetValid)

		env.now = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
		require.NoError(t, env.h.Activate(id))
		require.Equal(t, models.FlyerStatusActive, env.m.flyers[id].Status)
	})
	t.Run(`фоновая активация`, func(t *testing.T) {
		env := newTestEnv(t)
		ready := env.createFlyer(t)
		draft := env.createFlyer(t)
		env.m.flyers[ready].Status = models.FlyerStatusApproved
		future, err := env.h.Create(supplierID, flyerapimodels.FlyerData{Name: "Letní akce", ValidFrom: "01.06.2026", ValidTo: "30.06.2026"})
		require.NoError(t, err)
		env.m.flyers[future].Status = models.FlyerStatusApproved

		activated, err := env.h.ActivateDue(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, activated)
		require.Equal(t, models.FlyerStatusActive, env.m.flyers[ready].Status)
		require.Equal(t, models.FlyerStatusDraft, env.m.flyers[draft].Status)
		require.Equal(t, models.FlyerStatusApproved, env.m.flyers[future].Status)
	})
}

func TestToOccupants(t *testing.T) {
	productID := "p1"
	promoID := "i1"
	anchor := 2
	slots := []dbmodels.FlyerSlot{
		{Position: 0, ProductID: &productID},
		{Position: 2, PromoImageID: &promoID, PromoSize: models.PromoSizeHorizontal, AnchorPosition: &anchor},
		{Position: 3, PromoImageID: &promoID, PromoSize: models.PromoSizeHorizontal, AnchorPosition: &anchor},
	}
	occupants := toOccupants(slots)
	require.Len(t, occupants, 2)
	require.Equal(t, "p1", occupants[0].ProductID)
	require.Equal(t, "i1", occupants[1].PromoImageID)
	require.Equal(t, 2, occupants[1].Anchor)
}
