package flyerhandler

import (
	"flyer-backend/models"
	flyerapimodels "flyer-backend/models/api/flyer"
	productapimodels "flyer-backend/models/api/product"
	dbmodels "flyer-backend/models/db"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memDB общее состояние фейковых хранилищ
type memDB struct {
	mu       sync.Mutex
	flyers   map[string]*dbmodels.Flyer
	pages    map[string]*dbmodels.FlyerPage
	slots    []dbmodels.FlyerSlot
	products map[string]*dbmodels.Product
	promos   map[string]*dbmodels.PromoImage
}

func newMemDB() *memDB {
	return &memDB{
		flyers:   map[string]*dbmodels.Flyer{},
		pages:    map[string]*dbmodels.FlyerPage{},
		products: map[string]*dbmodels.Product{},
		promos:   map[string]*dbmodels.PromoImage{},
	}
}

func (m *memDB) stores() txStores {
	return txStores{
		flyer: &flyerStoreMock{m},
		page:  &pageStoreMock{m},
		slot:  &slotStoreMock{m},
	}
}

func (m *memDB) pageSlots(pageID string) []dbmodels.FlyerSlot {
	result := []dbmodels.FlyerSlot{}
	for _, slot := range m.slots {
		if slot.PageID == pageID {
			result = append(result, slot)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result
}

type flyerStoreMock struct{ m *memDB }

func (f *flyerStoreMock) Create(rec dbmodels.Flyer) (string, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	f.m.flyers[rec.ID] = &rec
	return rec.ID, nil
}

func (f *flyerStoreMock) GetByID(id string) (*dbmodels.Flyer, error) {
	rec, ok := f.m.flyers[id]
	if !ok {
		return nil, nil
	}
	result := *rec
	return &result, nil
}

func (f *flyerStoreMock) GetByIDForUpdate(id string) (*dbmodels.Flyer, error) {
	return f.GetByID(id)
}

func (f *flyerStoreMock) GetFull(id string) (*dbmodels.Flyer, error) {
	rec, err := f.GetByID(id)
	if err != nil || rec == nil {
		return rec, err
	}
	pages, _ := (&pageStoreMock{f.m}).List(id)
	for idx := range pages {
		pages[idx].Slots = f.m.pageSlots(pages[idx].ID)
	}
	rec.Pages = pages
	return rec, nil
}

func (f *flyerStoreMock) Update(id string, updMap map[string]interface{}) error {
	rec, ok := f.m.flyers[id]
	if !ok {
		return fmt.Errorf("flyer %s not found", id)
	}
	for k, v := range updMap {
		switch k {
		case "status":
			rec.Status = v.(models.FlyerStatus)
		case "is_draft":
			rec.IsDraft = v.(bool)
		case "rejection_reason":
			if v == nil {
				rec.RejectionReason = nil
			} else {
				reason := v.(string)
				rec.RejectionReason = &reason
			}
		case "name":
			rec.Name = v.(string)
		case "valid_from":
			rec.ValidFrom = v.(time.Time)
		case "valid_to":
			rec.ValidTo = v.(time.Time)
		case "action_id":
			rec.ActionID = v.(*string)
		default:
			return fmt.Errorf("unexpected flyer field %s", k)
		}
	}
	return nil
}

func (f *flyerStoreMock) Delete(id string) error {
	delete(f.m.flyers, id)
	return nil
}

func (f *flyerStoreMock) List(supplierID string, hideDrafts bool, filter flyerapimodels.FlyerFilter) ([]dbmodels.Flyer, int64, error) {
	result := []dbmodels.Flyer{}
	for _, rec := range f.m.flyers {
		if supplierID != "" && rec.SupplierID != supplierID {
			continue
		}
		if hideDrafts && rec.Status == models.FlyerStatusDraft {
			continue
		}
		result = append(result, *rec)
	}
	return result, int64(len(result)), nil
}

func (f *flyerStoreMock) ReadyToActivate(now time.Time) ([]string, error) {
	ids := []string{}
	for id, rec := range f.m.flyers {
		if rec.Status == models.FlyerStatusApproved && !now.Before(rec.ValidFrom) && !now.After(rec.ValidTo) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *flyerStoreMock) ProductIDs(id string) ([]string, error) {
	seen := map[string]bool{}
	ids := []string{}
	for _, slot := range f.m.slots {
		page, ok := f.m.pages[slot.PageID]
		if !ok || page.FlyerID != id || slot.ProductID == nil || seen[*slot.ProductID] {
			continue
		}
		seen[*slot.ProductID] = true
		ids = append(ids, *slot.ProductID)
	}
	return ids, nil
}

type pageStoreMock struct{ m *memDB }

func (p *pageStoreMock) Create(rec dbmodels.FlyerPage) (string, error) {
	for _, page := range p.m.pages {
		if page.FlyerID == rec.FlyerID && page.PageNumber == rec.PageNumber {
			return "", fmt.Errorf("duplicate page number %v", rec.PageNumber)
		}
	}
	rec.ID = uuid.NewString()
	p.m.pages[rec.ID] = &rec
	return rec.ID, nil
}

func (p *pageStoreMock) GetByID(flyerID, pageID string) (*dbmodels.FlyerPage, error) {
	rec, ok := p.m.pages[pageID]
	if !ok || rec.FlyerID != flyerID {
		return nil, nil
	}
	result := *rec
	result.Slots = p.m.pageSlots(pageID)
	return &result, nil
}

func (p *pageStoreMock) List(flyerID string) ([]dbmodels.FlyerPage, error) {
	result := []dbmodels.FlyerPage{}
	for _, rec := range p.m.pages {
		if rec.FlyerID == flyerID {
			result = append(result, *rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PageNumber < result[j].PageNumber })
	return result, nil
}

func (p *pageStoreMock) Update(flyerID, pageID string, updMap map[string]interface{}) error {
	rec, ok := p.m.pages[pageID]
	if !ok || rec.FlyerID != flyerID {
		return fmt.Errorf("page %s not found", pageID)
	}
	for k, v := range updMap {
		switch k {
		case "layout_type":
			rec.LayoutType = v.(models.LayoutType)
		default:
			return fmt.Errorf("unexpected page field %s", k)
		}
	}
	return nil
}

func (p *pageStoreMock) Delete(flyerID, pageID string) error {
	delete(p.m.pages, pageID)
	return nil
}

func (p *pageStoreMock) NextPageNumber(flyerID string) (int, error) {
	number := 0
	for _, rec := range p.m.pages {
		if rec.FlyerID == flyerID && rec.PageNumber > number {
			number = rec.PageNumber
		}
	}
	return number + 1, nil
}

func (p *pageStoreMock) Renumber(flyerID string) error {
	list, _ := p.List(flyerID)
	for idx, page := range list {
		p.m.pages[page.ID].PageNumber = idx + 1
	}
	return nil
}

// slotStoreMock повторяет уникальный индекс (page_id, position)
type slotStoreMock struct{ m *memDB }

func (s *slotStoreMock) ListByPage(pageID string) ([]dbmodels.FlyerSlot, error) {
	return s.m.pageSlots(pageID), nil
}

func (s *slotStoreMock) Create(list []dbmodels.FlyerSlot) error {
	for _, rec := range list {
		for _, slot := range s.m.slots {
			if slot.PageID == rec.PageID && slot.Position == rec.Position {
				return fmt.Errorf("duplicate key value violates unique constraint idx_page_position")
			}
		}
	}
	for _, rec := range list {
		rec.ID = uuid.NewString()
		s.m.slots = append(s.m.slots, rec)
	}
	return nil
}

func (s *slotStoreMock) deleteWhere(match func(slot dbmodels.FlyerSlot) bool) {
	result := []dbmodels.FlyerSlot{}
	for _, slot := range s.m.slots {
		if !match(slot) {
			result = append(result, slot)
		}
	}
	s.m.slots = result
}

func (s *slotStoreMock) DeleteProduct(pageID string, position int) error {
	s.deleteWhere(func(slot dbmodels.FlyerSlot) bool {
		return slot.PageID == pageID && slot.Position == position && slot.ProductID != nil
	})
	return nil
}

func (s *slotStoreMock) DeletePromo(pageID string, anchor int) error {
	s.deleteWhere(func(slot dbmodels.FlyerSlot) bool {
		return slot.PageID == pageID && slot.PromoImageID != nil && slot.AnchorPosition != nil && *slot.AnchorPosition == anchor
	})
	return nil
}

func (s *slotStoreMock) DeleteByPage(pageID string) error {
	s.deleteWhere(func(slot dbmodels.FlyerSlot) bool {
		return slot.PageID == pageID
	})
	return nil
}

type productStoreMock struct{ m *memDB }

func (p *productStoreMock) Create(rec dbmodels.Product) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	p.m.products[rec.ID] = &rec
	return rec.ID, nil
}

func (p *productStoreMock) GetByID(id string) (*dbmodels.Product, error) {
	rec, ok := p.m.products[id]
	if !ok {
		return nil, nil
	}
	result := *rec
	return &result, nil
}

func (p *productStoreMock) GetByIDs(ids []string) ([]dbmodels.Product, error) {
	return nil, nil
}

func (p *productStoreMock) Update(id string, updMap map[string]interface{}) error { return nil }

func (p *productStoreMock) Delete(id string) error { return nil }

func (p *productStoreMock) List(supplierID string, filter productapimodels.ProductFilter) ([]dbmodels.Product, int64, error) {
	return nil, 0, nil
}

func (p *productStoreMock) IsPlaced(id string) (bool, error) { return false, nil }

type promoStoreMock struct{ m *memDB }

func (p *promoStoreMock) Create(rec dbmodels.PromoImage) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	p.m.promos[rec.ID] = &rec
	return rec.ID, nil
}

func (p *promoStoreMock) GetByID(id string) (*dbmodels.PromoImage, error) {
	rec, ok := p.m.promos[id]
	if !ok {
		return nil, nil
	}
	result := *rec
	return &result, nil
}

func (p *promoStoreMock) List(supplierID string) ([]dbmodels.PromoImage, error) { return nil, nil }

func (p *promoStoreMock) Delete(id string) error { return nil }

func (p *promoStoreMock) IsPlaced(id string) (bool, error) { return false, nil }
