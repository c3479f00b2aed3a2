package flyerapimodels

import (
	"flyer-backend/lib/slotgrid"
	"flyer-backend/models"
	productapimodels "flyer-backend/models/api/product"
	dbmodels "flyer-backend/models/db"
	"sort"

	"github.com/pkg/errors"
)

type PageData struct {
	LayoutType models.LayoutType `json:"layout_type"` // LAYOUT_8, LAYOUT_6, LAYOUT_4, LAYOUT_2
}

func (p PageData) Validate() error {
	_, _, err := slotgrid.Dimensions(p.LayoutType)
	return err
}

type PageView struct {
	ID         string            `json:"id"`
	PageNumber int               `json:"page_number"`
	LayoutType models.LayoutType `json:"layout_type"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Products   []SlotProductView `json:"products"`
	Promos     []SlotPromoView   `json:"promos"`
}

type SlotProductView struct {
	Position int                           `json:"position"`
	Product  *productapimodels.ProductView `json:"product"`
}

type SlotPromoView struct {
	Anchor       int              `json:"anchor"`
	Size         models.PromoSize `json:"size"`
	Cells        []int            `json:"cells"`
	PromoImageID string           `json:"promo_image_id"`
	Name         string           `json:"name"`
}

func PageConvert(rec dbmodels.FlyerPage) PageView {
	width, height, _ := slotgrid.Dimensions(rec.LayoutType)
	result := PageView{
		ID:         rec.ID,
		PageNumber: rec.PageNumber,
		LayoutType: rec.LayoutType,
		Width:      width,
		Height:     height,
		Products:   []SlotProductView{},
		Promos:     []SlotPromoView{},
	}
	for _, slot := range rec.Slots {
		if slot.IsPromo() {
			// промо хранится по строке на каждую ячейку, в ответ отдаем только якорную
			if slot.AnchorPosition == nil || *slot.AnchorPosition != slot.Position {
				continue
			}
			promo := SlotPromoView{
				Anchor:       slot.Position,
				Size:         slot.PromoSize,
				PromoImageID: *slot.PromoImageID,
				Cells:        make([]int, 0, len(slot.SpanCells)),
			}
			for _, cell := range slot.SpanCells {
				promo.Cells = append(promo.Cells, int(cell))
			}
			if slot.PromoImage != nil {
				promo.Name = slot.PromoImage.Name
			}
			result.Promos = append(result.Promos, promo)
			continue
		}
		if slot.ProductID == nil {
			continue
		}
		item := SlotProductView{
			Position: slot.Position,
		}
		if slot.Product != nil {
			product := productapimodels.ProductConvert(*slot.Product)
			item.Product = &product
		}
		result.Products = append(result.Products, item)
	}
	sort.Slice(result.Products, func(i, j int) bool { return result.Products[i].Position < result.Products[j].Position })
	sort.Slice(result.Promos, func(i, j int) bool { return result.Promos[i].Anchor < result.Promos[j].Anchor })
	return result
}

type PlaceProductRequest struct {
	ProductID string `json:"product_id"`
}

func (r PlaceProductRequest) Validate() error {
	if r.ProductID == "" {
		return errors.New("не указан товар")
	}
	return nil
}

type PlacePromoRequest struct {
	PromoImageID string           `json:"promo_image_id"`
	Anchor       int              `json:"anchor"` // левая верхняя ячейка
	Size         models.PromoSize `json:"size"`   // если не указан, берется размер промо-изображения
}

func (r PlacePromoRequest) Validate() error {
	if r.PromoImageID == "" {
		return errors.New("не указано промо-изображение")
	}
	if r.Anchor < 0 {
		return errors.New("некорректная позиция промо-изображения")
	}
	if r.Size != "" && !slotgrid.IsValidPromoSize(r.Size) {
		return errors.New("неизвестный размер промо-изображения")
	}
	return nil
}
