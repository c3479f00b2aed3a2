package promoapimodels

import (
	"flyer-backend/lib/slotgrid"
	"flyer-backend/models"
	dbmodels "flyer-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type PromoImageData struct {
	Name string           `json:"name"`
	Size models.PromoSize `json:"size"`
}

func (r PromoImageData) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("не указано название промо-изображения")
	}
	if !slotgrid.IsValidPromoSize(r.Size) {
		return models.ErrInvalidPromoSize
	}
	return nil
}

type PromoImageView struct {
	PromoImageData
	ID           string    `json:"id"`
	SupplierID   string    `json:"supplier_id"`
	ContentType  string    `json:"content_type"`
	FileSize     int64     `json:"file_size"`
	CreationDate time.Time `json:"creation_date"`
}

func PromoImageConvert(rec dbmodels.PromoImage) PromoImageView {
	result := PromoImageView{
		PromoImageData: PromoImageData{
			Name: rec.Name,
			Size: rec.Size,
		},
		ID:           rec.ID,
		SupplierID:   rec.SupplierID,
		CreationDate: rec.CreatedAt,
	}
	if rec.File != nil {
		result.ContentType = rec.File.ContentType
		result.FileSize = rec.File.Size
	}
	return result
}
