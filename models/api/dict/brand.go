package dictapimodels

import (
	dbmodels "flyer-backend/models/db"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type BrandData struct {
	Name  string `json:"name"`
	Color string `json:"color"` // #RRGGBB
}

func (r BrandData) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("не указано название бренда")
	}
	if r.Color != "" && !colorRe.MatchString(r.Color) {
		return errors.New("цвет бренда должен быть в формате #RRGGBB")
	}
	return nil
}

type BrandView struct {
	BrandData
	ID         string  `json:"id"`
	LogoFileID *string `json:"logo_file_id"`
}

func BrandConvert(rec dbmodels.Brand) BrandView {
	return BrandView{
		BrandData: BrandData{
			Name:  rec.Name,
			Color: rec.Color,
		},
		ID:         rec.ID,
		LogoFileID: rec.LogoFileID,
	}
}
