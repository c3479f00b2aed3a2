package dictapimodels

import (
	dbmodels "flyer-backend/models/db"
	"strings"

	"github.com/pkg/errors"
)

type CategoryData struct {
	Name                     string `json:"name"`
	RequiresInstallationType bool   `json:"requires_installation_type"` // сверять тип установки товара с ERP
}

func (r CategoryData) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("не указано название категории")
	}
	return nil
}

type CategoryView struct {
	CategoryData
	ID         string  `json:"id"`
	IconFileID *string `json:"icon_file_id"`
}

func CategoryConvert(rec dbmodels.Category) CategoryView {
	return CategoryView{
		CategoryData: CategoryData{
			Name:                     rec.Name,
			RequiresInstallationType: rec.RequiresInstallationType,
		},
		ID:         rec.ID,
		IconFileID: rec.IconFileID,
	}
}
