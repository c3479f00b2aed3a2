package flyerapimodels

import (
	"flyer-backend/models"
	apimodels "flyer-backend/models/api"
	dbmodels "flyer-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const dateLayout = "02.01.2006"

type FlyerData struct {
	Name      string  `json:"name"`       // название листовки
	ValidFrom string  `json:"valid_from"` // начало действия ДД.ММ.ГГГГ
	ValidTo   string  `json:"valid_to"`   // окончание действия ДД.ММ.ГГГГ
	ActionID  *string `json:"action_id"`  // идентификатор акции в ERP
}

func (f FlyerData) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("не указано название листовки")
	}
	from, err := f.GetValidFrom()
	if err != nil {
		return err
	}
	to, err := f.GetValidTo()
	if err != nil {
		return err
	}
	if to.Before(from) {
		return errors.New("дата окончания действия раньше даты начала")
	}
	return nil
}

func (f FlyerData) GetValidFrom() (time.Time, error) {
	t, err := time.Parse(dateLayout, f.ValidFrom)
	if err != nil {
		return time.Time{}, errors.New("некорректная дата начала действия, ожидается ДД.ММ.ГГГГ")
	}
	return t, nil
}

func (f FlyerData) GetValidTo() (time.Time, error) {
	t, err := time.Parse(dateLayout, f.ValidTo)
	if err != nil {
		return time.Time{}, errors.New("некорректная дата окончания действия, ожидается ДД.ММ.ГГГГ")
	}
	return t, nil
}

func (f FlyerData) GetActionID() *string {
	if f.ActionID == nil {
		return nil
	}
	actionID := strings.TrimSpace(*f.ActionID)
	if actionID == "" {
		return nil
	}
	return &actionID
}

type FlyerFilter struct {
	Status     models.FlyerStatus `json:"status"`
	SupplierID string             `json:"supplier_id"` // учитывается только для администратора и согласующих
	Search     string             `json:"search"`      // по названию
	apimodels.Pagination
}

type FlyerView struct {
	FlyerData
	ID              string             `json:"id"`
	SupplierID      string             `json:"supplier_id"`
	SupplierName    string             `json:"supplier_name"`
	Status          models.FlyerStatus `json:"status"`
	StatusName      string             `json:"status_name"`
	IsDraft         bool               `json:"is_draft"`
	RejectionReason *string            `json:"rejection_reason"`
	CreationDate    time.Time          `json:"creation_date"`
	Pages           []PageView         `json:"pages,omitempty"`
}

func FlyerConvert(rec dbmodels.Flyer) FlyerView {
	result := FlyerView{
		FlyerData: FlyerData{
			Name:      rec.Name,
			ValidFrom: rec.ValidFrom.Format(dateLayout),
			ValidTo:   rec.ValidTo.Format(dateLayout),
			ActionID:  rec.ActionID,
		},
		ID:              rec.ID,
		SupplierID:      rec.SupplierID,
		Status:          rec.Status,
		StatusName:      rec.Status.ToHuman(),
		IsDraft:         rec.IsDraft,
		RejectionReason: rec.RejectionReason,
		CreationDate:    rec.CreatedAt,
	}
	if rec.Supplier != nil {
		result.SupplierName = rec.Supplier.Company
		if result.SupplierName == "" {
			result.SupplierName = rec.Supplier.GetFullName()
		}
	}
	if len(rec.Pages) > 0 {
		result.Pages = make([]PageView, 0, len(rec.Pages))
		for _, page := range rec.Pages {
			result.Pages = append(result.Pages, PageConvert(page))
		}
	}
	return result
}
