package verificationapimodels

import (
	"encoding/json"
	erpapimodels "flyer-backend/models/api/erp"
	dbmodels "flyer-backend/models/db"
	"time"
)

type VerificationView struct {
	ID              string                                `json:"id"`
	FlyerID         string                                `json:"flyer_id"`
	ErpAvailable    bool                                  `json:"erp_available"`
	CheckedProducts int                                   `json:"checked_products"`
	Passed          bool                                  `json:"passed"`
	Errors          []erpapimodels.ProductValidationError `json:"errors"`
	MovedToReview   bool                                  `json:"moved_to_review,omitempty"` // листовка передана на согласование
	Rejected        bool                                  `json:"rejected,omitempty"`        // листовка возвращена поставщику на исправление
	Date            time.Time                             `json:"date"`
}

func VerificationConvert(rec dbmodels.FlyerVerification) (VerificationView, error) {
	result := VerificationView{
		ID:              rec.ID,
		FlyerID:         rec.FlyerID,
		ErpAvailable:    rec.ErpAvailable,
		CheckedProducts: rec.CheckedProducts,
		Passed:          rec.Passed,
		Errors:          []erpapimodels.ProductValidationError{},
		Date:            rec.CreatedAt,
	}
	if len(rec.Errors) > 0 {
		if err := json.Unmarshal(rec.Errors, &result.Errors); err != nil {
			return VerificationView{}, err
		}
	}
	return result, nil
}
