package models

type FlyerStatus string

const (
	FlyerStatusDraft               FlyerStatus = "draft"
	FlyerStatusPendingVerification FlyerStatus = "pending_verification"
	FlyerStatusPendingApproval     FlyerStatus = "pending_approval"
	FlyerStatusApproved            FlyerStatus = "approved"
	FlyerStatusActive              FlyerStatus = "active"
	FlyerStatusRejected            FlyerStatus = "rejected"
)

var flyerStatusHumanName = map[FlyerStatus]string{
	FlyerStatusDraft:               "Черновик",
	FlyerStatusPendingVerification: "Проверка в ERP",
	FlyerStatusPendingApproval:     "На согласовании",
	FlyerStatusApproved:            "Согласован",
	FlyerStatusActive:              "Активен",
	FlyerStatusRejected:            "Отклонен",
}

// допустимые переходы статусов листовки
var flyerStatusFlow = map[FlyerStatus][]FlyerStatus{
	FlyerStatusDraft:               {FlyerStatusPendingVerification},
	FlyerStatusRejected:            {FlyerStatusPendingVerification},
	FlyerStatusPendingVerification: {FlyerStatusPendingApproval, FlyerStatusRejected},
	FlyerStatusPendingApproval:     {FlyerStatusApproved, FlyerStatusRejected},
	FlyerStatusApproved:            {FlyerStatusActive},
}

func (s FlyerStatus) ToHuman() string {
	if human, exist := flyerStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s FlyerStatus) IsValid() bool {
	_, ok := flyerStatusHumanName[s]
	return ok
}

// IsEditable поставщик может менять листовку только в черновике или после отклонения
func (s FlyerStatus) IsEditable() bool {
	return s == FlyerStatusDraft || s == FlyerStatusRejected
}

func (s FlyerStatus) IsAllowChange(to FlyerStatus) bool {
	for _, next := range flyerStatusFlow[s] {
		if next == to {
			return true
		}
	}
	return false
}
