package approvalapimodels

import (
	"flyer-backend/models"
	dbmodels "flyer-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type ApprovalRequest struct {
	ApproverID string `json:"approver_id"` // ид согласующего
}

func (r ApprovalRequest) Validate() error {
	if strings.TrimSpace(r.ApproverID) == "" {
		return errors.New("не указан согласующий")
	}
	return nil
}

// Decision решение согласующего на этапе предварительного согласования или согласования
type Decision struct {
	Status  models.ApprovalStatus `json:"status"`  // approved / rejected
	Comment string                `json:"comment"` // необязателен, при отклонении сохраняется как причина
}

func (r Decision) Validate() error {
	if !r.Status.IsDecision() {
		return models.ErrInvalidDecision
	}
	return nil
}

type ApprovalView struct {
	ID                 string                 `json:"id"`
	FlyerID            string                 `json:"flyer_id"`
	FlyerName          string                 `json:"flyer_name"`
	FlyerStatus        models.FlyerStatus     `json:"flyer_status"`
	ApproverID         string                 `json:"approver_id"`
	ApproverName       string                 `json:"approver_name"`
	Status             models.ApprovalStatus  `json:"status"`
	PreApprovalStatus  *models.ApprovalStatus `json:"pre_approval_status"`
	Comment            string                 `json:"comment"`
	PreApprovalComment string                 `json:"pre_approval_comment"`
	DecidedAt          *time.Time             `json:"decided_at"`
	PreApprovedAt      *time.Time             `json:"pre_approved_at"`
	CreationDate       time.Time              `json:"creation_date"`
}

func ApprovalConvert(rec dbmodels.Approval) ApprovalView {
	result := ApprovalView{
		ID:                 rec.ID,
		FlyerID:            rec.FlyerID,
		ApproverID:         rec.ApproverID,
		Status:             rec.Status,
		PreApprovalStatus:  rec.PreApprovalStatus,
		Comment:            rec.Comment,
		PreApprovalComment: rec.PreApprovalComment,
		DecidedAt:          rec.DecidedAt,
		PreApprovedAt:      rec.PreApprovedAt,
		CreationDate:       rec.CreatedAt,
	}
	if rec.Flyer != nil {
		result.FlyerName = rec.Flyer.Name
		result.FlyerStatus = rec.Flyer.Status
	}
	if rec.Approver != nil {
		result.ApproverName = rec.Approver.GetFullName()
	}
	return result
}

type WorkflowView struct {
	FlyerID               string         `json:"flyer_id"`
	RequiredPreApprovers  int            `json:"required_pre_approvers"`
	RequiredApprovers     int            `json:"required_approvers"`
	CurrentPreApprovals   int            `json:"current_pre_approvals"`
	CurrentApprovals      int            `json:"current_approvals"`
	IsPreApprovalComplete bool           `json:"is_pre_approval_complete"`
	IsComplete            bool           `json:"is_complete"`
	Approvals             []ApprovalView `json:"approvals"`
}

func WorkflowConvert(rec dbmodels.ApprovalWorkflow, approvals []dbmodels.Approval) WorkflowView {
	result := WorkflowView{
		FlyerID:               rec.FlyerID,
		RequiredPreApprovers:  rec.RequiredPreApprovers,
		RequiredApprovers:     rec.RequiredApprovers,
		CurrentPreApprovals:   rec.CurrentPreApprovals,
		CurrentApprovals:      rec.CurrentApprovals,
		IsPreApprovalComplete: rec.IsPreApprovalComplete,
		IsComplete:            rec.IsComplete,
		Approvals:             make([]ApprovalView, 0, len(approvals)),
	}
	for _, approval := range approvals {
		result.Approvals = append(result.Approvals, ApprovalConvert(approval))
	}
	return result
}

type HistoryView struct {
	ApproverID   string                `json:"approver_id"`
	ApproverName string                `json:"approver_name"`
	Phase        models.ApprovalPhase  `json:"phase"`
	Status       models.ApprovalStatus `json:"status"`
	Comment      string                `json:"comment"`
	Date         time.Time             `json:"date"`
}

func HistoryConvert(rec dbmodels.ApprovalHistory) HistoryView {
	result := HistoryView{
		ApproverID: rec.ApproverID,
		Phase:      rec.Phase,
		Status:     rec.Status,
		Comment:    rec.Comment,
		Date:       rec.CreatedAt,
	}
	if rec.Approver != nil {
		result.ApproverName = rec.Approver.GetFullName()
	}
	return result
}
