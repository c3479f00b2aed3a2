package models

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// IsDecision решение согласующего: одобрено или отклонено
func (s ApprovalStatus) IsDecision() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

type ApprovalPhase string

const (
	ApprovalPhaseRequest     ApprovalPhase = "request"
	ApprovalPhasePreApproval ApprovalPhase = "pre_approval"
	ApprovalPhaseApproval    ApprovalPhase = "approval"
	ApprovalPhaseReset       ApprovalPhase = "reset"
)
