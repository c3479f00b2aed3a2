package dbmodels

import (
	"flyer-backend/models"
	"time"
)

type ApprovalWorkflow struct {
	BaseModel
	FlyerID               string `gorm:"type:varchar(36);uniqueIndex"`
	RequiredPreApprovers  int
	RequiredApprovers     int
	CurrentPreApprovals   int
	CurrentApprovals      int
	IsPreApprovalComplete bool
	IsComplete            bool
}

type Approval struct {
	BaseModel
	FlyerID            string                 `gorm:"type:varchar(36);uniqueIndex:idx_flyer_approver"`
	Flyer              *Flyer                 `gorm:"foreignKey:FlyerID"`
	ApproverID         string                 `gorm:"type:varchar(36);uniqueIndex:idx_flyer_approver"`
	Approver           *User                  `gorm:"foreignKey:ApproverID"`
	Status             models.ApprovalStatus  `gorm:"type:varchar(20)"`
	PreApprovalStatus  *models.ApprovalStatus `gorm:"type:varchar(20)"`
	Comment            string
	PreApprovalComment string
	DecidedAt          *time.Time
	PreApprovedAt      *time.Time
}

type ApprovalHistory struct {
	BaseModel
	FlyerID    string                `gorm:"type:varchar(36);index"`
	ApprovalID string                `gorm:"type:varchar(36)"`
	ApproverID string                `gorm:"type:varchar(36)"`
	Approver   *User                 `gorm:"foreignKey:ApproverID"`
	Phase      models.ApprovalPhase  `gorm:"type:varchar(20)"`
	Status     models.ApprovalStatus `gorm:"type:varchar(20)"`
	Comment    string
}
