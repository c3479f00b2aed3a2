package approvalhandler

import (
	"context"
	"flyer-backend/config"
	"flyer-backend/db"
	historystore "flyer-backend/lib/approval/history-store"
	approvalstore "flyer-backend/lib/approval/store"
	workflowstore "flyer-backend/lib/approval/workflow-store"
	flyerstore "flyer-backend/lib/flyer/store"
	"flyer-backend/lib/notification"
	usersstore "flyer-backend/lib/users/store"
	"flyer-backend/lib/utils/lock"
	"flyer-backend/models"
	approvalapimodels "flyer-backend/models/api/approval"
	dbmodels "flyer-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	// StartReview переводит проверенную листовку на согласование, создавая процесс заново
	StartReview(flyerID, userID string) error
	RequestApproval(flyerID, approverID, userID string, isAdmin bool) error
	ProcessPreApproval(ctx context.Context, flyerID, approverID string, decision approvalapimodels.Decision) error
	ProcessApproval(ctx context.Context, flyerID, approverID string, decision approvalapimodels.Decision) error
	GetWorkflow(flyerID, userID string, role models.UserRole) (approvalapimodels.WorkflowView, error)
	History(flyerID, userID string, role models.UserRole) ([]approvalapimodels.HistoryView, error)
	Pending(approverID string) ([]approvalapimodels.ApprovalView, error)
	Mine(approverID string) ([]approvalapimodels.ApprovalView, error)
}

var Instance Provider

const lockWait = 10 * time.Second

// txStores хранилища, работающие в одной транзакции
type txStores struct {
	flyer    flyerstore.Provider
	approval approvalstore.Provider
	workflow workflowstore.Provider
	history  historystore.Provider
}

func newTxStores(tx *gorm.DB) txStores {
	return txStores{
		flyer:    flyerstore.NewInstance(tx),
		approval: approvalstore.NewInstance(tx),
		workflow: workflowstore.NewInstance(tx),
		history:  historystore.NewInstance(tx),
	}
}

func NewHandler() {
	Instance = &impl{
		stores: newTxStores(db.DB),
		users:  usersstore.NewInstance(db.DB),
		notify: notification.Instance,
		inTx: func(fn func(s txStores) error) error {
			return db.DB.Transaction(func(tx *gorm.DB) error {
				return fn(newTxStores(tx))
			})
		},
		requiredPreApprovers: config.Conf.Workflow.RequiredPreApprovers,
		requiredApprovers:    config.Conf.Workflow.RequiredApprovers,
		now:                  time.Now,
	}
}

type impl struct {
	stores               txStores
	users                usersstore.Provider
	notify               notification.Provider
	inTx                 func(fn func(s txStores) error) error
	requiredPreApprovers int
	requiredApprovers    int
	now                  func() time.Time
}

// outcome итог решения, по нему после коммита отправляются уведомления
type outcome int

const (
	outcomeNone outcome = iota
	outcomePreApprovalCompleted
	outcomeApproved
	outcomeRejected
)

func (i *impl) StartReview(flyerID, userID string) error {
	logger := log.WithField("flyer_id", flyerID)
	err := i.inTx(func(s txStores) error {
		flyer, err := s.flyer.GetByIDForUpdate(flyerID)
		if err != nil {
			return err
		}
		if flyer == nil {
			return models.ErrFlyerNotFound
		}
		if flyer.Status != models.FlyerStatusPendingVerification ||
			!flyer.Status.IsAllowChange(models.FlyerStatusPendingApproval) {
			return models.ErrStatusChange
		}
		// повторная подача всегда начинается с новых задач согласования
		err = s.approval.DeleteByFlyer(flyerID)
		if err != nil {
			return errors.Wrap(err, "ошибка удаления задач согласования")
		}
		wf, err := s.workflow.GetForUpdate(flyerID)
		if err != nil {
			return err
		}
		if wf == nil {
			wf = &dbmodels.ApprovalWorkflow{FlyerID: flyerID}
		}
		wf.RequiredPreApprovers = max(i.requiredPreApprovers, 1)
		wf.RequiredApprovers = max(i.requiredApprovers, 1)
		wf.CurrentPreApprovals = 0
		wf.CurrentApprovals = 0
		wf.IsPreApprovalComplete = false
		wf.IsComplete = false
		_, err = s.workflow.Save(*wf)
		if err != nil {
			return errors.Wrap(err, "ошибка сохранения процесса согласования")
		}
		updMap := map[string]interface{}{
			"status":           models.FlyerStatusPendingApproval,
			"is_draft":         false,
			"rejection_reason": nil,
		}
		err = s.flyer.Update(flyerID, updMap)
		if err != nil {
			return errors.Wrap(err, "ошибка изменения статуса листовки")
		}
		return s.history.Create(dbmodels.ApprovalHistory{
			FlyerID:    flyerID,
			ApproverID: userID,
			Phase:      models.ApprovalPhaseReset,
			Status:     models.ApprovalStatusPending,
			Comment:    "листовка передана на согласование",
		})
	})
	if err != nil {
		return err
	}
	logger.Info("листовка передана на согласование")
	return nil
}

func (i *impl) RequestApproval(flyerID, approverID, userID string, isAdmin bool) error {
	logger := log.
		WithField("flyer_id", flyerID).
		WithField("approver_id", approverID)
	approver, err := i.users.GetByID(approverID)
	if err != nil {
		return err
	}
	if approver == nil || approver.Role != models.UserRoleApprover || !approver.IsActive {
		return models.ErrNotApprover
	}
	err = i.inTx(func(s txStores) error {
		flyer, err := s.flyer.GetByIDForUpdate(flyerID)
		if err != nil {
			return err
		}
		if flyer == nil {
			return models.ErrFlyerNotFound
		}
		if !isAdmin && flyer.SupplierID != userID {
			return models.ErrForbidden
		}
		if flyer.Status != models.FlyerStatusPendingApproval {
			return models.ErrWorkflowNotFound
		}
		exist, err := s.approval.Get(flyerID, approverID)
		if err != nil {
			return err
		}
		if exist != nil {
			return models.ErrDuplicateApproval
		}
		approvalID, err := s.approval.Create(dbmodels.Approval{
			FlyerID:    flyerID,
			ApproverID: approverID,
			Status:     models.ApprovalStatusPending,
		})
		if err != nil {
			return err
		}
		return s.history.Create(dbmodels.ApprovalHistory{
			FlyerID:    flyerID,
			ApprovalID: approvalID,
			ApproverID: approverID,
			Phase:      models.ApprovalPhaseRequest,
			Status:     models.ApprovalStatusPending,
		})
	})
	if err != nil {
		return err
	}
	logger.Info("запрошено согласование листовки")
	if flyer := i.loadFlyer(logger, flyerID); flyer != nil {
		i.notify.ApprovalRequested(*approver, *flyer)
	}
	return nil
}

func (i *impl) ProcessPreApproval(ctx context.Context, flyerID, approverID string, decision approvalapimodels.Decision) error {
	if err := decision.Validate(); err != nil {
		return err
	}
	logger := log.
		WithField("flyer_id", flyerID).
		WithField("approver_id", approverID).
		WithField("decision", decision.Status)
	var result outcome
	err := i.withFlyerLock(ctx, flyerID, func() error {
		return i.inTx(func(s txStores) (err error) {
			wf, flyer, rec, err := i.loadDecisionContext(s, flyerID, approverID)
			if err != nil {
				return err
			}
			if rec.PreApprovalStatus != nil && rec.PreApprovalStatus.IsDecision() {
				return models.ErrAlreadyDecided
			}
			if err = checkOpen(*flyer, *wf); err != nil {
				return err
			}
			now := i.now()
			updMap := map[string]interface{}{
				"pre_approval_status":  decision.Status,
				"pre_approval_comment": decision.Comment,
				"pre_approved_at":      now,
			}
			if decision.Status == models.ApprovalStatusRejected {
				updMap["status"] = models.ApprovalStatusRejected
				updMap["decided_at"] = now
			}
			if err = s.approval.Update(rec.ID, updMap); err != nil {
				return errors.Wrap(err, "ошибка сохранения решения")
			}
			if decision.Status == models.ApprovalStatusRejected {
				err = i.reject(s, flyerID, decision.Comment)
				result = outcomeRejected
			} else {
				result, err = i.recountPreApprovals(s, *wf)
			}
			if err != nil {
				return err
			}
			return s.history.Create(dbmodels.ApprovalHistory{
				FlyerID:    flyerID,
				ApprovalID: rec.ID,
				ApproverID: approverID,
				Phase:      models.ApprovalPhasePreApproval,
				Status:     decision.Status,
				Comment:    decision.Comment,
			})
		})
	})
	if err != nil {
		return err
	}
	logger.Info("принято решение по предварительному согласованию")
	i.notifyOutcome(logger, flyerID, result, decision.Comment)
	return nil
}

func (i *impl) ProcessApproval(ctx context.Context, flyerID, approverID string, decision approvalapimodels.Decision) error {
	if err := decision.Validate(); err != nil {
		return err
	}
	logger := log.
		WithField("flyer_id", flyerID).
		WithField("approver_id", approverID).
		WithField("decision", decision.Status)
	var result outcome
	err := i.withFlyerLock(ctx, flyerID, func() error {
		return i.inTx(func(s txStores) (err error) {
			wf, flyer, rec, err := i.loadDecisionContext(s, flyerID, approverID)
			if err != nil {
				return err
			}
			if rec.Status != models.ApprovalStatusPending {
				return models.ErrAlreadyDecided
			}
			if err = checkOpen(*flyer, *wf); err != nil {
				return err
			}
			if !wf.IsPreApprovalComplete {
				return models.ErrPreApprovalIncomplete
			}
			updMap := map[string]interface{}{
				"status":     decision.Status,
				"comment":    decision.Comment,
				"decided_at": i.now(),
			}
			if err = s.approval.Update(rec.ID, updMap); err != nil {
				return errors.Wrap(err, "ошибка сохранения решения")
			}
			if decision.Status == models.ApprovalStatusRejected {
				err = i.reject(s, flyerID, decision.Comment)
				result = outcomeRejected
			} else {
				result, err = i.recountApprovals(s, *wf, *flyer)
			}
			if err != nil {
				return err
			}
			return s.history.Create(dbmodels.ApprovalHistory{
				FlyerID:    flyerID,
				ApprovalID: rec.ID,
				ApproverID: approverID,
				Phase:      models.ApprovalPhaseApproval,
				Status:     decision.Status,
				Comment:    decision.Comment,
			})
		})
	})
	if err != nil {
		return err
	}
	logger.Info("принято решение по согласованию")
	i.notifyOutcome(logger, flyerID, result, decision.Comment)
	return nil
}

func (i *impl) GetWorkflow(flyerID, userID string, role models.UserRole) (approvalapimodels.WorkflowView, error) {
	if err := i.checkViewAccess(flyerID, userID, role); err != nil {
		return approvalapimodels.WorkflowView{}, err
	}
	wf, err := i.stores.workflow.GetByFlyer(flyerID)
	if err != nil {
		return approvalapimodels.WorkflowView{}, err
	}
	if wf == nil {
		return approvalapimodels.WorkflowView{}, models.ErrWorkflowNotFound
	}
	list, err := i.stores.approval.ListByFlyer(flyerID)
	if err != nil {
		return approvalapimodels.WorkflowView{}, err
	}
	return approvalapimodels.WorkflowConvert(*wf, list), nil
}

func (i *impl) History(flyerID, userID string, role models.UserRole) ([]approvalapimodels.HistoryView, error) {
	if err := i.checkViewAccess(flyerID, userID, role); err != nil {
		return nil, err
	}
	list, err := i.stores.history.List(flyerID)
	if err != nil {
		return nil, err
	}
	result := make([]approvalapimodels.HistoryView, 0, len(list))
	for _, rec := range list {
		result = append(result, approvalapimodels.HistoryConvert(rec))
	}
	return result, nil
}

func (i *impl) Pending(approverID string) ([]approvalapimodels.ApprovalView, error) {
	return i.listByApprover(approverID, true)
}

func (i *impl) Mine(approverID string) ([]approvalapimodels.ApprovalView, error) {
	return i.listByApprover(approverID, false)
}

func (i *impl) listByApprover(approverID string, onlyPending bool) ([]approvalapimodels.ApprovalView, error) {
	list, err := i.stores.approval.ListByApprover(approverID, onlyPending)
	if err != nil {
		return nil, err
	}
	result := make([]approvalapimodels.ApprovalView, 0, len(list))
	for _, rec := range list {
		result = append(result, approvalapimodels.ApprovalConvert(rec))
	}
	return result, nil
}

func (i *impl) checkViewAccess(flyerID, userID string, role models.UserRole) error {
	flyer, err := i.stores.flyer.GetByID(flyerID)
	if err != nil {
		return err
	}
	if flyer == nil {
		return models.ErrFlyerNotFound
	}
	if role == models.UserRoleSupplier && flyer.SupplierID != userID {
		return models.ErrForbidden
	}
	return nil
}

func (i *impl) withFlyerLock(ctx context.Context, flyerID string, fn func() error) error {
	success, err := lock.WithDelay(ctx, "flyer_approval_"+flyerID, lockWait, fn)
	if err != nil {
		return err
	}
	if !success {
		return models.ErrFlyerBusy
	}
	return nil
}

// loadDecisionContext блокирует листовку и процесс согласования, дальнейшие решения по листовке ждут коммита
func (i *impl) loadDecisionContext(s txStores, flyerID, approverID string) (*dbmodels.ApprovalWorkflow, *dbmodels.Flyer, *dbmodels.Approval, error) {
	// порядок блокировок как в StartReview: листовка, затем процесс
	flyer, err := s.flyer.GetByIDForUpdate(flyerID)
	if err != nil {
		return nil, nil, nil, err
	}
	if flyer == nil {
		return nil, nil, nil, models.ErrFlyerNotFound
	}
	wf, err := s.workflow.GetForUpdate(flyerID)
	if err != nil {
		return nil, nil, nil, err
	}
	if wf == nil {
		return nil, nil, nil, models.ErrWorkflowNotFound
	}
	rec, err := s.approval.Get(flyerID, approverID)
	if err != nil {
		return nil, nil, nil, err
	}
	if rec == nil {
		return nil, nil, nil, models.ErrApprovalNotFound
	}
	return wf, flyer, rec, nil
}

func checkOpen(flyer dbmodels.Flyer, wf dbmodels.ApprovalWorkflow) error {
	switch flyer.Status {
	case models.FlyerStatusPendingApproval:
		if wf.IsComplete {
			return models.ErrWorkflowClosed
		}
		return nil
	case models.FlyerStatusRejected, models.FlyerStatusApproved, models.FlyerStatusActive:
		return models.ErrWorkflowClosed
	default:
		return models.ErrWorkflowNotFound
	}
}

// reject пустой комментарий сохраняется как отсутствие причины
func (i *impl) reject(s txStores, flyerID, reason string) error {
	updMap := map[string]interface{}{
		"status":           models.FlyerStatusRejected,
		"rejection_reason": nil,
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		updMap["rejection_reason"] = reason
	}
	err := s.flyer.Update(flyerID, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка изменения статуса листовки")
	}
	return nil
}

func (i *impl) recountPreApprovals(s txStores, wf dbmodels.ApprovalWorkflow) (outcome, error) {
	count, err := s.approval.CountPreApproved(wf.FlyerID)
	if err != nil {
		return outcomeNone, err
	}
	result := outcomeNone
	updMap := map[string]interface{}{
		"current_pre_approvals": count,
	}
	if !wf.IsPreApprovalComplete && count >= wf.RequiredPreApprovers {
		updMap["is_pre_approval_complete"] = true
		result = outcomePreApprovalCompleted
	}
	err = s.workflow.Update(wf.FlyerID, updMap)
	if err != nil {
		return outcomeNone, errors.Wrap(err, "ошибка обновления процесса согласования")
	}
	return result, nil
}

func (i *impl) recountApprovals(s txStores, wf dbmodels.ApprovalWorkflow, flyer dbmodels.Flyer) (outcome, error) {
	count, err := s.approval.CountApproved(wf.FlyerID)
	if err != nil {
		return outcomeNone, err
	}
	updMap := map[string]interface{}{
		"current_approvals": count,
	}
	complete := count >= wf.RequiredApprovers
	if complete {
		updMap["is_complete"] = true
	}
	err = s.workflow.Update(wf.FlyerID, updMap)
	if err != nil {
		return outcomeNone, errors.Wrap(err, "ошибка обновления процесса согласования")
	}
	if !complete {
		return outcomeNone, nil
	}
	status := models.FlyerStatusApproved
	if flyer.IsValidAt(i.now()) && status.IsAllowChange(models.FlyerStatusActive) {
		status = models.FlyerStatusActive
	}
	err = s.flyer.Update(flyer.ID, map[string]interface{}{
		"status":           status,
		"rejection_reason": nil,
	})
	if err != nil {
		return outcomeNone, errors.Wrap(err, "ошибка изменения статуса листовки")
	}
	return outcomeApproved, nil
}

func (i *impl) notifyOutcome(logger *log.Entry, flyerID string, result outcome, comment string) {
	if result == outcomeNone {
		return
	}
	flyer := i.loadFlyer(logger, flyerID)
	if flyer == nil {
		return
	}
	switch result {
	case outcomePreApprovalCompleted:
		list, err := i.stores.approval.ListByFlyer(flyerID)
		if err != nil {
			logger.WithError(err).Error("ошибка получения списка согласующих")
			return
		}
		approvers := make([]dbmodels.User, 0, len(list))
		for _, rec := range list {
			if rec.Approver != nil {
				approvers = append(approvers, *rec.Approver)
			}
		}
		i.notify.PreApprovalCompleted(approvers, *flyer)
	case outcomeApproved:
		if flyer.Supplier != nil {
			i.notify.FlyerApproved(*flyer.Supplier, *flyer)
		}
	case outcomeRejected:
		if flyer.Supplier != nil {
			i.notify.FlyerRejected(*flyer.Supplier, *flyer, comment)
		}
	}
}

func (i *impl) loadFlyer(logger *log.Entry, flyerID string) *dbmodels.Flyer {
	flyer, err := i.stores.flyer.GetByID(flyerID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения листовки для уведомления")
		return nil
	}
	return flyer
}
