package approvalhandler

import (
	"flyer-backend/models"
	flyerapimodels "flyer-backend/models/api/flyer"
	dbmodels "flyer-backend/models/db"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memDB общее состояние фейковых хранилищ
type memDB struct {
	mu        sync.Mutex
	flyers    map[string]*dbmodels.Flyer
	users     map[string]*dbmodels.User
	approvals map[string]*dbmodels.Approval
	workflows map[string]*dbmodels.ApprovalWorkflow
	history   []dbmodels.ApprovalHistory
	locks     []string // порядок блокировок строк FOR UPDATE
}

func newMemDB() *memDB {
	return &memDB{
		flyers:    map[string]*dbmodels.Flyer{},
		users:     map[string]*dbmodels.User{},
		approvals: map[string]*dbmodels.Approval{},
		workflows: map[string]*dbmodels.ApprovalWorkflow{},
	}
}

func (m *memDB) stores() txStores {
	return txStores{
		flyer:    &flyerStoreMock{m},
		approval: &approvalStoreMock{m},
		workflow: &workflowStoreMock{m},
		history:  &historyStoreMock{m},
	}
}

func (m *memDB) approvalOf(flyerID, approverID string) *dbmodels.Approval {
	for _, rec := range m.approvals {
		if rec.FlyerID == flyerID && rec.ApproverID == approverID {
			return rec
		}
	}
	return nil
}

type flyerStoreMock struct{ m *memDB }

func (f *flyerStoreMock) Create(rec dbmodels.Flyer) (string, error) {
	rec.ID = uuid.NewString()
	f.m.flyers[rec.ID] = &rec
	return rec.ID, nil
}

func (f *flyerStoreMock) GetByID(id string) (*dbmodels.Flyer, error) {
	rec, ok := f.m.flyers[id]
	if !ok {
		return nil, nil
	}
	result := *rec
	if supplier, ok := f.m.users[rec.SupplierID]; ok {
		result.Supplier = supplier
	}
	return &result, nil
}

func (f *flyerStoreMock) GetByIDForUpdate(id string) (*dbmodels.Flyer, error) {
	f.m.locks = append(f.m.locks, "flyer")
	return f.GetByID(id)
}

func (f *flyerStoreMock) GetFull(id string) (*dbmodels.Flyer, error) {
	return f.GetByID(id)
}

func (f *flyerStoreMock) Update(id string, updMap map[string]interface{}) error {
	rec, ok := f.m.flyers[id]
	if !ok {
		return fmt.Errorf("flyer %s not found", id)
	}
	for k, v := range updMap {
		switch k {
		case "status":
			rec.Status = v.(models.FlyerStatus)
		case "is_draft":
			rec.IsDraft = v.(bool)
		case "rejection_reason":
			if v == nil {
				rec.RejectionReason = nil
			} else {
				reason := v.(string)
				rec.RejectionReason = &reason
			}
		default:
			return fmt.Errorf("unexpected flyer field %s", k)
		}
	}
	return nil
}

func (f *flyerStoreMock) Delete(id string) error {
	delete(f.m.flyers, id)
	return nil
}

func (f *flyerStoreMock) List(supplierID string, hideDrafts bool, filter flyerapimodels.FlyerFilter) ([]dbmodels.Flyer, int64, error) {
	return nil, 0, nil
}

func (f *flyerStoreMock) ProductIDs(id string) ([]string, error) {
	return nil, nil
}

func (f *flyerStoreMock) ReadyToActivate(now time.Time) ([]string, error) {
	return nil, nil
}

type approvalStoreMock struct{ m *memDB }

func (a *approvalStoreMock) Create(rec dbmodels.Approval) (string, error) {
	if a.m.approvalOf(rec.FlyerID, rec.ApproverID) != nil {
		return "", models.ErrDuplicateApproval
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	a.m.approvals[rec.ID] = &rec
	return rec.ID, nil
}

func (a *approvalStoreMock) Get(flyerID, approverID string) (*dbmodels.Approval, error) {
	rec := a.m.approvalOf(flyerID, approverID)
	if rec == nil {
		return nil, nil
	}
	result := *rec
	return &result, nil
}

func (a *approvalStoreMock) Update(id string, updMap map[string]interface{}) error {
	rec, ok := a.m.approvals[id]
	if !ok {
		return fmt.Errorf("approval %s not found", id)
	}
	for k, v := range updMap {
		switch k {
		case "status":
			rec.Status = v.(models.ApprovalStatus)
		case "pre_approval_status":
			status := v.(models.ApprovalStatus)
			rec.PreApprovalStatus = &status
		case "comment":
			rec.Comment = v.(string)
		case "pre_approval_comment":
			rec.PreApprovalComment = v.(string)
		case "decided_at":
			t := v.(time.Time)
			rec.DecidedAt = &t
		case "pre_approved_at":
			t := v.(time.Time)
			rec.PreApprovedAt = &t
		default:
			return fmt.Errorf("unexpected approval field %s", k)
		}
	}
	return nil
}

func (a *approvalStoreMock) ListByFlyer(flyerID string) ([]dbmodels.Approval, error) {
	result := []dbmodels.Approval{}
	for _, rec := range a.m.approvals {
		if rec.FlyerID == flyerID {
			item := *rec
			item.Approver = a.m.users[rec.ApproverID]
			result = append(result, item)
		}
	}
	return result, nil
}

func (a *approvalStoreMock) ListByApprover(approverID string, onlyPending bool) ([]dbmodels.Approval, error) {
	result := []dbmodels.Approval{}
	for _, rec := range a.m.approvals {
		if rec.ApproverID != approverID {
			continue
		}
		if onlyPending && rec.Status != models.ApprovalStatusPending {
			continue
		}
		result = append(result, *rec)
	}
	return result, nil
}

func (a *approvalStoreMock) DeleteByFlyer(flyerID string) error {
	for id, rec := range a.m.approvals {
		if rec.FlyerID == flyerID {
			delete(a.m.approvals, id)
		}
	}
	return nil
}

func (a *approvalStoreMock) CountPreApproved(flyerID string) (int, error) {
	count := 0
	for _, rec := range a.m.approvals {
		if rec.FlyerID == flyerID && rec.PreApprovalStatus != nil && *rec.PreApprovalStatus == models.ApprovalStatusApproved {
			count++
		}
	}
	return count, nil
}

func (a *approvalStoreMock) CountApproved(flyerID string) (int, error) {
	count := 0
	for _, rec := range a.m.approvals {
		if rec.FlyerID == flyerID && rec.Status == models.ApprovalStatusApproved {
			count++
		}
	}
	return count, nil
}

type workflowStoreMock struct{ m *memDB }

func (w *workflowStoreMock) GetByFlyer(flyerID string) (*dbmodels.ApprovalWorkflow, error) {
	rec, ok := w.m.workflows[flyerID]
	if !ok {
		return nil, nil
	}
	result := *rec
	return &result, nil
}

func (w *workflowStoreMock) GetForUpdate(flyerID string) (*dbmodels.ApprovalWorkflow, error) {
	w.m.locks = append(w.m.locks, "workflow")
	return w.GetByFlyer(flyerID)
}

func (w *workflowStoreMock) Save(rec dbmodels.ApprovalWorkflow) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	w.m.workflows[rec.FlyerID] = &rec
	return rec.ID, nil
}

func (w *workflowStoreMock) Update(flyerID string, updMap map[string]interface{}) error {
	rec, ok := w.m.workflows[flyerID]
	if !ok {
		return fmt.Errorf("workflow %s not found", flyerID)
	}
	for k, v := range updMap {
		switch k {
		case "current_pre_approvals":
			rec.CurrentPreApprovals = v.(int)
		case "current_approvals":
			rec.CurrentApprovals = v.(int)
		case "is_pre_approval_complete":
			rec.IsPreApprovalComplete = v.(bool)
		case "is_complete":
			rec.IsComplete = v.(bool)
		default:
			return fmt.Errorf("unexpected workflow field %s", k)
		}
	}
	return nil
}

type historyStoreMock struct{ m *memDB }

func (h *historyStoreMock) Create(rec dbmodels.ApprovalHistory) error {
	h.m.history = append(h.m.history, rec)
	return nil
}

func (h *historyStoreMock) List(flyerID string) ([]dbmodels.ApprovalHistory, error) {
	result := []dbmodels.ApprovalHistory{}
	for _, rec := range h.m.history {
		if rec.FlyerID == flyerID {
			result = append(result, rec)
		}
	}
	return result, nil
}

type usersStoreMock struct{ m *memDB }

func (u *usersStoreMock) Create(rec dbmodels.User) (string, error) {
	rec.ID = uuid.NewString()
	u.m.users[rec.ID] = &rec
	return rec.ID, nil
}

func (u *usersStoreMock) Update(userID string, updMap map[string]interface{}) error {
	return nil
}

func (u *usersStoreMock) GetByID(userID string) (*dbmodels.User, error) {
	rec, ok := u.m.users[userID]
	if !ok {
		return nil, nil
	}
	result := *rec
	return &result, nil
}

func (u *usersStoreMock) FindByEmail(email string) (*dbmodels.User, error) {
	return nil, nil
}

func (u *usersStoreMock) ExistByEmail(email string) (bool, error) {
	return false, nil
}

func (u *usersStoreMock) ListByRole(role models.UserRole) ([]dbmodels.User, error) {
	return nil, nil
}

type notifyCall struct {
	event      string
	recipients []string
	reason     string
}

type notifyMock struct {
	calls []notifyCall
}

func (n *notifyMock) ApprovalRequested(approver dbmodels.User, flyer dbmodels.Flyer) {
	n.calls = append(n.calls, notifyCall{event: "requested", recipients: []string{approver.ID}})
}

func (n *notifyMock) PreApprovalCompleted(approvers []dbmodels.User, flyer dbmodels.Flyer) {
	ids := []string{}
	for _, approver := range approvers {
		ids = append(ids, approver.ID)
	}
	n.calls = append(n.calls, notifyCall{event: "pre_approval_completed", recipients: ids})
}

func (n *notifyMock) FlyerApproved(supplier dbmodels.User, flyer dbmodels.Flyer) {
	n.calls = append(n.calls, notifyCall{event: "approved", recipients: []string{supplier.ID}})
}

func (n *notifyMock) FlyerRejected(supplier dbmodels.User, flyer dbmodels.Flyer, reason string) {
	n.calls = append(n.calls, notifyCall{event: "rejected", recipients: []string{supplier.ID}, reason: reason})
}

func (n *notifyMock) count(event string) int {
	count := 0
	for _, call := range n.calls {
		if call.event == event {
			count++
		}
	}
	return count
}
