package approvalhandler

import (
	"context"
	"flyer-backend/models"
	approvalapimodels "flyer-backend/models/api/approval"
	dbmodels "flyer-backend/models/db"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db      *memDB
	notify  *notifyMock
	handler *impl
	flyerID string
	now     time.Time
}

func newTestEnv(t *testing.T, requiredPre, required int) *testEnv {
	m := newMemDB()
	env := &testEnv{
		db:     m,
		notify: &notifyMock{},
		now:    time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	env.handler = &impl{
		stores: m.stores(),
		users:  &usersStoreMock{m},
		notify: env.notify,
		inTx: func(fn func(s txStores) error) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			return fn(m.stores())
		},
		requiredPreApprovers: requiredPre,
		requiredApprovers:    required,
		now:                  func() time.Time { return env.now },
	}
	m.users["supplier"] = &dbmodels.User{BaseModel: dbmodels.BaseModel{ID: "supplier"}, Role: models.UserRoleSupplier, IsActive: true, Company: "Acme"}
	for _, id := range []string{"A", "B", "C"} {
		m.users[id] = &dbmodels.User{BaseModel: dbmodels.BaseModel{ID: id}, Role: models.UserRoleApprover, IsActive: true}
	}
	env.flyerID = "flyer-1"
	m.flyers[env.flyerID] = &dbmodels.Flyer{
		BaseModel:  dbmodels.BaseModel{ID: env.flyerID},
		SupplierID: "supplier",
		Name:       "Весна",
		Status:     models.FlyerStatusPendingVerification,
		ValidFrom:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, env.handler.StartReview(env.flyerID, "supplier"))
	return env
}

func (e *testEnv) request(t *testing.T, approverIDs ...string) {
	for _, id := range approverIDs {
		require.NoError(t, e.handler.RequestApproval(e.flyerID, id, "supplier", false))
	}
}

func (e *testEnv) preApprove(t *testing.T, approverIDs ...string) {
	for _, id := range approverIDs {
		require.NoError(t, e.handler.ProcessPreApproval(context.Background(), e.flyerID, id, approve()))
	}
}

func (e *testEnv) workflow() dbmodels.ApprovalWorkflow {
	return *e.db.workflows[e.flyerID]
}

func (e *testEnv) flyer() dbmodels.Flyer {
	return *e.db.flyers[e.flyerID]
}

func approve() approvalapimodels.Decision {
	return approvalapimodels.Decision{Status: models.ApprovalStatusApproved}
}

func reject(comment string) approvalapimodels.Decision {
	return approvalapimodels.Decision{Status: models.ApprovalStatusRejected, Comment: comment}
}

func TestStartReview(t *testing.T) {
	t.Run(`листовка переходит на согласование с настроенными порогами`, func(t *testing.T) {
		env := newTestEnv(t, 1, 2)
		require.Equal(t, models.FlyerStatusPendingApproval, env.flyer().Status)
		wf := env.workflow()
		require.Equal(t, 1, wf.RequiredPreApprovers)
		require.Equal(t, 2, wf.RequiredApprovers)
		require.Zero(t, wf.CurrentApprovals)
	})
	t.Run(`повторная подача пересоздает задачи согласования`, func(t *testing.T) {
		env := newTestEnv(t, 1, 2)
		env.request(t, "A")
		require.NoError(t, env.handler.ProcessPreApproval(context.Background(), env.flyerID, "A", reject("нет логотипа")))
		require.Equal(t, models.FlyerStatusRejected, env.flyer().Status)

		env.db.flyers[env.flyerID].Status = models.FlyerStatusPendingVerification
		require.NoError(t, env.handler.StartReview(env.flyerID, "supplier"))
		require.Empty(t, env.db.approvals)
		require.Nil(t, env.flyer().RejectionReason)
		require.Zero(t, env.workflow().CurrentPreApprovals)
		env.request(t, "A")
		require.Len(t, env.db.approvals, 1)
	})
	t.Run(`черновик нельзя передать на согласование`, func(t *testing.T) {
		env := newTestEnv(t, 1, 2)
		env.db.flyers[env.flyerID].Status = models.FlyerStatusDraft
		require.ErrorIs(t, env.handler.StartReview(env.flyerID, "supplier"), models.ErrStatusChange)
	})
}

func TestRequestApproval(t *testing.T) {
	t.Run(`создается задача в статусе pending и уведомляется согласующий`, func(t *testing.T) {
		env := newTestEnv(t, 1, 2)
		env.request(t, "A")
		rec := env.db.approvalOf(env.flyerID, "A")
		require.NotNil(t, rec)
		require.Equal(t, models.ApprovalStatusPending, rec.Status)
		require.Nil(t, rec.PreApprovalStatus)
		require.Equal(t, 1, env.notify.count("requested"))
		require.Equal(t, []string{"A"}, env.notify.calls[0].recipients)
	})
	t.Run(`повторный запрос той же пары отклоняется`, func(t *testing.T) {
		env := newTestEnv(t, 1, 2)
		env.request(t, "A")
		err := env.handler.RequestApproval(env.flyerID, "A", "supplier", false)
		require.ErrorIs(t, err, models.ErrDuplicateApproval)
		require.Len(t, env.db.approvals, 1)
		require.Equal(t, 1, env.notify.count("requested"))
	})
	t.Run(`назначить можно только согласующего`, func(t *testing.T) {
		env := newTestEnv(t, 1, 2)
		require.ErrorIs(t, env.handler.RequestApproval(env.flyerID, "supplier", "supplier", false), models.ErrNotApprover)
		require.ErrorIs(t, env.handler.RequestApproval(env.flyerID, "unknown", "supplier", false), models.ErrNotApprover)
	})
	t.Run(`чужой поставщик не может запрашивать согласование`, func(t *testing.T) {
		env := newTestEnv(t, 1, 2)
		require.ErrorIs(t, env.handler.RequestApproval(env.flyerID, "A", "other-supplier", false), models.ErrForbidden)
		require.NoError(t, env.handler.RequestApproval(env.flyerID, "A", "admin", true))
	})
}

func TestProcessPreApproval(t *testing.T) {
	t.Run(`достижение порога завершает предварительное согласование`, func(t *testing.T) {
		env := newTestEnv(t, 2, 2)
		env.request(t, "A", "B")
		env.preApprove(t, "A")
		wf := env.workflow()
		require.Equal(t, 1, wf.CurrentPreApprovals)
		require.False(t, wf.IsPreApprovalComplete)
		require.Zero(t, env.notify.count("pre_approval_completed"))

		env.preApprove(t, "B")
		wf = env.workflow()
		require.Equal(t, 2, wf.CurrentPreApprovals)
		require.True(t, wf.IsPreApprovalComplete)
		require.Equal(t, models.FlyerStatusPendingApproval, env.flyer().Status)
		require.Equal(t, 1, env.notify.count("pre_approval_completed"))
		require.ElementsMatch(t, []string{"A", "B"}, env.notify.calls[len(env.notify.calls)-1].recipients)
	})
	t.Run(`повторное решение отклоняется и не меняет счетчики`, func(t *testing.T) {
		env := newTestEnv(t, 2, 2)
		env.request(t, "A", "B")
		env.preApprove(t, "A")
		err := env.handler.ProcessPreApproval(context.Background(), env.flyerID, "A", approve())
		require.ErrorIs(t, err, models.ErrAlreadyDecided)
		require.Equal(t, 1, env.workflow().CurrentPreApprovals)
	})
	t.Run(`без задачи согласования`, func(t *testing.T) {
		env := newTestEnv(t, 1, 2)
		err := env.handler.ProcessPreApproval(context.Background(), env.flyerID, "C", approve())
		require.ErrorIs(t, err, models.ErrApprovalNotFound)
	})
	t.Run(`отклонение завершает цикл с причиной`, func(t *testing.T) {
		env := newTestEnv(t, 1, 2)
		env.request(t, "A", "B")
		require.NoError(t, env.handler.ProcessPreApproval(context.Background(), env.flyerID, "A", reject("нет цены")))
		flyer := env.flyer()
		require.Equal(t, models.FlyerStatusRejected, flyer.Status)
		require.Equal(t, "нет цены", *flyer.RejectionReason)
		require.Equal(t, 1, env.notify.count("rejected"))
		require.Equal(t, []string{"supplier"}, env.notify.calls[len(env.notify.calls)-1].recipients)

		err := env.handler.ProcessPreApproval(context.Background(), env.flyerID, "B", approve())
		require.ErrorIs(t, err, models.ErrWorkflowClosed)
	})
	t.Run(`отклонение без комментария принимается без причины`, func(t *testing.T) {
		env := newTestEnv(t, 1, 2)
		env.request(t, "A")
		require.NoError(t, env.handler.ProcessPreApproval(context.Background(), env.flyerID, "A", reject("  ")))
		require.Equal(t, models.ApprovalStatusRejected, *env.db.approvalOf(env.flyerID, "A").PreApprovalStatus)
		flyer := env.flyer()
		require.Equal(t, models.FlyerStatusRejected, flyer.Status)
		require.Nil(t, flyer.RejectionReason)
		require.Equal(t, 1, env.notify.count("rejected"))
	})
}

func TestProcessApproval(t *testing.T) {
	t.Run(`два согласования из двух одобряют листовку`, func(t *testing.T) {
		env := newTestEnv(t, 1, 2)
		env.request(t, "A", "B")
		env.preApprove(t, "A")

		require.NoError(t, env.handler.ProcessApproval(context.Background(), env.flyerID, "A", approve()))
		wf := env.workflow()
		require.Equal(t, 1, wf.CurrentApprovals)
		require.False(t, wf.IsComplete)
		require.Equal(t, models.FlyerStatusPendingApproval, env.flyer().Status)

		require.NoError(t, env.handler.ProcessApproval(context.Background(), env.flyerID, "B", approve()))
		wf = env.workflow()
		require.Equal(t, 2, wf.CurrentApprovals)
		require.True(t, wf.IsComplete)
		require.Equal(t, 1, env.notify.count("approved"))
		// 10 марта внутри периода действия 1-31 марта
		require.Equal(t, models.FlyerStatusActive, env.flyer().Status)
	})
	t.Run(`листовка до начала действия остается одобренной`, func(t *testing.T) {
		env := newTestEnv(t, 1, 1)
		env.now = time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
		env.request(t, "A")
		env.preApprove(t, "A")
		require.NoError(t, env.handler.ProcessApproval(context.Background(), env.flyerID, "A", approve()))
		require.Equal(t, models.FlyerStatusApproved, env.flyer().Status)
	})
	t.Run(`в период действия листовка сразу активна`, func(t *testing.T) {
		env := newTestEnv(t, 1, 1)
		env.request(t, "A")
		env.preApprove(t, "A")
		require.NoError(t, env.handler.ProcessApproval(context.Background(), env.flyerID, "A", approve()))
		require.Equal(t, models.FlyerStatusActive, env.flyer().Status)
	})
	t.Run(`повторный вызов возвращает AlreadyDecided, счетчики не меняются`, func(t *testing.T) {
		env := newTestEnv(t, 1, 2)
		env.request(t, "A", "B")
		env.preApprove(t, "A")
		require.NoError(t, env.handler.ProcessApproval(context.Background(), env.flyerID, "A", approve()))
		err := env.handler.ProcessApproval(context.Background(), env.flyerID, "A", approve())
		require.ErrorIs(t, err, models.ErrAlreadyDecided)
		require.Equal(t, 1, env.workflow().CurrentApprovals)
	})
	t.Run(`отклонение с комментарием missing logo`, func(t *testing.T) {
		env := newTestEnv(t, 1, 2)
		env.request(t, "A", "B")
		env.preApprove(t, "A")
		require.NoError(t, env.handler.ProcessApproval(context.Background(), env.flyerID, "A", approve()))
		require.NoError(t, env.handler.ProcessApproval(context.Background(), env.flyerID, "B", reject("missing logo")))
		flyer := env.flyer()
		require.Equal(t, models.FlyerStatusRejected, flyer.Status)
		require.Equal(t, "missing logo", *flyer.RejectionReason)
		require.Equal(t, 1, env.workflow().CurrentApprovals)
		require.Equal(t, 1, env.notify.count("rejected"))
		require.Zero(t, env.notify.count("approved"))
	})
	t.Run(`до завершения предварительного согласования решение не принимается`, func(t *testing.T) {
		env := newTestEnv(t, 2, 2)
		env.request(t, "A", "B")
		env.preApprove(t, "A")
		err := env.handler.ProcessApproval(context.Background(), env.flyerID, "A", approve())
		require.ErrorIs(t, err, models.ErrPreApprovalIncomplete)
		require.Equal(t, models.ApprovalStatusPending, env.db.approvalOf(env.flyerID, "A").Status)
	})
	t.Run(`после одобрения процесс закрыт`, func(t *testing.T) {
		env := newTestEnv(t, 1, 1)
		env.request(t, "A", "B")
		env.preApprove(t, "A")
		require.NoError(t, env.handler.ProcessApproval(context.Background(), env.flyerID, "A", approve()))
		err := env.handler.ProcessApproval(context.Background(), env.flyerID, "B", approve())
		require.ErrorIs(t, err, models.ErrWorkflowClosed)
	})
	t.Run(`параллельные решения не теряют голоса`, func(t *testing.T) {
		env := newTestEnv(t, 1, 3)
		env.request(t, "A", "B", "C")
		env.preApprove(t, "A")
		wg := sync.WaitGroup{}
		errs := make(chan error, 3)
		for _, id := range []string{"A", "B", "C"} {
			wg.Add(1)
			go func(approverID string) {
				defer wg.Done()
				errs <- env.handler.ProcessApproval(context.Background(), env.flyerID, approverID, approve())
			}(id)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
		approved, _ := env.db.stores().approval.CountApproved(env.flyerID)
		wf := env.workflow()
		require.Equal(t, approved, wf.CurrentApprovals)
		require.Equal(t, 3, wf.CurrentApprovals)
		require.True(t, wf.IsComplete)
		require.Equal(t, 1, env.notify.count("approved"))
	})
}

func TestLockOrder(t *testing.T) {
	env := newTestEnv(t, 1, 1)
	require.Equal(t, []string{"flyer", "workflow"}, env.db.locks)

	env.request(t, "A")
	env.db.locks = nil
	env.preApprove(t, "A")
	require.Equal(t, []string{"flyer", "workflow"}, env.db.locks)

	env.db.locks = nil
	require.NoError(t, env.handler.ProcessApproval(context.Background(), env.flyerID, "A", approve()))
	require.Equal(t, []string{"flyer", "workflow"}, env.db.locks)
}

func TestReadModels(t *testing.T) {
	env := newTestEnv(t, 1, 2)
	env.request(t, "A", "B")
	env.preApprove(t, "A")

	t.Run(`процесс листовки со списком задач`, func(t *testing.T) {
		view, err := env.handler.GetWorkflow(env.flyerID, "supplier", models.UserRoleSupplier)
		require.NoError(t, err)
		require.Len(t, view.Approvals, 2)
		require.True(t, view.IsPreApprovalComplete)
	})
	t.Run(`чужой поставщик не видит процесс`, func(t *testing.T) {
		_, err := env.handler.GetWorkflow(env.flyerID, "other", models.UserRoleSupplier)
		require.ErrorIs(t, err, models.ErrForbidden)
	})
	t.Run(`ожидающие задачи согласующего`, func(t *testing.T) {
		list, err := env.handler.Pending("B")
		require.NoError(t, err)
		require.Len(t, list, 1)
	})
	t.Run(`история решений`, func(t *testing.T) {
		list, err := env.handler.History(env.flyerID, "A", models.UserRoleApprover)
		require.NoError(t, err)
		// передача на согласование, два запроса и решение A
		require.Len(t, list, 4)
		require.Equal(t, models.ApprovalPhasePreApproval, list[3].Phase)
	})
}
