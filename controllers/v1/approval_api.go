package apiv1

import (
	"flyer-backend/controllers"
	approvalhandler "flyer-backend/lib/approval"
	"flyer-backend/middleware"
	"flyer-backend/models"
	apimodels "flyer-backend/models/api"
	approvalapimodels "flyer-backend/models/api/approval"

	"github.com/gofiber/fiber/v2"
)

type approvalApiController struct {
	controllers.BaseAPIController
}

func InitApprovalApiRouters(app *fiber.App) {
	controller := approvalApiController{}
	deciders := middleware.RoleRequired(models.UserRoleApprover, models.UserRoleAdmin)
	app.Route("flyers/:id", func(router fiber.Router) {
		router.Post("approvals", middleware.RoleRequired(models.UserRoleSupplier, models.UserRoleAdmin), controller.request)
		router.Get("approvals", controller.workflow)
		router.Get("approval_history", controller.history)
		router.Patch("pre-approvals/:approverId", deciders, controller.preApprove)
		router.Patch("approvals/:approverId", deciders, controller.approve)
	})
	app.Route("approvals", func(router fiber.Router) {
		router.Use(middleware.RoleRequired(models.UserRoleApprover))
		router.Get("pending", controller.pending)
		router.Get("mine", controller.mine)
	})
}

// @Summary Запрос согласования
// @Tags Согласование
// @Description Назначение согласующего для листовки на согласовании
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Param	body body	 approvalapimodels.ApprovalRequest	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/approvals [post]
func (c *approvalApiController) request(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.ApprovalRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = approvalhandler.Instance.RequestApproval(id, payload.ApproverID, middleware.GetUserID(ctx), middleware.IsAdmin(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка запроса согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Состояние согласования
// @Tags Согласование
// @Description Счетчики этапов и список согласующих листовки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.WorkflowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/approvals [get]
func (c *approvalApiController) workflow(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := approvalhandler.Instance.GetWorkflow(id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка получения согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary История согласования
// @Tags Согласование
// @Description Все решения по листовке в порядке принятия
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.HistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/approval_history [get]
func (c *approvalApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := approvalhandler.Instance.History(id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка получения истории согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Предварительное согласование
// @Tags Согласование
// @Description Решение согласующего на этапе предварительного согласования
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Param   approverId     		path    	string  				true    "approver ID"
// @Param	body body	 approvalapimodels.Decision	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/pre-approvals/{approverId} [patch]
func (c *approvalApiController) preApprove(ctx *fiber.Ctx) error {
	id, approverID, payload, err := c.getDecision(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if !c.canDecide(ctx, approverID) {
		return c.SendError(ctx, c.GetLogger(ctx), models.ErrForbidden, "")
	}
	err = approvalhandler.Instance.ProcessPreApproval(ctx.UserContext(), id, approverID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка предварительного согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Согласование
// @Tags Согласование
// @Description Решение согласующего на основном этапе. Доступно после завершения предварительного согласования
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Param   approverId     		path    	string  				true    "approver ID"
// @Param	body body	 approvalapimodels.Decision	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/approvals/{approverId} [patch]
func (c *approvalApiController) approve(ctx *fiber.Ctx) error {
	id, approverID, payload, err := c.getDecision(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if !c.canDecide(ctx, approverID) {
		return c.SendError(ctx, c.GetLogger(ctx), models.ErrForbidden, "")
	}
	err = approvalhandler.Instance.ProcessApproval(ctx.UserContext(), id, approverID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Ожидающие решения
// @Tags Согласование
// @Description Согласования текущего пользователя, по которым не принято решение
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.ApprovalView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/pending [get]
func (c *approvalApiController) pending(ctx *fiber.Ctx) error {
	resp, err := approvalhandler.Instance.Pending(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка согласований")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Мои согласования
// @Tags Согласование
// @Description Все согласования текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.ApprovalView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/mine [get]
func (c *approvalApiController) mine(ctx *fiber.Ctx) error {
	resp, err := approvalhandler.Instance.Mine(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка согласований")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

func (c *approvalApiController) getDecision(ctx *fiber.Ctx) (flyerID, approverID string, payload approvalapimodels.Decision, err error) {
	flyerID, err = c.GetID(ctx)
	if err != nil {
		return "", "", payload, err
	}
	approverID, err = c.GetIDByKey(ctx, "approverId")
	if err != nil {
		return "", "", payload, err
	}
	if err = c.BodyParser(ctx, &payload); err != nil {
		return "", "", payload, err
	}
	if err = payload.Validate(); err != nil {
		return "", "", payload, err
	}
	return flyerID, approverID, payload, nil
}

// решение принимает сам согласующий, администратор может принять его за любого
func (c *approvalApiController) canDecide(ctx *fiber.Ctx, approverID string) bool {
	return middleware.IsAdmin(ctx) || middleware.GetUserID(ctx) == approverID
}
