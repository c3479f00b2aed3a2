package apiv1

import (
	"flyer-backend/controllers"
	usershandler "flyer-backend/lib/users"
	"flyer-backend/middleware"
	"flyer-backend/models"
	apimodels "flyer-backend/models/api"
	userapimodels "flyer-backend/models/api/user"

	"github.com/gofiber/fiber/v2"
)

type usersApiController struct {
	controllers.BaseAPIController
}

func InitUsersApiRouters(app *fiber.App) {
	controller := usersApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Get("approvers", controller.approvers)
		router.Use(middleware.AdminRequired())
		router.Post("", controller.create)
		router.Get("list", controller.list)
		router.Put(":id/active", controller.setActive)
	})
}

// @Summary Создание пользователя
// @Tags Пользователи
// @Description Создание пользователя (администратор, поставщик, согласующий)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 userapimodels.UserData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [post]
func (c *usersApiController) create(ctx *fiber.Ctx) error {
	var payload userapimodels.UserData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := usershandler.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список пользователей
// @Tags Пользователи
// @Description Список пользователей, можно отфильтровать по роли
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   role				query		string	false	"ADMIN, SUPPLIER, APPROVER"
// @Success 200 {object} apimodels.Response{data=[]userapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/list [get]
func (c *usersApiController) list(ctx *fiber.Ctx) error {
	role := models.UserRole(ctx.Query("role"))
	if role != "" && !role.IsValid() {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("указана неизвестная роль"))
	}
	list, err := usershandler.Instance.List(role)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка пользователей")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Список согласующих
// @Tags Пользователи
// @Description Список активных согласующих для запроса согласования
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]userapimodels.UserView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/approvers [get]
func (c *usersApiController) approvers(ctx *fiber.Ctx) error {
	list, err := usershandler.Instance.List(models.UserRoleApprover)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка согласующих")
	}
	result := make([]userapimodels.UserView, 0, len(list))
	for _, user := range list {
		if user.IsActive {
			result = append(result, user)
		}
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Блокировка/разблокировка пользователя
// @Tags Пользователи
// @Description Блокировка/разблокировка пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "user ID"
// @Param	body body	 userapimodels.ActiveRequest	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id}/active [put]
func (c *usersApiController) setActive(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload userapimodels.ActiveRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if id == middleware.GetUserID(ctx) && !payload.IsActive {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("нельзя заблокировать самого себя"))
	}
	err = usershandler.Instance.SetActive(id, payload.IsActive)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
