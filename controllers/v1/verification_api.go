package apiv1

import (
	"flyer-backend/controllers"
	"flyer-backend/lib/utils/helpers"
	verificationhandler "flyer-backend/lib/verification"
	"flyer-backend/middleware"
	"flyer-backend/models"
	apimodels "flyer-backend/models/api"
	erpapimodels "flyer-backend/models/api/erp"

	"github.com/gofiber/fiber/v2"
)

type verificationApiController struct {
	controllers.BaseAPIController
}

func InitVerificationApiRouters(app *fiber.App) {
	controller := verificationApiController{}
	app.Route("verification", func(router fiber.Router) {
		router.Post("flyers/:id", middleware.RoleRequired(models.UserRoleSupplier, models.UserRoleAdmin), controller.verify)
		router.Get("flyers/:id", controller.get)
		router.Get("flyers/:id/report", controller.report)
		router.Post("ean", controller.validateEAN)
		router.Post("existence", controller.existence)
	})
}

// @Summary Проверка листовки в ERP
// @Tags Проверка ERP
// @Description Сверка товаров листовки с ERP. При успешной проверке листовка на проверке передается на согласование
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Success 200 {object} apimodels.Response{data=verificationapimodels.VerificationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/verification/flyers/{id} [post]
func (c *verificationApiController) verify(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := verificationhandler.Instance.VerifyFlyer(ctx.UserContext(), id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка проверки листовки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Результат последней проверки
// @Tags Проверка ERP
// @Description Результат последней проверки листовки, пусто если проверки не было
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Success 200 {object} apimodels.Response{data=verificationapimodels.VerificationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/verification/flyers/{id} [get]
func (c *verificationApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := verificationhandler.Instance.Get(id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка получения результата проверки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Отчет о проверке
// @Tags Проверка ERP
// @Description Выгрузка результата последней проверки в Excel
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/verification/flyers/{id}/report [get]
func (c *verificationApiController) report(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := verificationhandler.Instance.Report(id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка формирования отчета")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, helpers.ContentDisposition("attachment", "verification-"+id+".xlsx"))
	return ctx.SendStream(data)
}

// @Summary Проверка EAN
// @Tags Проверка ERP
// @Description Поиск товара в ERP по EAN и сверка цен, если они переданы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 erpapimodels.ValidateEANRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=erpapimodels.EanValidation}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/verification/ean [post]
func (c *verificationApiController) validateEAN(ctx *fiber.Ctx) error {
	var payload erpapimodels.ValidateEANRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp := verificationhandler.Instance.ValidateEAN(ctx.UserContext(), payload)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Наличие товаров в ERP
// @Tags Проверка ERP
// @Description Пакетная проверка наличия товаров. При недоступности ERP все товары считаются отсутствующими
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 erpapimodels.ExistenceRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=erpapimodels.ExistenceResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/verification/existence [post]
func (c *verificationApiController) existence(ctx *fiber.Ctx) error {
	var payload erpapimodels.ExistenceRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp := verificationhandler.Instance.CheckExistence(ctx.UserContext(), payload)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
