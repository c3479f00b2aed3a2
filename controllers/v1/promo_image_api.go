package apiv1

import (
	"flyer-backend/config"
	"flyer-backend/controllers"
	promoimagehandler "flyer-backend/lib/promo-image"
	"flyer-backend/lib/utils/helpers"
	"flyer-backend/middleware"
	"flyer-backend/models"
	apimodels "flyer-backend/models/api"
	promoapimodels "flyer-backend/models/api/promo"

	"github.com/gofiber/fiber/v2"
)

type promoImageApiController struct {
	controllers.BaseAPIController
}

func InitPromoImageApiRouters(app *fiber.App) {
	controller := promoImageApiController{}
	app.Route("promo-images", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Get(":id", controller.get)
		router.Get(":id/image", controller.image)
		router.Post("", middleware.RoleRequired(models.UserRoleSupplier), middleware.ImageUploadLimit(), controller.upload)
		router.Delete(":id", middleware.RoleRequired(models.UserRoleSupplier, models.UserRoleAdmin), controller.delete)
	})
}

// @Summary Загрузка промо-изображения
// @Tags Промо-изображения
// @Description Загрузка промо-изображения поставщика (JPEG, PNG, WebP, GIF, не больше 5 МБ)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   name				formData	string 	true 	"Название"
// @Param   size				formData	string 	true 	"SINGLE, HORIZONTAL, SQUARE, FULL_PAGE, HEADER_2X1, HEADER_2X2"
// @Param   image				formData	file 	true 	"Изображение"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/promo-images [post]
func (c *promoImageApiController) upload(ctx *fiber.Ctx) error {
	payload := promoapimodels.PromoImageData{
		Name: ctx.FormValue("name"),
		Size: models.PromoSize(ctx.FormValue("size")),
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	header, err := ctx.FormFile("image")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не передан файл изображения"))
	}
	file, err := helpers.ReadMultipartFile(header, config.Conf.Upload.MaxImageSize)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка при получении файла изображения")
	}
	id, err := promoimagehandler.Instance.Upload(ctx.UserContext(), middleware.GetUserID(ctx), payload, file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сохранения промо-изображения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список промо-изображений
// @Tags Промо-изображения
// @Description Список промо-изображений. Поставщик видит только свои
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]promoapimodels.PromoImageView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/promo-images [get]
func (c *promoImageApiController) list(ctx *fiber.Ctx) error {
	resp, err := promoimagehandler.Instance.List(middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка промо-изображений")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Получение промо-изображения
// @Tags Промо-изображения
// @Description Метаданные промо-изображения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "promo image ID"
// @Success 200 {object} apimodels.Response{data=promoapimodels.PromoImageView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/promo-images/{id} [get]
func (c *promoImageApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := promoimagehandler.Instance.Get(id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения промо-изображения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Файл промо-изображения
// @Tags Промо-изображения
// @Description Получение файла промо-изображения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "promo image ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/promo-images/{id}/image [get]
func (c *promoImageApiController) image(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	file, err := promoimagehandler.Instance.GetImage(ctx.UserContext(), id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения файла промо-изображения")
	}
	return sendFile(ctx, file)
}

// @Summary Удаление промо-изображения
// @Tags Промо-изображения
// @Description Удаление промо-изображения владельцем или администратором. Размещенное изображение удалить нельзя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "promo image ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/promo-images/{id} [delete]
func (c *promoImageApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = promoimagehandler.Instance.Delete(ctx.UserContext(), id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления промо-изображения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
