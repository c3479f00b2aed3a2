package dict

import (
	"flyer-backend/config"
	"flyer-backend/controllers"
	brandprovider "flyer-backend/lib/dicts/brand"
	"flyer-backend/lib/utils/helpers"
	"flyer-backend/middleware"
	apimodels "flyer-backend/models/api"
	dictapimodels "flyer-backend/models/api/dict"

	"github.com/gofiber/fiber/v2"
)

type brandDictApiController struct {
	controllers.BaseAPIController
}

func InitBrandDictApiRouters(app *fiber.App) {
	controller := brandDictApiController{}
	app.Route("brands", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Get(":id", controller.get)
		router.Use(middleware.AdminRequired())
		router.Post("", controller.create)
		router.Put(":id", controller.update)
		router.Delete(":id", controller.delete)
		router.Put(":id/logo", middleware.ImageUploadLimit(), controller.uploadLogo)
	})
}

// @Summary Создание
// @Tags Справочник. Бренды
// @Description Создание бренда
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 dictapimodels.BrandData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/brands [post]
func (c *brandDictApiController) create(ctx *fiber.Ctx) error {
	var payload dictapimodels.BrandData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := brandprovider.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка добавления бренда")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Обновление
// @Tags Справочник. Бренды
// @Description Обновление бренда
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "brand ID"
// @Param	body body	 dictapimodels.BrandData	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/brands/{id} [put]
func (c *brandDictApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload dictapimodels.BrandData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = brandprovider.Instance.Update(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления бренда")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Получение по ИД
// @Tags Справочник. Бренды
// @Description Получение бренда по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "brand ID"
// @Success 200 {object} apimodels.Response{data=dictapimodels.BrandView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/brands/{id} [get]
func (c *brandDictApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := brandprovider.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения бренда")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список
// @Tags Справочник. Бренды
// @Description Список брендов
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.BrandView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/brands [get]
func (c *brandDictApiController) list(ctx *fiber.Ctx) error {
	resp, err := brandprovider.Instance.List()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка брендов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Удаление
// @Tags Справочник. Бренды
// @Description Удаление бренда
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "brand ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/brands/{id} [delete]
func (c *brandDictApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = brandprovider.Instance.Delete(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления бренда")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Загрузка логотипа
// @Tags Справочник. Бренды
// @Description Загрузка логотипа бренда (JPEG, PNG, WebP, GIF)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "brand ID"
// @Param   logo				formData	file 	true 	"Логотип"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/brands/{id}/logo [put]
func (c *brandDictApiController) uploadLogo(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	header, err := ctx.FormFile("logo")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не передан файл логотипа"))
	}
	file, err := helpers.ReadMultipartFile(header, config.Conf.Upload.MaxImageSize)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка при получении файла логотипа")
	}
	err = brandprovider.Instance.UploadLogo(ctx.UserContext(), id, middleware.GetUserID(ctx), file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сохранения логотипа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
