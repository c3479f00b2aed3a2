package dict

import (
	"flyer-backend/config"
	"flyer-backend/controllers"
	categoryprovider "flyer-backend/lib/dicts/category"
	"flyer-backend/lib/utils/helpers"
	"flyer-backend/middleware"
	apimodels "flyer-backend/models/api"
	dictapimodels "flyer-backend/models/api/dict"

	"github.com/gofiber/fiber/v2"
)

type categoryDictApiController struct {
	controllers.BaseAPIController
}

func InitCategoryDictApiRouters(app *fiber.App) {
	controller := categoryDictApiController{}
	app.Route("categories", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Get(":id", controller.get)
		router.Use(middleware.AdminRequired())
		router.Post("", controller.create)
		router.Put(":id", controller.update)
		router.Delete(":id", controller.delete)
		router.Put(":id/icon", middleware.ImageUploadLimit(), controller.uploadIcon)
	})
}

// @Summary Создание
// @Tags Справочник. Категории
// @Description Создание категории
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 dictapimodels.CategoryData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/categories [post]
func (c *categoryDictApiController) create(ctx *fiber.Ctx) error {
	var payload dictapimodels.CategoryData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := categoryprovider.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка добавления категории")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Обновление
// @Tags Справочник. Категории
// @Description Обновление категории
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "category ID"
// @Param	body body	 dictapimodels.CategoryData	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/categories/{id} [put]
func (c *categoryDictApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload dictapimodels.CategoryData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = categoryprovider.Instance.Update(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления категории")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Получение по ИД
// @Tags Справочник. Категории
// @Description Получение категории по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "category ID"
// @Success 200 {object} apimodels.Response{data=dictapimodels.CategoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/categories/{id} [get]
func (c *categoryDictApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := categoryprovider.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения категории")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список
// @Tags Справочник. Категории
// @Description Список категорий
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.CategoryView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/categories [get]
func (c *categoryDictApiController) list(ctx *fiber.Ctx) error {
	resp, err := categoryprovider.Instance.List()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка категорий")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Удаление
// @Tags Справочник. Категории
// @Description Удаление категории
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "category ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/categories/{id} [delete]
func (c *categoryDictApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = categoryprovider.Instance.Delete(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления категории")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Загрузка иконки
// @Tags Справочник. Категории
// @Description Загрузка иконки категории (JPEG, PNG, WebP, GIF)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "category ID"
// @Param   icon				formData	file 	true 	"Иконка"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/categories/{id}/icon [put]
func (c *categoryDictApiController) uploadIcon(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	header, err := ctx.FormFile("icon")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не передан файл иконки"))
	}
	file, err := helpers.ReadMultipartFile(header, config.Conf.Upload.MaxImageSize)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка при получении файла иконки")
	}
	err = categoryprovider.Instance.UploadIcon(ctx.UserContext(), id, middleware.GetUserID(ctx), file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сохранения иконки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
