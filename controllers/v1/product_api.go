package apiv1

import (
	"flyer-backend/config"
	"flyer-backend/controllers"
	producthandler "flyer-backend/lib/product"
	"flyer-backend/lib/utils/helpers"
	"flyer-backend/middleware"
	"flyer-backend/models"
	apimodels "flyer-backend/models/api"
	productapimodels "flyer-backend/models/api/product"

	"github.com/gofiber/fiber/v2"
)

type productApiController struct {
	controllers.BaseAPIController
}

func InitProductApiRouters(app *fiber.App) {
	controller := productApiController{}
	app.Route("products", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Get(":id", controller.get)
		router.Use(middleware.RoleRequired(models.UserRoleSupplier, models.UserRoleAdmin))
		router.Post("", middleware.RoleRequired(models.UserRoleSupplier), controller.create)
		router.Put(":id", controller.update)
		router.Delete(":id", controller.delete)
		router.Put(":id/image", middleware.ImageUploadLimit(), controller.uploadImage)
	})
}

// @Summary Создание товара
// @Tags Товары
// @Description Создание товара поставщика
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 productapimodels.ProductData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/products [post]
func (c *productApiController) create(ctx *fiber.Ctx) error {
	var payload productapimodels.ProductData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := producthandler.Instance.Create(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания товара")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Обновление товара
// @Tags Товары
// @Description Обновление товара
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "product ID"
// @Param	body body	 productapimodels.ProductData	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/products/{id} [put]
func (c *productApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload productapimodels.ProductData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = producthandler.Instance.Update(id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления товара")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Получение товара
// @Tags Товары
// @Description Получение товара по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "product ID"
// @Success 200 {object} apimodels.Response{data=productapimodels.ProductView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/products/{id} [get]
func (c *productApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := producthandler.Instance.Get(id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения товара")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список товаров
// @Tags Товары
// @Description Список товаров. Поставщик видит только свои товары
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 productapimodels.ProductFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]productapimodels.ProductView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/products/list [post]
func (c *productApiController) list(ctx *fiber.Ctx) error {
	var payload productapimodels.ProductFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := producthandler.Instance.List(middleware.GetUserID(ctx), middleware.GetUserRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка товаров")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Удаление товара
// @Tags Товары
// @Description Удаление товара. Товар, размещенный в листовке, удалить нельзя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "product ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/products/{id} [delete]
func (c *productApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = producthandler.Instance.Delete(id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления товара")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Загрузка изображения товара
// @Tags Товары
// @Description Загрузка изображения товара (JPEG, PNG, WebP, GIF)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "product ID"
// @Param   image				formData	file 	true 	"Изображение"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/products/{id}/image [put]
func (c *productApiController) uploadImage(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
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
	err = producthandler.Instance.UploadImage(ctx.UserContext(), id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx), file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сохранения изображения товара")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
