package apiv1

import (
	"flyer-backend/controllers"
	flyerhandler "flyer-backend/lib/flyer"
	"flyer-backend/lib/utils/helpers"
	"flyer-backend/middleware"
	"flyer-backend/models"
	apimodels "flyer-backend/models/api"
	flyerapimodels "flyer-backend/models/api/flyer"

	"github.com/gofiber/fiber/v2"
)

type flyerApiController struct {
	controllers.BaseAPIController
}

func InitFlyerApiRouters(app *fiber.App) {
	controller := flyerApiController{}
	editors := middleware.RoleRequired(models.UserRoleSupplier, models.UserRoleAdmin)
	app.Route("flyers", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", middleware.RoleRequired(models.UserRoleSupplier), controller.create)
		router.Get(":id", controller.get)
		router.Put(":id", editors, controller.update)
		router.Delete(":id", editors, controller.delete)
		router.Put(":id/submit", editors, controller.submit)
		router.Put(":id/activate", middleware.AdminRequired(), controller.activate)
		router.Get(":id/pdf", controller.pdf)

		router.Post(":id/pages", editors, controller.addPage)
		router.Put(":id/pages/:pageId", editors, controller.changeLayout)
		router.Delete(":id/pages/:pageId", editors, controller.deletePage)
		router.Put(":id/pages/:pageId/slots/:position/product", editors, controller.placeProduct)
		router.Delete(":id/pages/:pageId/slots/:position/product", editors, controller.removeProduct)
		router.Post(":id/pages/:pageId/promos", editors, controller.placePromo)
		router.Delete(":id/pages/:pageId/promos/:anchor", editors, controller.removePromo)
	})
}

// @Summary Создание листовки
// @Tags Листовки
// @Description Создание черновика листовки поставщиком
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 flyerapimodels.FlyerData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers [post]
func (c *flyerApiController) create(ctx *fiber.Ctx) error {
	var payload flyerapimodels.FlyerData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := flyerhandler.Instance.Create(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания листовки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение листовки
// @Tags Листовки
// @Description Получение листовки со страницами и размещением
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Success 200 {object} apimodels.Response{data=flyerapimodels.FlyerView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id} [get]
func (c *flyerApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := flyerhandler.Instance.Get(id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка получения листовки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список листовок
// @Tags Листовки
// @Description Список листовок. Поставщик видит только свои, согласующий не видит черновики
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 flyerapimodels.FlyerFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]flyerapimodels.FlyerView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/list [post]
func (c *flyerApiController) list(ctx *fiber.Ctx) error {
	var payload flyerapimodels.FlyerFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := flyerhandler.Instance.List(middleware.GetUserID(ctx), middleware.GetUserRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка листовок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Обновление листовки
// @Tags Листовки
// @Description Изменение названия, периода действия и акции. Доступно для черновика или отклоненной листовки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Param	body body	 flyerapimodels.FlyerData	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id} [put]
func (c *flyerApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload flyerapimodels.FlyerData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = flyerhandler.Instance.Update(id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка обновления листовки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление листовки
// @Tags Листовки
// @Description Удаление листовки владельцем или администратором
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id} [delete]
func (c *flyerApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = flyerhandler.Instance.Delete(id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка удаления листовки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отправка на проверку
// @Tags Листовки
// @Description Перевод черновика или отклоненной листовки на проверку в ERP
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/submit [put]
func (c *flyerApiController) submit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = flyerhandler.Instance.Submit(id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка отправки листовки на проверку")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Активация листовки
// @Tags Листовки
// @Description Перевод согласованной листовки в активные после наступления даты начала действия
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/activate [put]
func (c *flyerApiController) activate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = flyerhandler.Instance.Activate(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка активации листовки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Листовка в PDF
// @Tags Листовки
// @Description Выгрузка листовки в PDF
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/pdf [get]
func (c *flyerApiController) pdf(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, err := flyerhandler.Instance.Pdf(ctx.UserContext(), id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка формирования PDF")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, helpers.ContentDisposition("attachment", "flyer-"+id+".pdf"))
	return ctx.Send(body)
}

// @Summary Добавление страницы
// @Tags Листовки. Страницы
// @Description Добавление страницы с выбранной сеткой в конец листовки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Param	body body	 flyerapimodels.PageData	true	"request body"
// @Success 200 {object} apimodels.Response{data=flyerapimodels.PageView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/pages [post]
func (c *flyerApiController) addPage(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload flyerapimodels.PageData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := flyerhandler.Instance.AddPage(id, middleware.GetUserID(ctx), middleware.GetUserRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка добавления страницы")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Изменение сетки страницы
// @Tags Листовки. Страницы
// @Description Изменение сетки доступно только для пустой страницы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Param   pageId         		path    	string  				true    "page ID"
// @Param	body body	 flyerapimodels.PageData	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/pages/{pageId} [put]
func (c *flyerApiController) changeLayout(ctx *fiber.Ctx) error {
	id, pageID, err := c.getPageKeys(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload flyerapimodels.PageData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = flyerhandler.Instance.ChangeLayout(id, pageID, middleware.GetUserID(ctx), middleware.GetUserRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка изменения сетки страницы")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление страницы
// @Tags Листовки. Страницы
// @Description Удаление страницы вместе с размещением, оставшиеся страницы перенумеровываются
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Param   pageId         		path    	string  				true    "page ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/pages/{pageId} [delete]
func (c *flyerApiController) deletePage(ctx *fiber.Ctx) error {
	id, pageID, err := c.getPageKeys(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = flyerhandler.Instance.DeletePage(id, pageID, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка удаления страницы")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Размещение товара
// @Tags Листовки. Размещение
// @Description Размещение товара в свободной ячейке страницы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Param   pageId         		path    	string  				true    "page ID"
// @Param   position       		path    	int	  				true    "ячейка (0..N-1)"
// @Param	body body	 flyerapimodels.PlaceProductRequest	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/pages/{pageId}/slots/{position}/product [put]
func (c *flyerApiController) placeProduct(ctx *fiber.Ctx) error {
	id, pageID, err := c.getPageKeys(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	position, err := c.GetIntByKey(ctx, "position")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload flyerapimodels.PlaceProductRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = flyerhandler.Instance.PlaceProduct(id, pageID, position, middleware.GetUserID(ctx), middleware.GetUserRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка размещения товара")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Снятие товара
// @Tags Листовки. Размещение
// @Description Освобождение ячейки с товаром
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Param   pageId         		path    	string  				true    "page ID"
// @Param   position       		path    	int	  				true    "ячейка (0..N-1)"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/pages/{pageId}/slots/{position}/product [delete]
func (c *flyerApiController) removeProduct(ctx *fiber.Ctx) error {
	id, pageID, err := c.getPageKeys(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	position, err := c.GetIntByKey(ctx, "position")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = flyerhandler.Instance.RemoveProduct(id, pageID, position, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка снятия товара")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Размещение промо-изображения
// @Tags Листовки. Размещение
// @Description Размещение промо-изображения на диапазоне ячеек от якорной
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Param   pageId         		path    	string  				true    "page ID"
// @Param	body body	 flyerapimodels.PlacePromoRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=flyerapimodels.SlotPromoView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/pages/{pageId}/promos [post]
func (c *flyerApiController) placePromo(ctx *fiber.Ctx) error {
	id, pageID, err := c.getPageKeys(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload flyerapimodels.PlacePromoRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := flyerhandler.Instance.PlacePromo(id, pageID, middleware.GetUserID(ctx), middleware.GetUserRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка размещения промо-изображения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Снятие промо-изображения
// @Tags Листовки. Размещение
// @Description Освобождение всего диапазона ячеек промо-изображения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "flyer ID"
// @Param   pageId         		path    	string  				true    "page ID"
// @Param   anchor       		path    	int	  				true    "якорная ячейка"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flyers/{id}/pages/{pageId}/promos/{anchor} [delete]
func (c *flyerApiController) removePromo(ctx *fiber.Ctx) error {
	id, pageID, err := c.getPageKeys(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	anchor, err := c.GetIntByKey(ctx, "anchor")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = flyerhandler.Instance.RemovePromo(id, pageID, anchor, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("flyer_id", id), err, "Ошибка снятия промо-изображения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

func (c *flyerApiController) getPageKeys(ctx *fiber.Ctx) (flyerID, pageID string, err error) {
	flyerID, err = c.GetID(ctx)
	if err != nil {
		return "", "", err
	}
	pageID, err = c.GetIDByKey(ctx, "pageId")
	if err != nil {
		return "", "", err
	}
	return flyerID, pageID, nil
}
