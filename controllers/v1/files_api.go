package apiv1

import (
	"flyer-backend/controllers"
	filestorage "flyer-backend/lib/file-storage"
	"flyer-backend/lib/utils/helpers"
	"flyer-backend/models"
	apimodels "flyer-backend/models/api"
	"path"

	"github.com/gofiber/fiber/v2"
)

type filesApiController struct {
	controllers.BaseAPIController
}

func InitFilesApiRouters(app *fiber.App) {
	controller := filesApiController{}
	app.Route("files", func(router fiber.Router) {
		router.Get(":id", controller.get)
	})
}

// @Summary Получение файла
// @Tags Файлы
// @Description Логотипы брендов, иконки категорий и изображения товаров
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  				true    "file ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/files/{id} [get]
func (c *filesApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	file, err := filestorage.Instance.GetFile(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения файла")
	}
	return sendFile(ctx, file)
}

func sendFile(ctx *fiber.Ctx, file *models.File) error {
	if file.ContentType != "" {
		ctx.Set(fiber.HeaderContentType, file.ContentType)
	}
	ctx.Set(fiber.HeaderContentDisposition, helpers.ContentDisposition("inline", path.Base(file.FileName)))
	ctx.Set(fiber.HeaderCacheControl, "private, max-age=3600")
	return ctx.Send(file.Body)
}
