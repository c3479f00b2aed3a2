package middleware

import (
	"flyer-backend/config"
	apimodels "flyer-backend/models/api"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// multipartOverhead запас на заголовки и поля multipart-формы сверх размера файла
const multipartOverhead = 64 * 1024

// WithBodyLimit отклоняет запрос по Content-Length до чтения тела
func WithBodyLimit(limit int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		size := int64(c.Request().Header.ContentLength())
		if size > limit {
			return c.Status(fiber.StatusRequestEntityTooLarge).
				JSON(apimodels.NewError(fmt.Sprintf("размер запроса превышает допустимый: %d байт", limit)))
		}
		return c.Next()
	}
}

// ImageUploadLimit ограничение для загрузки одного изображения
func ImageUploadLimit() fiber.Handler {
	return WithBodyLimit(config.Conf.Upload.MaxImageSize + multipartOverhead)
}
