package controllers

import (
	"flyer-backend/middleware"
	"flyer-backend/models"
	apimodels "flyer-backend/models/api"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := ctx.Params(key)
	if id == "" {
		return "", errors.Errorf("не указан параметр %v", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetIntByKey(ctx *fiber.Ctx, key string) (int, error) {
	value, err := strconv.Atoi(ctx.Params(key))
	if err != nil {
		return 0, errors.Errorf("параметр %v должен быть числом", key)
	}
	return value, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// SendError ответ с ошибкой: прикладные ошибки отдаются с их сообщением и кодом по виду,
// остальные логируются и отдаются как 500 с общим сообщением
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	if appErr, ok := models.AsAppError(err); ok {
		logger.WithField("error_code", appErr.Code).Info(appErr.Message)
		return ctx.Status(StatusByKind(appErr.Kind)).JSON(apimodels.NewCodedError(appErr.Code, appErr.Message))
	}
	logger.WithError(err).Error(msg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(msg))
}

func (c *BaseAPIController) SendBadRequest(ctx *fiber.Ctx, msg string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(msg))
}

func StatusByKind(kind models.ErrorKind) int {
	switch kind {
	case models.ValidationErrorKind:
		return fiber.StatusBadRequest
	case models.NotFoundErrorKind:
		return fiber.StatusNotFound
	case models.ConflictErrorKind:
		return fiber.StatusConflict
	case models.ForbiddenErrorKind:
		return fiber.StatusForbidden
	case models.ExternalServiceErrorKind:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
