package controllers

import (
	"flyer-backend/models"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSendError(t *testing.T) {
	c := BaseAPIController{}
	app := fiber.New()
	app.Get("/:kind", func(ctx *fiber.Ctx) error {
		var err error
		switch ctx.Params("kind") {
		case "conflict":
			err = errors.Wrap(models.ErrSlotConflict, "размещение промо")
		case "notfound":
			err = models.ErrFlyerNotFound
		case "erp":
			err = models.ErrErpUnavailable
		case "forbidden":
			err = models.ErrForbidden
		default:
			err = errors.New("pq: connection reset")
		}
		return c.SendError(ctx, log.WithField("test", true), err, "ошибка обработки запроса")
	})

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/conflict", fiber.StatusConflict, `"code":"` + models.ErrSlotConflict.Code + `"`},
		{"/notfound", fiber.StatusNotFound, models.ErrFlyerNotFound.Message},
		{"/erp", fiber.StatusBadGateway, models.ErrErpUnavailable.Message},
		{"/forbidden", fiber.StatusForbidden, models.ErrForbidden.Message},
		{"/db", fiber.StatusInternalServerError, "ошибка обработки запроса"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			require.Equal(t, tt.status, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.Contains(t, string(body), tt.body)
			require.NotContains(t, string(body), "pq:")
		})
	}
}
