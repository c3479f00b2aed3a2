package fiberlog

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const accessMessage = "запрос api"

// fields собирает значения тегов, пустые строки пропускаются
func fields(ftm map[string]FuncTag, c *fiber.Ctx, d *data) log.Fields {
	result := make(log.Fields, len(ftm))
	for key, tag := range ftm {
		value := tag(c, d)
		if str, ok := value.(string); ok && str == "" {
			continue
		}
		result[key] = value
	}
	return result
}

// levelOf 5xx ошибка сервера, 4xx ошибка клиента
func levelOf(c *fiber.Ctx) log.Level {
	if c.Response() == nil {
		return log.InfoLevel
	}
	status := c.Response().StatusCode()
	switch {
	case status >= fiber.StatusInternalServerError:
		return log.ErrorLevel
	case status >= fiber.StatusBadRequest:
		return log.WarnLevel
	default:
		return log.InfoLevel
	}
}

// New creates a new middleware handler
func New(config ...Config) fiber.Handler {
	cfg := ConfigDefault
	if len(config) != 0 {
		cfg = config[0]
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	pid := os.Getpid()
	ftm := getFuncTagMap(cfg)
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions || (cfg.Next != nil && cfg.Next(c)) {
			return c.Next()
		}
		d := &data{
			pid:   pid,
			start: time.Now(),
		}
		err := c.Next()
		d.end = time.Now()
		logger.WithFields(fields(ftm, c, d)).Log(levelOf(c), accessMessage)
		return err
	}
}
