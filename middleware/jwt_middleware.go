package middleware

import (
	"flyer-backend/config"
	apimodels "flyer-backend/models/api"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func AuthorizationRequired() fiber.Handler {
	return authorization("header:Authorization")
}

// WsAuthorizationRequired браузер не передает заголовки при открытии websocket, токен допускается в query
func WsAuthorizationRequired() fiber.Handler {
	return authorization("header:Authorization,query:token")
}

func authorization(tokenLookup string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		TokenLookup: tokenLookup,
		Claims:      jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("требуется авторизация"))
		},
	})
}
