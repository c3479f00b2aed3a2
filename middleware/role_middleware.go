package middleware

import (
	authutils "flyer-backend/lib/utils/auth-utils"
	"flyer-backend/models"
	apimodels "flyer-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

// RoleRequired пропускает только пользователей с одной из указанных ролей
func RoleRequired(roles ...models.UserRole) fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		userRole := GetUserRole(ctx)
		for _, role := range roles {
			if userRole == role {
				return ctx.Next()
			}
		}
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
	}
}

func AdminRequired() fiber.Handler {
	return RoleRequired(models.UserRoleAdmin)
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		if userID, ok := sub.(string); ok {
			return userID
		}
	}
	return ""
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

func IsAdmin(ctx *fiber.Ctx) bool {
	return GetUserRole(ctx).IsAdmin()
}
