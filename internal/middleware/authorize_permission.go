package middleware

import (
	"auraestate-backend/internal/constants"
	"auraestate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthorizePermission checks the actor's role against constants.PermissionRoles.
// Unconfigured permission -> 500; role not allowed -> 403.
func AuthorizePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor == nil {
			return response.Unauthorized(c, "Access token required")
		}
		if roles, ok := constants.PermissionRoles[permission]; !ok || len(roles) == 0 {
			return response.Error(c, "Permission configuration error", fiber.StatusInternalServerError)
		}
		if !constants.AllowedRole(permission, actor.Role) {
			return response.Error(c, "Insufficient permissions", fiber.StatusForbidden)
		}
		return c.Next()
	}
}
