package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func RequireRoles(allowed ...string) fiber.Handler {
	allowedSet := map[string]bool{}
	for _, r := range allowed {
		allowedSet[strings.ToLower(r)] = true
	}

	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		if !allowedSet[strings.ToLower(string(user.Role))] {
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		}

		return c.Next()
	}
}
