package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/utils"
)

// BearerJWT verifies the Authorization header and stores the claims under
// "claims". Missing, malformed, expired or forged tokens all end in the same
// 401.
func BearerJWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, tokenStr, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return fiber.ErrUnauthorized
		}

		claims, err := utils.ParseJWT(secret, strings.TrimSpace(tokenStr))
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}
