package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/utils"
)

type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// AttachUser resolves the token subject to the stored user. The role comes
// from the database, not from the token, so it cannot drift.
func AttachUser(users UserFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*utils.Claims)
		if !ok || claims == nil {
			return fiber.ErrUnauthorized
		}

		uid, err := uuid.Parse(claims.Subject)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		user, err := users.FindByID(c.UserContext(), uid)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals("user", user)
		c.Locals("userId", user.ID.String())
		c.Locals("role", string(user.Role))
		return c.Next()
	}
}

// CurrentUser returns the identity attached by AttachUser.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	u, ok := c.Locals("user").(models.User)
	return u, ok
}
