package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperror"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/utils"
)

func validationFail(c *fiber.Ctx, errs utils.FieldErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation error",
		"errors":  errs,
	})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid request body",
	})
}

// fail renders business errors as-is and hides everything else behind a
// generic 500.
func fail(c *fiber.Ctx, err error) error {
	if e, ok := apperror.As(err); ok {
		return c.Status(e.Kind.Status()).JSON(fiber.Map{
			"success": false,
			"message": e.Message,
		})
	}

	slog.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Internal Server Error",
	})
}

func ok(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// currentUser is only reached behind AttachUser, so a miss is a wiring bug.
func currentUser(c *fiber.Ctx) (models.User, error) {
	u, found := middleware.CurrentUser(c)
	if !found {
		return models.User{}, fiber.ErrUnauthorized
	}
	return u, nil
}
