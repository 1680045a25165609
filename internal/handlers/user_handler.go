package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/accounts"
)

type UserHandler struct {
	Accounts *accounts.Service
}

func NewUserHandler(svc *accounts.Service) *UserHandler {
	return &UserHandler{Accounts: svc}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	u, err := h.Accounts.FindByID(c.UserContext(), me.ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, u)
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	var patch accounts.ProfilePatch
	if err := c.BodyParser(&patch); err != nil {
		return invalidBody(c)
	}

	u, err := h.Accounts.UpdateProfile(c.UserContext(), me.ID, patch)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, u)
}
