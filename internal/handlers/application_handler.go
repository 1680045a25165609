package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/applications"
)

type ApplicationHandler struct {
	Applications *applications.Service
}

func NewApplicationHandler(svc *applications.Service) *ApplicationHandler {
	return &ApplicationHandler{Applications: svc}
}

func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := projectID(c, "projectId")
	if err != nil {
		return fail(c, err)
	}

	var req applications.ApplyInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
	}

	app, err := h.Applications.Apply(c.UserContext(), me, id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Application submitted successfully",
		"data":    toApplicationResponse(&app),
	})
}

func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	apps, err := h.Applications.ListMine(c.UserContext(), me)
	if err != nil {
		return fail(c, err)
	}

	out := make([]ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, toApplicationResponse(&apps[i]))
	}
	return ok(c, fiber.StatusOK, out)
}
