package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperror"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/projects"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/utils"
)

type ProjectHandler struct {
	Projects *projects.Service
}

func NewProjectHandler(svc *projects.Service) *ProjectHandler {
	return &ProjectHandler{Projects: svc}
}

// an id that cannot exist is reported the same way as one that does not
func projectID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, apperror.NotFound("Project not found")
	}
	return id, nil
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	var req projects.CreateInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if errs := utils.Validate(req); errs != nil {
		return validationFail(c, errs)
	}

	p, err := h.Projects.Create(c.UserContext(), me, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, toProjectResponse(&p))
}

func (h *ProjectHandler) ListAll(c *fiber.Ctx) error {
	ps, err := h.Projects.ListAll(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, toProjectResponses(ps))
}

func (h *ProjectHandler) ListMine(c *fiber.Ctx) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	ps, err := h.Projects.ListMine(c.UserContext(), me)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, toProjectResponses(ps))
}

func (h *ProjectHandler) Browse(c *fiber.Ctx) error {
	ps, err := h.Projects.ListAvailable(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, toProjectResponses(ps))
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := projectID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	p, err := h.Projects.Get(c.UserContext(), me, id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, toProjectResponse(&p))
}

func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := projectID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req projects.UpdateInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	p, err := h.Projects.Update(c.UserContext(), me, id, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, toProjectResponse(&p))
}

func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := projectID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.Projects.Delete(c.UserContext(), me, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project deleted successfully",
	})
}
