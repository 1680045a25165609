package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/accounts"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/utils"
)

type AuthHandler struct {
	Accounts  *accounts.Service
	JWTSecret string
	Expires   int
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) issue(c *fiber.Ctx, status int, message string, u models.User) error {
	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), string(u.Role), h.Expires)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data": fiber.Map{
			"token": token,
			"user":  u,
		},
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req accounts.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if errs := utils.Validate(req); errs != nil {
		return validationFail(c, errs)
	}

	u, err := h.Accounts.Register(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return h.issue(c, fiber.StatusCreated, "Registration successful", u)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if errs := utils.Validate(req); errs != nil {
		return validationFail(c, errs)
	}

	u, err := h.Accounts.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return h.issue(c, fiber.StatusOK, "Login successful", u)
}
