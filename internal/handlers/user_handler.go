package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/machinery-hub/catalog-api/internal/models"
	"github.com/machinery-hub/catalog-api/internal/services"
)

// UserHandler serves /api/users. Every route is admin only.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var fields models.UserFields
	if err := parseBody(c, &fields); err != nil {
		return err
	}

	token, _, err := h.users.Register(c.UserContext(), fields)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var fields models.UserFields
	if err := parseBody(c, &fields); err != nil {
		return err
	}

	user, err := h.users.Update(c.UserContext(), c.Params("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return message(c, "User deleted!")
}
