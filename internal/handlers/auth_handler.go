package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/machinery-hub/catalog-api/internal/middleware"
	"github.com/machinery-hub/catalog-api/internal/models"
	"github.com/machinery-hub/catalog-api/internal/services"
)

// SeedAccount is the development admin created by the seeding route.
type SeedAccount struct {
	Username string
	Email    string
	Password string
}

type AuthHandler struct {
	auth  *services.AuthService
	users *services.UserService
	seed  SeedAccount
}

func NewAuthHandler(auth *services.AuthService, users *services.UserService, seed SeedAccount) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, seed: seed}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var creds models.Credentials
	if err := parseBody(c, &creds); err != nil {
		return err
	}

	token, err := h.auth.Login(c.UserContext(), creds)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token})
}

// Me returns the user behind the request token.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// Seed creates the configured admin account. Only mounted in development
// when explicitly enabled.
func (h *AuthHandler) Seed(c *fiber.Ctx) error {
	user, err := h.users.SeedAdmin(c.UserContext(), h.seed.Username, h.seed.Email, h.seed.Password)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
