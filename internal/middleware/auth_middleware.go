package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/machinery-hub/catalog-api/internal/models"
)

// TokenHeader carries the auth token on protected routes.
const TokenHeader = "x-auth-token"

const userLocalsKey = "user"

// Authenticator resolves a token to the user it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware verifies the x-auth-token header and stores the resolved
// user for the handlers that follow.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.Authenticate(c.UserContext(), c.Get(TokenHeader))
		if err != nil {
			return err
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}
