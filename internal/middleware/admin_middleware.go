package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/machinery-hub/catalog-api/internal/models"
)

// errNoUser means AdminMiddleware was mounted without AuthMiddleware in
// front of it.
var errNoUser = errors.New("admin check without an authenticated user")

// AdminMiddleware ensures that only admin users reach the routes behind it.
// It must run after AuthMiddleware.
func AdminMiddleware(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil {
		return errNoUser
	}

	if !user.Admin {
		return models.NewError(models.ErrUnauthorized, "User is not authorized!")
	}

	return c.Next()
}
