package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/machinery-hub/catalog-api/internal/models"
)

const serverErrorMsg = "Server Error"

var errInvalidBody = models.NewError(models.ErrValidation, "Invalid request body")

// ErrorHandler maps every error returned by handlers and middleware onto the
// JSON error envelope. Anything unclassified is logged and reported as 500
// without details.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var verrs models.ValidationErrors
		if errors.As(err, &verrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verrs})
		}

		status, msg := classify(err)
		if status == fiber.StatusInternalServerError {
			logger.ErrorContext(c.UserContext(), "request failed",
				"request_id", c.Locals("requestid"),
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
		}
		return c.Status(status).JSON(fiber.Map{"msg": msg})
	}
}

func classify(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrConflict):
		status = fiber.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated), errors.Is(err, models.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		status = fiber.StatusNotFound
	}
	if status == fiber.StatusInternalServerError {
		return status, serverErrorMsg
	}

	var appErr *models.Error
	if errors.As(err, &appErr) {
		return status, appErr.Msg
	}
	return status, err.Error()
}

// parseBody decodes the JSON body into dst. An empty body leaves dst as is.
func parseBody(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	return nil
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"msg": msg})
}
