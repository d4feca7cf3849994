package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/RayL2590/paymybuddy/internal/core/domain"
)

var validate = validator.New()

// parseBody decodes and validates a JSON request body in one step.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return domain.ErrInvalidRequest
	}
	if err := validate.Struct(dest); err != nil {
		return err
	}
	return nil
}

// fail maps a core error to a status code and a JSON error body. Anything
// outside the core taxonomy is a 500 and the detail stays in the logs.
func fail(c *fiber.Ctx, err error) error {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": verr.Error()})
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAlreadyConnected), errors.Is(err, domain.ErrSelfConnection):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
