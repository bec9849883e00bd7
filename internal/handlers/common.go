package handlers

import (
	"errors"

	"warbler/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// writeError converts a domain error into the matching HTTP response.
// Driver or implementation error text never reaches the client; only
// the domain taxonomy does.
func writeError(c *fiber.Ctx, err error) error {
	var dup *models.DuplicateKeyError
	var validation *models.ValidationError

	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found.",
		})
	case errors.Is(err, models.ErrAuthFailure):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials.",
		})
	case errors.Is(err, models.ErrAuthorizationDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Access unauthorized.",
		})
	case errors.Is(err, models.ErrSelfFollow):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "You cannot follow yourself.",
		})
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  map[string]string{validation.Field: validation.Message},
		})
	case errors.As(err, &dup):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": dup.Error(),
			"field":   dup.Field,
		})
	case errors.Is(err, models.ErrNotUnique):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Username and/or email are not unique.",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An unexpected error occurred.",
		})
	}
}

// writeValidationErrors renders go-playground validation failures as a
// field-to-message map, matching the shape writeError uses.
func writeValidationErrors(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = "failed on the '" + e.Tag() + "' tag"
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// paramID parses the :id route parameter as an entity id.
func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, models.ErrNotFound
	}
	return uint(id), nil
}
