package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tutordesk/tutordesk/internal/apperr"
)

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case apperr.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case apperr.IsConflict(err):
		var ce *apperr.ConflictError
		errors.As(err, &ce)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": ce.Error(),
			"date":  ce.Date,
			"time":  ce.Time,
			"week":  ce.Week,
		})
	case apperr.IsPolicy(err):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrBookingNotFound),
		errors.Is(err, apperr.ErrSlotNotFound),
		errors.Is(err, apperr.ErrStudentNotFound),
		errors.Is(err, apperr.ErrSessionNotFound),
		errors.Is(err, apperr.ErrFeedbackNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
