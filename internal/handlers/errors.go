package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/benchan0527/GoGoFood/internal/apperrors"
)

// respondError maps domain error kinds onto HTTP status codes. Transient
// infrastructure failures surface as 503 without leaking the underlying
// cause; everything unrecognized becomes a 500.
func respondError(c *fiber.Ctx, err error) error {
	if ve, ok := apperrors.IsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"reason":  ve.Reason,
			"subject": ve.Subject,
			"error":   ve.Message,
		})
	}
	if apperrors.IsNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	if apperrors.IsUnauthorized(err) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired credential",
		})
	}
	if apperrors.IsForbidden(err) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	if apperrors.IsInvalidState(err) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	if apperrors.IsUnavailable(err) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Service temporarily unavailable, please retry",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}
