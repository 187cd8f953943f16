package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/benchan0527/GoGoFood/internal/apperrors"
	"github.com/benchan0527/GoGoFood/internal/middleware"
	"github.com/benchan0527/GoGoFood/internal/services"
)

// ProfileHandler serves the authenticated caller's mirrored profile.
// Registration and login live with the external identity provider; this
// surface only reflects what the provider asserted.
type ProfileHandler struct {
	gate   *services.AccessGate
	logger *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(gate *services.AccessGate, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		gate:   gate,
		logger: logger,
	}
}

// RegisterRoutes registers the profile routes with the Fiber app.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/me", h.HandleGetMe)
}

// HandleGetMe returns the caller's identity and mirrored profile.
func (h *ProfileHandler) HandleGetMe(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	profile, err := h.gate.GetProfile(c.UserContext(), identity.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// Mirror write may have failed earlier; the verified identity is
			// still authoritative.
			return c.JSON(fiber.Map{"identity": identity})
		}
		h.logger.Error("failed to load profile", zap.String("user_id", identity.UserID), zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"identity": identity,
		"profile":  profile,
	})
}
