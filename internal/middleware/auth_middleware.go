package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/benchan0527/GoGoFood/internal/services"
)

// IdentityKey is the Locals key the verified identity is stored under.
const IdentityKey = "identity"

// AuthRequired is a Fiber middleware that passes each request through the
// access gate before it reaches any handler.
func AuthRequired(gate *services.AccessGate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		identity, err := gate.Authorize(c.UserContext(), parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		// Store the identity in the Fiber context for subsequent handlers
		c.Locals(IdentityKey, identity)

		return c.Next()
	}
}

// AdminRequired rejects callers without the admin role. Must run after
// AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := c.Locals(IdentityKey).(services.Identity)
		if !ok || !identity.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin role is required",
			})
		}
		return c.Next()
	}
}

// IdentityFrom extracts the verified identity stored by AuthRequired.
func IdentityFrom(c *fiber.Ctx) (services.Identity, bool) {
	identity, ok := c.Locals(IdentityKey).(services.Identity)
	return identity, ok
}
