package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/benchan0527/GoGoFood/internal/middleware"
	"github.com/benchan0527/GoGoFood/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. Confirm is a
// fulfillment-side action and passes through the adminOnly middleware.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, adminOnly fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Get("/", h.HandleListMyOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Post("/:id/confirm", adminOnly, h.HandleConfirmOrder)
}

// PlaceOrderRequest is the request body for placing an order. The owning user
// always comes from the verified identity, never from the payload, and
// per-line quantity checks are left to the order engine so rejections carry a
// machine-readable reason.
type PlaceOrderRequest struct {
	Items []services.OrderLine `json:"items" validate:"required,min=1"`
}

// HandlePlaceOrder creates a new order for the authenticated user.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	var req PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	order, err := h.service.PlaceOrder(c.UserContext(), identity.UserID, req.Items)
	if err != nil {
		h.logger.Info("order rejected",
			zap.String("user_id", identity.UserID),
			zap.Error(err))
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleListMyOrders retrieves the authenticated user's order history.
func (h *OrderHandler) HandleListMyOrders(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	orders, err := h.service.ListOrdersByUser(c.UserContext(), identity.UserID)
	if err != nil {
		h.logger.Error("failed to list orders", zap.String("user_id", identity.UserID), zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrder retrieves a single order. Owners see their own orders;
// admins see any.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	order, err := h.service.GetOrder(c.UserContext(), c.Params("id"), identity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleCancelOrder cancels a PLACED order owned by the caller.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	orderID := c.Params("id")
	order, err := h.service.CancelOrder(c.UserContext(), orderID, identity.UserID)
	if err != nil {
		h.logger.Info("order cancel rejected",
			zap.String("order_id", orderID),
			zap.String("user_id", identity.UserID),
			zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleConfirmOrder marks a PLACED order as CONFIRMED on behalf of the
// kitchen.
func (h *OrderHandler) HandleConfirmOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.ConfirmOrder(c.UserContext(), orderID)
	if err != nil {
		h.logger.Info("order confirm rejected", zap.String("order_id", orderID), zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(order)
}
