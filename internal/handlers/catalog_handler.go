package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/benchan0527/GoGoFood/internal/models"
	"github.com/benchan0527/GoGoFood/internal/repositories"
	"github.com/benchan0527/GoGoFood/internal/services"
)

// CatalogHandler handles HTTP requests for the menu.
type CatalogHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the menu routes with the Fiber app. Write routes
// additionally pass through the adminOnly middleware.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router, adminOnly fiber.Handler) {
	menuRoutes := router.Group("/menu")
	menuRoutes.Get("/items", h.HandleListItems)
	menuRoutes.Get("/items/:id", h.HandleGetItem)
	menuRoutes.Get("/modifiers/:id", h.HandleGetModifier)

	menuRoutes.Post("/items", adminOnly, h.HandleCreateItem)
	menuRoutes.Put("/items/:id", adminOnly, h.HandleUpdateItem)
	menuRoutes.Patch("/items/:id/availability", adminOnly, h.HandleSetAvailability)
	menuRoutes.Post("/modifiers", adminOnly, h.HandleCreateModifier)
}

// HandleListItems retrieves menu items, optionally filtered by category and
// availability.
func (h *CatalogHandler) HandleListItems(c *fiber.Ctx) error {
	filter := repositories.CatalogFilter{
		Category:      c.Query("category"),
		OnlyAvailable: c.QueryBool("available"),
	}

	items, err := h.service.ListItems(c.UserContext(), filter)
	if err != nil {
		h.logger.Error("failed to list menu items", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(items)
}

// HandleGetItem retrieves a single menu item by its ID.
func (h *CatalogHandler) HandleGetItem(c *fiber.Ctx) error {
	itemID := c.Params("id")
	item, err := h.service.GetItem(c.UserContext(), itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// HandleGetModifier retrieves a modifier group by its ID.
func (h *CatalogHandler) HandleGetModifier(c *fiber.Ctx) error {
	modifierID := c.Params("id")
	modifier, err := h.service.GetModifier(c.UserContext(), modifierID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(modifier)
}

// MenuItemRequest is the admin payload for creating or updating a menu item.
type MenuItemRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Price       float64  `json:"price" validate:"gte=0"`
	Category    string   `json:"category" validate:"required,oneof=appetizer main dessert beverage"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	Available   *bool    `json:"available"`
	ModifierIDs []string `json:"modifier_ids"`
}

// HandleCreateItem creates a new menu item.
func (h *CatalogHandler) HandleCreateItem(c *fiber.Ctx) error {
	var req MenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	item := models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Available:   true,
		ModifierIDs: req.ModifierIDs,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := h.service.CreateItem(c.UserContext(), &item); err != nil {
		h.logger.Error("failed to create menu item", zap.Error(err))
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateItem updates an existing menu item. The identifier in the path
// is authoritative and immutable.
func (h *CatalogHandler) HandleUpdateItem(c *fiber.Ctx) error {
	itemID := c.Params("id")

	var req MenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	existing, err := h.service.GetItem(c.UserContext(), itemID)
	if err != nil {
		return respondError(c, err)
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Category = req.Category
	existing.ImageURL = req.ImageURL
	existing.ModifierIDs = req.ModifierIDs
	if req.Available != nil {
		existing.Available = *req.Available
	}

	if err := h.service.UpdateItem(c.UserContext(), existing); err != nil {
		h.logger.Error("failed to update menu item", zap.String("item_id", itemID), zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(existing)
}

// HandleSetAvailability flips the availability flag on a menu item.
func (h *CatalogHandler) HandleSetAvailability(c *fiber.Ctx) error {
	itemID := c.Params("id")

	var req struct {
		Available *bool `json:"available" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil || req.Available == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Request body must carry an 'available' flag",
		})
	}

	item, err := h.service.SetItemAvailability(c.UserContext(), itemID, *req.Available)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// ModifierRequest is the admin payload for creating a modifier group.
type ModifierRequest struct {
	Name     string                  `json:"name" validate:"required,min=2,max=100"`
	Required bool                    `json:"required"`
	Options  []ModifierOptionRequest `json:"options" validate:"required,min=1,dive"`
}

// ModifierOptionRequest is one option within a ModifierRequest.
type ModifierOptionRequest struct {
	Name       string  `json:"name" validate:"required,min=1,max=100"`
	PriceDelta float64 `json:"price_delta" validate:"gte=0"`
}

// HandleCreateModifier creates a new modifier group.
func (h *CatalogHandler) HandleCreateModifier(c *fiber.Ctx) error {
	var req ModifierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	modifier := models.Modifier{
		Name:     req.Name,
		Required: req.Required,
	}
	for _, opt := range req.Options {
		modifier.Options = append(modifier.Options, models.ModifierOption{
			Name:       opt.Name,
			PriceDelta: opt.PriceDelta,
		})
	}

	if err := h.service.CreateModifier(c.UserContext(), &modifier); err != nil {
		h.logger.Error("failed to create modifier", zap.Error(err))
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(modifier)
}

// respondValidationErrors renders validator.v10 failures field by field.
func respondValidationErrors(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
