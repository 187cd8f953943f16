package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benchan0527/GoGoFood/internal/apperrors"
	"github.com/benchan0527/GoGoFood/internal/models"
	"github.com/benchan0527/GoGoFood/internal/repositories"
)

// Order lifecycle events published to the message bus.
const (
	EventOrderPlaced    = "order.placed"
	EventOrderConfirmed = "order.confirmed"
	EventOrderCancelled = "order.cancelled"
)

// CatalogReader is the slice of the catalog the order engine validates
// against.
type CatalogReader interface {
	GetItem(ctx context.Context, id string) (*models.MenuItem, error)
	GetModifier(ctx context.Context, id string) (*models.Modifier, error)
}

// OrderEventPublisher publishes order lifecycle events. Publishing is
// best-effort: a broker outage never fails the request.
type OrderEventPublisher interface {
	PublishOrderEvent(event string, body []byte) error
}

// OrderLineOption selects one option from a modifier group on an order line.
type OrderLineOption struct {
	ModifierID string `json:"modifier_id"`
	OptionID   string `json:"option_id"`
}

// OrderLine is a requested line item. Prices never come from the client.
type OrderLine struct {
	MenuItemID string            `json:"menu_item_id"`
	Quantity   int               `json:"quantity"`
	Options    []OrderLineOption `json:"options,omitempty"`
}

// OrderService validates order requests against the catalog, freezes prices
// at placement time, and owns all status transitions.
type OrderService struct {
	orderRepo repositories.OrderRepository
	catalog   CatalogReader
	mq        OrderEventPublisher // may be nil
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService. mq may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, catalog CatalogReader, mq OrderEventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		catalog:   catalog,
		mq:        mq,
		logger:    logger,
	}
}

// PlaceOrder validates every requested line against the catalog, computes the
// total server-side, and persists the order with status PLACED in a single
// write. The returned order carries the server-assigned ID and the frozen
// total; later catalog changes never touch it.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, lines []OrderLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, apperrors.NewValidation(apperrors.ReasonEmptyOrder, "", "order must contain at least one item")
	}

	var total float64
	items := make([]models.OrderItem, 0, len(lines))

	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, apperrors.NewValidation(apperrors.ReasonInvalidQuantity, line.MenuItemID,
				fmt.Sprintf("quantity must be at least 1, got %d", line.Quantity))
		}

		item, err := s.catalog.GetItem(ctx, line.MenuItemID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NewValidation(apperrors.ReasonItemNotFound, line.MenuItemID, "menu item does not exist")
			}
			return nil, err
		}
		if !item.Available {
			return nil, apperrors.NewValidation(apperrors.ReasonItemUnavailable, line.MenuItemID,
				fmt.Sprintf("%s is currently unavailable", item.Name))
		}

		unitPrice := item.Price // frozen at placement time
		options, optionsPrice, err := s.resolveOptions(ctx, item, line.Options)
		if err != nil {
			return nil, err
		}

		lineTotal := (unitPrice + optionsPrice) * float64(line.Quantity)
		items = append(items, models.OrderItem{
			MenuItemID: item.ID,
			Name:       item.Name,
			UnitPrice:  unitPrice,
			Quantity:   line.Quantity,
			Options:    options,
			LineTotal:  lineTotal,
		})
		total += lineTotal
	}

	order := &models.Order{
		ID:     uuid.New().String(),
		UserID: userID,
		Items:  items,
		Total:  total,
		Status: models.StatusPlaced,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvent(EventOrderPlaced, order)
	return order, nil
}

// resolveOptions validates the selected modifier options against the item's
// allowed modifiers and returns them with their deltas frozen.
func (s *OrderService) resolveOptions(ctx context.Context, item *models.MenuItem, selections []OrderLineOption) ([]models.OrderOption, float64, error) {
	if len(selections) == 0 {
		return nil, 0, nil
	}

	allowed := make(map[string]bool, len(item.ModifierIDs))
	for _, id := range item.ModifierIDs {
		allowed[id] = true
	}

	var optionsPrice float64
	options := make([]models.OrderOption, 0, len(selections))

	for _, sel := range selections {
		if !allowed[sel.ModifierID] {
			return nil, 0, apperrors.NewValidation(apperrors.ReasonModifierNotAllowed, sel.ModifierID,
				fmt.Sprintf("modifier does not apply to %s", item.Name))
		}

		modifier, err := s.catalog.GetModifier(ctx, sel.ModifierID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, 0, apperrors.NewValidation(apperrors.ReasonModifierNotAllowed, sel.ModifierID, "modifier does not exist")
			}
			return nil, 0, err
		}

		opt, ok := modifier.Option(sel.OptionID)
		if !ok {
			return nil, 0, apperrors.NewValidation(apperrors.ReasonOptionNotFound, sel.OptionID,
				fmt.Sprintf("option not found in modifier %s", modifier.Name))
		}

		options = append(options, models.OrderOption{
			ModifierID: modifier.ID,
			OptionID:   opt.ID,
			Name:       opt.Name,
			PriceDelta: opt.PriceDelta,
		})
		optionsPrice += opt.PriceDelta
	}

	return options, optionsPrice, nil
}

// CancelOrder transitions a PLACED order to CANCELLED. Only the owning user
// may cancel; CONFIRMED orders cannot be cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, requesterID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != requesterID {
		return nil, apperrors.NewForbidden("order belongs to another user")
	}
	if !order.Status.CanTransitionTo(models.StatusCancelled) {
		return nil, apperrors.NewInvalidState(string(order.Status), string(models.StatusCancelled))
	}

	// The repository re-checks the status atomically; a confirm racing in
	// between the read above and this call wins or loses cleanly.
	cancelled, err := s.orderRepo.TransitionStatus(ctx, orderID, models.StatusPlaced, models.StatusCancelled)
	if err != nil {
		return nil, err
	}

	s.publishEvent(EventOrderCancelled, cancelled)
	return cancelled, nil
}

// ConfirmOrder transitions a PLACED order to CONFIRMED. It is driven by the
// external fulfillment side, either over the message bus or the kitchen
// endpoint.
func (s *OrderService) ConfirmOrder(ctx context.Context, orderID string) (*models.Order, error) {
	confirmed, err := s.orderRepo.TransitionStatus(ctx, orderID, models.StatusPlaced, models.StatusConfirmed)
	if err != nil {
		return nil, err
	}

	s.publishEvent(EventOrderConfirmed, confirmed)
	return confirmed, nil
}

// GetOrder retrieves an order for its owner; admins may read any order.
func (s *OrderService) GetOrder(ctx context.Context, orderID string, requester Identity) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != requester.UserID && !requester.IsAdmin() {
		return nil, apperrors.NewForbidden("order belongs to another user")
	}
	return order, nil
}

// ListOrdersByUser retrieves the order history for a user.
func (s *OrderService) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *OrderService) publishEvent(event string, order *models.Order) {
	if s.mq == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.Total,
	})
	if err != nil {
		s.logger.Warn("failed to marshal order event", zap.String("order_id", order.ID), zap.Error(err))
		return
	}

	if err := s.mq.PublishOrderEvent(event, body); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("event", event),
			zap.String("order_id", order.ID),
			zap.Error(err))
		return
	}
	s.logger.Info("published order event", zap.String("event", event), zap.String("order_id", order.ID))
}
