package repositories

import (
	"context"

	"github.com/benchan0527/GoGoFood/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// never deleted, so no Delete is exposed.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	// TransitionStatus atomically moves the order from one status to another.
	// The from-status acts as an optimistic-concurrency check: if the stored
	// status differs, the call fails with InvalidState and the order is left
	// untouched. Returns the order as persisted after the transition.
	TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error)
}
