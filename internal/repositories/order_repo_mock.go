package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benchan0527/GoGoFood/internal/apperrors"
	"github.com/benchan0527/GoGoFood/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. The
// mutex gives it the same transition atomicity the GORM implementation gets
// from its conditional UPDATE.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NewNotFound("order", id)
	}
	return &order, nil
}

// ListByUser returns all orders owned by the given user.
func (r *MockOrderRepository) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			orderList = append(orderList, order)
		}
	}
	return orderList, nil
}

// Create adds a new order.
func (r *MockOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.ID] = *order
	return nil
}

// TransitionStatus atomically moves an order between statuses under the lock.
func (r *MockOrderRepository) TransitionStatus(_ context.Context, id string, from, to models.OrderStatus) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NewNotFound("order", id)
	}
	if order.Status != from {
		return nil, apperrors.NewInvalidState(string(order.Status), string(to))
	}

	order.Status = to
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return &order, nil
}
