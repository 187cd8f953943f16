package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/benchan0527/GoGoFood/internal/apperrors"
	"github.com/benchan0527/GoGoFood/internal/models"
	"github.com/benchan0527/GoGoFood/internal/repositories"
	"github.com/benchan0527/GoGoFood/internal/services"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

// MockCatalogReader is a mock implementation of services.CatalogReader
type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuItem), args.Error(1)
}

func (m *MockCatalogReader) GetModifier(ctx context.Context, id string) (*models.Modifier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Modifier), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.OrderEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderEvent(event string, body []byte) error {
	args := m.Called(event, body)
	return args.Error(0)
}

func newOrderService(orderRepo repositories.OrderRepository, catalog services.CatalogReader, mq services.OrderEventPublisher) *services.OrderService {
	return services.NewOrderService(orderRepo, catalog, mq, zap.NewNop())
}

func TestOrderService_PlaceOrder(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCatalog := new(MockCatalogReader)
	mockMQ := new(MockEventPublisher)
	service := newOrderService(mockOrders, mockCatalog, mockMQ)

	item := &models.MenuItem{ID: "item-1", Name: "Pineapple Bun with Butter", Price: 9.50, Available: true}
	mockCatalog.On("GetItem", mock.Anything, "item-1").Return(item, nil).Once()
	mockOrders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil).Once()
	mockMQ.On("PublishOrderEvent", services.EventOrderPlaced, mock.Anything).Return(nil).Once()

	order, err := service.PlaceOrder(context.Background(), "user-1", []services.OrderLine{
		{MenuItemID: "item-1", Quantity: 2},
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, models.StatusPlaced, order.Status)
	assert.Equal(t, 19.00, order.Total)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 9.50, order.Items[0].UnitPrice)
	assert.Equal(t, 2, order.Items[0].Quantity)
	mockOrders.AssertExpectations(t)
	mockCatalog.AssertExpectations(t)
	mockMQ.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_TotalFrozenAgainstPriceChange(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCatalog := new(MockCatalogReader)
	service := newOrderService(mockOrders, mockCatalog, nil)

	item := &models.MenuItem{ID: "item-1", Name: "Egg Tart", Price: 6.00, Available: true}
	mockCatalog.On("GetItem", mock.Anything, "item-1").Return(item, nil).Once()
	mockOrders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil).Once()

	order, err := service.PlaceOrder(context.Background(), "user-1", []services.OrderLine{
		{MenuItemID: "item-1", Quantity: 3},
	})
	assert.NoError(t, err)
	assert.Equal(t, 18.00, order.Total)

	// An administrative price change after placement must not reach the
	// persisted order.
	item.Price = 99.00
	assert.Equal(t, 18.00, order.Total)
	assert.Equal(t, 6.00, order.Items[0].UnitPrice)
}

func TestOrderService_PlaceOrder_UnavailableItem(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCatalog := new(MockCatalogReader)
	service := newOrderService(mockOrders, mockCatalog, nil)

	item := &models.MenuItem{ID: "item-2", Name: "Red Bean Fizzy", Price: 12.00, Available: false}
	mockCatalog.On("GetItem", mock.Anything, "item-2").Return(item, nil).Once()

	order, err := service.PlaceOrder(context.Background(), "user-1", []services.OrderLine{
		{MenuItemID: "item-2", Quantity: 1},
	})

	assert.Nil(t, order)
	ve, ok := apperrors.IsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.ReasonItemUnavailable, ve.Reason)
	assert.Equal(t, "item-2", ve.Subject)
	mockOrders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_UnknownItem(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCatalog := new(MockCatalogReader)
	service := newOrderService(mockOrders, mockCatalog, nil)

	mockCatalog.On("GetItem", mock.Anything, "ghost").Return(nil, apperrors.NewNotFound("menu item", "ghost")).Once()

	_, err := service.PlaceOrder(context.Background(), "user-1", []services.OrderLine{
		{MenuItemID: "ghost", Quantity: 1},
	})

	ve, ok := apperrors.IsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.ReasonItemNotFound, ve.Reason)
	mockOrders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_InvalidQuantity(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCatalog := new(MockCatalogReader)
	service := newOrderService(mockOrders, mockCatalog, nil)

	_, err := service.PlaceOrder(context.Background(), "user-1", []services.OrderLine{
		{MenuItemID: "item-1", Quantity: 0},
	})

	ve, ok := apperrors.IsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.ReasonInvalidQuantity, ve.Reason)
	mockCatalog.AssertNotCalled(t, "GetItem", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_EmptyOrder(t *testing.T) {
	service := newOrderService(new(MockOrderRepository), new(MockCatalogReader), nil)

	_, err := service.PlaceOrder(context.Background(), "user-1", nil)

	ve, ok := apperrors.IsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.ReasonEmptyOrder, ve.Reason)
}

func TestOrderService_PlaceOrder_WithModifierOptions(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCatalog := new(MockCatalogReader)
	service := newOrderService(mockOrders, mockCatalog, nil)

	item := &models.MenuItem{
		ID: "item-1", Name: "Pineapple Bun with Butter", Price: 9.50,
		Available: true, ModifierIDs: []string{"mod-beverages"},
	}
	modifier := &models.Modifier{
		ID: "mod-beverages", Name: "Beverages",
		Options: []models.ModifierOption{
			{ID: "opt-fizzy", Name: "Red Bean Fizzy", PriceDelta: 3.00},
		},
	}
	mockCatalog.On("GetItem", mock.Anything, "item-1").Return(item, nil).Once()
	mockCatalog.On("GetModifier", mock.Anything, "mod-beverages").Return(modifier, nil).Once()
	mockOrders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil).Once()

	order, err := service.PlaceOrder(context.Background(), "user-1", []services.OrderLine{
		{
			MenuItemID: "item-1",
			Quantity:   2,
			Options:    []services.OrderLineOption{{ModifierID: "mod-beverages", OptionID: "opt-fizzy"}},
		},
	})

	assert.NoError(t, err)
	// (9.50 + 3.00) * 2
	assert.Equal(t, 25.00, order.Total)
	assert.Len(t, order.Items[0].Options, 1)
	assert.Equal(t, 3.00, order.Items[0].Options[0].PriceDelta)
}

func TestOrderService_PlaceOrder_ModifierNotAllowed(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCatalog := new(MockCatalogReader)
	service := newOrderService(mockOrders, mockCatalog, nil)

	item := &models.MenuItem{ID: "item-3", Name: "Egg Tart", Price: 6.00, Available: true}
	mockCatalog.On("GetItem", mock.Anything, "item-3").Return(item, nil).Once()

	_, err := service.PlaceOrder(context.Background(), "user-1", []services.OrderLine{
		{
			MenuItemID: "item-3",
			Quantity:   1,
			Options:    []services.OrderLineOption{{ModifierID: "mod-beverages", OptionID: "opt-fizzy"}},
		},
	})

	ve, ok := apperrors.IsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.ReasonModifierNotAllowed, ve.Reason)
	mockOrders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_OptionNotFound(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCatalog := new(MockCatalogReader)
	service := newOrderService(mockOrders, mockCatalog, nil)

	item := &models.MenuItem{
		ID: "item-1", Name: "Pineapple Bun with Butter", Price: 9.50,
		Available: true, ModifierIDs: []string{"mod-beverages"},
	}
	modifier := &models.Modifier{ID: "mod-beverages", Name: "Beverages"}
	mockCatalog.On("GetItem", mock.Anything, "item-1").Return(item, nil).Once()
	mockCatalog.On("GetModifier", mock.Anything, "mod-beverages").Return(modifier, nil).Once()

	_, err := service.PlaceOrder(context.Background(), "user-1", []services.OrderLine{
		{
			MenuItemID: "item-1",
			Quantity:   1,
			Options:    []services.OrderLineOption{{ModifierID: "mod-beverages", OptionID: "opt-missing"}},
		},
	})

	ve, ok := apperrors.IsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.ReasonOptionNotFound, ve.Reason)
}

func TestOrderService_CancelOrder(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockMQ := new(MockEventPublisher)
	service := newOrderService(mockOrders, new(MockCatalogReader), mockMQ)

	placed := &models.Order{ID: "order-1", UserID: "user-1", Status: models.StatusPlaced}
	cancelled := &models.Order{ID: "order-1", UserID: "user-1", Status: models.StatusCancelled}

	mockOrders.On("GetByID", mock.Anything, "order-1").Return(placed, nil).Once()
	mockOrders.On("TransitionStatus", mock.Anything, "order-1", models.StatusPlaced, models.StatusCancelled).
		Return(cancelled, nil).Once()
	mockMQ.On("PublishOrderEvent", services.EventOrderCancelled, mock.Anything).Return(nil).Once()

	order, err := service.CancelOrder(context.Background(), "order-1", "user-1")

	assert.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, order.Status)
	mockOrders.AssertExpectations(t)
	mockMQ.AssertExpectations(t)
}

func TestOrderService_CancelOrder_NotOwner(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	service := newOrderService(mockOrders, new(MockCatalogReader), nil)

	placed := &models.Order{ID: "order-1", UserID: "user-1", Status: models.StatusPlaced}
	mockOrders.On("GetByID", mock.Anything, "order-1").Return(placed, nil).Once()

	order, err := service.CancelOrder(context.Background(), "order-1", "intruder")

	assert.Nil(t, order)
	assert.True(t, apperrors.IsForbidden(err))
	mockOrders.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_CancelOrder_Confirmed(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	service := newOrderService(mockOrders, new(MockCatalogReader), nil)

	confirmed := &models.Order{ID: "order-1", UserID: "user-1", Status: models.StatusConfirmed}
	mockOrders.On("GetByID", mock.Anything, "order-1").Return(confirmed, nil).Once()

	_, err := service.CancelOrder(context.Background(), "order-1", "user-1")

	assert.True(t, apperrors.IsInvalidState(err))
	mockOrders.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_CancelOrder_Unknown(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	service := newOrderService(mockOrders, new(MockCatalogReader), nil)

	mockOrders.On("GetByID", mock.Anything, "ghost").Return(nil, apperrors.NewNotFound("order", "ghost")).Once()

	_, err := service.CancelOrder(context.Background(), "ghost", "user-1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestOrderService_ConfirmOrder(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockMQ := new(MockEventPublisher)
	service := newOrderService(mockOrders, new(MockCatalogReader), mockMQ)

	confirmed := &models.Order{ID: "order-1", UserID: "user-1", Status: models.StatusConfirmed}
	mockOrders.On("TransitionStatus", mock.Anything, "order-1", models.StatusPlaced, models.StatusConfirmed).
		Return(confirmed, nil).Once()
	mockMQ.On("PublishOrderEvent", services.EventOrderConfirmed, mock.Anything).Return(nil).Once()

	order, err := service.ConfirmOrder(context.Background(), "order-1")

	assert.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, order.Status)
	mockOrders.AssertExpectations(t)
}

func TestOrderService_ConfirmOrder_AlreadyCancelled(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	service := newOrderService(mockOrders, new(MockCatalogReader), nil)

	mockOrders.On("TransitionStatus", mock.Anything, "order-1", models.StatusPlaced, models.StatusConfirmed).
		Return(nil, apperrors.NewInvalidState("CANCELLED", "CONFIRMED")).Once()

	_, err := service.ConfirmOrder(context.Background(), "order-1")
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestOrderService_GetOrder_Authorization(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	service := newOrderService(mockOrders, new(MockCatalogReader), nil)

	order := &models.Order{ID: "order-1", UserID: "user-1", Status: models.StatusPlaced}
	mockOrders.On("GetByID", mock.Anything, "order-1").Return(order, nil)

	// Owner can read.
	got, err := service.GetOrder(context.Background(), "order-1", services.Identity{UserID: "user-1", Role: models.RoleCustomer})
	assert.NoError(t, err)
	assert.Equal(t, "order-1", got.ID)

	// Admin can read anyone's order.
	_, err = service.GetOrder(context.Background(), "order-1", services.Identity{UserID: "staff-1", Role: models.RoleAdmin})
	assert.NoError(t, err)

	// Another customer cannot.
	_, err = service.GetOrder(context.Background(), "order-1", services.Identity{UserID: "user-2", Role: models.RoleCustomer})
	assert.True(t, apperrors.IsForbidden(err))
}

// Concurrent cancel/confirm on the same order must resolve to exactly one
// terminal status. Runs against the real in-memory repository so the race
// passes through the same compare-and-swap path production uses.
func TestOrderService_ConcurrentCancelConfirm(t *testing.T) {
	for i := 0; i < 20; i++ {
		repo := repositories.NewMockOrderRepository()
		mockCatalog := new(MockCatalogReader)
		service := newOrderService(repo, mockCatalog, nil)

		order := &models.Order{
			ID:     "order-race",
			UserID: "user-1",
			Status: models.StatusPlaced,
			Items:  []models.OrderItem{{MenuItemID: "item-1", Quantity: 1, UnitPrice: 9.50, LineTotal: 9.50}},
			Total:  9.50,
		}
		assert.NoError(t, repo.Create(context.Background(), order))

		var wg sync.WaitGroup
		var cancelErr, confirmErr error

		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancelErr = service.CancelOrder(context.Background(), "order-race", "user-1")
		}()
		go func() {
			defer wg.Done()
			_, confirmErr = service.ConfirmOrder(context.Background(), "order-race")
		}()
		wg.Wait()

		final, err := repo.GetByID(context.Background(), "order-race")
		assert.NoError(t, err)

		if cancelErr == nil && confirmErr == nil {
			t.Fatal("both cancel and confirm succeeded on the same order")
		}
		switch {
		case cancelErr == nil:
			assert.Equal(t, models.StatusCancelled, final.Status)
			assert.True(t, apperrors.IsInvalidState(confirmErr))
		case confirmErr == nil:
			assert.Equal(t, models.StatusConfirmed, final.Status)
			assert.True(t, apperrors.IsInvalidState(cancelErr))
		default:
			t.Fatalf("both transitions failed: cancel=%v confirm=%v", cancelErr, confirmErr)
		}
	}
}
