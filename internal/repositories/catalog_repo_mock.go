package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/benchan0527/GoGoFood/internal/apperrors"
	"github.com/benchan0527/GoGoFood/internal/models"
)

// MockCatalogRepository is an in-memory implementation of CatalogRepository.
type MockCatalogRepository struct {
	items     map[string]models.MenuItem
	modifiers map[string]models.Modifier
	mu        sync.RWMutex
}

// NewMockCatalogRepository creates a new instance of MockCatalogRepository.
func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		items:     make(map[string]models.MenuItem),
		modifiers: make(map[string]models.Modifier),
	}
}

// GetItem returns a menu item by its ID.
func (r *MockCatalogRepository) GetItem(_ context.Context, id string) (*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.NewNotFound("menu item", id)
	}
	return &item, nil
}

// ListItems returns menu items matching the filter.
func (r *MockCatalogRepository) ListItems(_ context.Context, filter CatalogFilter) ([]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemList := make([]models.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.OnlyAvailable && !item.Available {
			continue
		}
		itemList = append(itemList, item)
	}
	return itemList, nil
}

// CreateItem adds a new menu item.
func (r *MockCatalogRepository) CreateItem(_ context.Context, item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.items[item.ID] = *item
	return nil
}

// UpdateItem modifies an existing menu item.
func (r *MockCatalogRepository) UpdateItem(_ context.Context, item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[item.ID]
	if !ok {
		return apperrors.NewNotFound("menu item", item.ID)
	}
	r.items[item.ID] = *item
	return nil
}

// GetModifier returns a modifier group by its ID.
func (r *MockCatalogRepository) GetModifier(_ context.Context, id string) (*models.Modifier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modifier, ok := r.modifiers[id]
	if !ok {
		return nil, apperrors.NewNotFound("modifier", id)
	}
	return &modifier, nil
}

// CreateModifier adds a new modifier group.
func (r *MockCatalogRepository) CreateModifier(_ context.Context, modifier *models.Modifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if modifier.ID == "" {
		modifier.ID = uuid.New().String()
	}
	r.modifiers[modifier.ID] = *modifier
	return nil
}
