package repositories

import (
	"context"

	"github.com/benchan0527/GoGoFood/internal/models"
)

// CatalogFilter narrows a menu listing.
type CatalogFilter struct {
	Category      string
	OnlyAvailable bool
}

// CatalogRepository defines the interface for menu data access.
type CatalogRepository interface {
	GetItem(ctx context.Context, id string) (*models.MenuItem, error)
	ListItems(ctx context.Context, filter CatalogFilter) ([]models.MenuItem, error)
	CreateItem(ctx context.Context, item *models.MenuItem) error
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	GetModifier(ctx context.Context, id string) (*models.Modifier, error)
	CreateModifier(ctx context.Context, modifier *models.Modifier) error
}
