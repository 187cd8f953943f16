package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benchan0527/GoGoFood/internal/apperrors"
	"github.com/benchan0527/GoGoFood/internal/models"
)

// GORMCatalogRepository is a GORM implementation of CatalogRepository.
type GORMCatalogRepository struct {
	db *gorm.DB
}

// NewGORMCatalogRepository creates a new instance of GORMCatalogRepository.
func NewGORMCatalogRepository(db *gorm.DB) *GORMCatalogRepository {
	return &GORMCatalogRepository{
		db: db,
	}
}

// GetItem retrieves a single menu item by its ID from the database.
func (r *GORMCatalogRepository) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("menu item", id)
		}
		return nil, apperrors.NewUnavailable("failed to get menu item", err)
	}
	return &item, nil
}

// ListItems retrieves menu items matching the filter from the database.
func (r *GORMCatalogRepository) ListItems(ctx context.Context, filter CatalogFilter) ([]models.MenuItem, error) {
	query := r.db.WithContext(ctx)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OnlyAvailable {
		query = query.Where("available = ?", true)
	}

	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		return nil, apperrors.NewUnavailable("failed to list menu items", err)
	}
	return items, nil
}

// CreateItem creates a new menu item in the database.
func (r *GORMCatalogRepository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return apperrors.NewUnavailable("failed to create menu item", err)
	}
	return nil
}

// UpdateItem updates an existing menu item in the database. The ID is the
// lookup key and never changes.
func (r *GORMCatalogRepository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	res := r.db.WithContext(ctx).Save(item)
	if res.Error != nil {
		return apperrors.NewUnavailable("failed to update menu item", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("menu item", item.ID)
	}
	return nil
}

// GetModifier retrieves a modifier group by its ID from the database.
func (r *GORMCatalogRepository) GetModifier(ctx context.Context, id string) (*models.Modifier, error) {
	var modifier models.Modifier
	if err := r.db.WithContext(ctx).First(&modifier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("modifier", id)
		}
		return nil, apperrors.NewUnavailable("failed to get modifier", err)
	}
	return &modifier, nil
}

// CreateModifier creates a new modifier group in the database.
func (r *GORMCatalogRepository) CreateModifier(ctx context.Context, modifier *models.Modifier) error {
	if modifier.ID == "" {
		modifier.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(modifier).Error; err != nil {
		return apperrors.NewUnavailable("failed to create modifier", err)
	}
	return nil
}
