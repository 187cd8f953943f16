package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benchan0527/GoGoFood/internal/apperrors"
	"github.com/benchan0527/GoGoFood/internal/cache"
	"github.com/benchan0527/GoGoFood/internal/models"
	"github.com/benchan0527/GoGoFood/internal/repositories"
)

// CatalogService is the read path for menu data plus the admin write path.
// Single-item reads go through an optional read-through cache; a cache failure
// only costs the round trip, never the request.
type CatalogService struct {
	repo     repositories.CatalogRepository
	cache    cache.Cache // nil disables caching
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCatalogService creates a new CatalogService. cache may be nil.
func NewCatalogService(repo repositories.CatalogRepository, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// GetItem retrieves a single menu item, consulting the cache first.
func (s *CatalogService) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	if s.cache != nil {
		key := s.cache.GenerateKey("menu_item", id)
		if cached, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		} else if cached != "" {
			var item models.MenuItem
			if err := json.Unmarshal([]byte(cached), &item); err == nil {
				return &item, nil
			}
			s.logger.Warn("discarding malformed cache entry", zap.String("key", key))
		}
	}

	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheItem(ctx, item)
	return item, nil
}

// ListItems retrieves menu items matching the filter. Listings are served
// straight from the repository.
func (s *CatalogService) ListItems(ctx context.Context, filter repositories.CatalogFilter) ([]models.MenuItem, error) {
	return s.repo.ListItems(ctx, filter)
}

// GetModifier retrieves a modifier group, consulting the cache first.
func (s *CatalogService) GetModifier(ctx context.Context, id string) (*models.Modifier, error) {
	if s.cache != nil {
		key := s.cache.GenerateKey("modifier", id)
		if cached, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		} else if cached != "" {
			var modifier models.Modifier
			if err := json.Unmarshal([]byte(cached), &modifier); err == nil {
				return &modifier, nil
			}
			s.logger.Warn("discarding malformed cache entry", zap.String("key", key))
		}
	}

	modifier, err := s.repo.GetModifier(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if body, err := json.Marshal(modifier); err == nil {
			key := s.cache.GenerateKey("modifier", modifier.ID)
			if err := s.cache.Set(ctx, key, string(body), s.cacheTTL); err != nil {
				s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return modifier, nil
}

// CreateItem creates a new menu item. New items default to available.
func (s *CatalogService) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if item.Price < 0 {
		return apperrors.NewValidation(apperrors.ReasonInvalidPrice, item.ID, "price must not be negative")
	}
	return s.repo.CreateItem(ctx, item)
}

// UpdateItem updates an existing menu item and drops its cache entry so the
// next read reflects the change.
func (s *CatalogService) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	if item.Price < 0 {
		return apperrors.NewValidation(apperrors.ReasonInvalidPrice, item.ID, "price must not be negative")
	}
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return err
	}
	s.evictItem(ctx, item.ID)
	return nil
}

// SetItemAvailability flips the availability flag on a menu item.
func (s *CatalogService) SetItemAvailability(ctx context.Context, id string, available bool) (*models.MenuItem, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Available = available
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	s.evictItem(ctx, id)
	return item, nil
}

// CreateModifier creates a new modifier group, assigning option IDs where the
// caller left them blank.
func (s *CatalogService) CreateModifier(ctx context.Context, modifier *models.Modifier) error {
	for i := range modifier.Options {
		if modifier.Options[i].PriceDelta < 0 {
			return apperrors.NewValidation(apperrors.ReasonInvalidPrice, modifier.Options[i].ID, "option price delta must not be negative")
		}
		if modifier.Options[i].ID == "" {
			modifier.Options[i].ID = uuid.New().String()
		}
	}
	return s.repo.CreateModifier(ctx, modifier)
}

func (s *CatalogService) cacheItem(ctx context.Context, item *models.MenuItem) {
	if s.cache == nil {
		return
	}
	body, err := json.Marshal(item)
	if err != nil {
		return
	}
	key := s.cache.GenerateKey("menu_item", item.ID)
	if err := s.cache.Set(ctx, key, string(body), s.cacheTTL); err != nil {
		s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CatalogService) evictItem(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	key := s.cache.GenerateKey("menu_item", id)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("catalog cache evict failed", zap.String("key", key), zap.Error(err))
	}
}
