package repositories

import (
	"context"

	"github.com/benchan0527/GoGoFood/internal/models"
)

// UserRepository defines the interface for the local mirror of externally
// owned user profiles.
type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
}
