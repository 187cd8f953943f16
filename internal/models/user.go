package models

import "gorm.io/gorm"

// User roles mirrored from the identity provider's claims.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is a local mirror of a profile owned by the external identity
// provider. The ID is the provider's opaque subject; no credential material is
// ever stored here.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(128)" validate:"required"`
	Name       string `json:"name" validate:"omitempty,max=100"`
	Email      string `json:"email" gorm:"index;type:varchar(255)" validate:"omitempty,email"`
	Role       string `json:"role" gorm:"type:varchar(16)" validate:"omitempty,oneof=customer admin"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
