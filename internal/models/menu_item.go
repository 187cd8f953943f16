package models

import "gorm.io/gorm"

// Menu categories as the mobile client groups them.
const (
	CategoryAppetizer = "appetizer"
	CategoryMain      = "main"
	CategoryDessert   = "dessert"
	CategoryBeverage  = "beverage"
)

// MenuItem represents a purchasable catalog entry. The ID is immutable once
// created; the image is stored as a URL reference only.
type MenuItem struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Price       float64  `json:"price" validate:"gte=0"`
	Category    string   `json:"category" validate:"required,oneof=appetizer main dessert beverage"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	Available   bool     `json:"available"`
	ModifierIDs []string `json:"modifier_ids" gorm:"serializer:json"`
	gorm.Model           // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
