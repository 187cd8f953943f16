package models

import "gorm.io/gorm"

// ModifierOption is one selectable choice within a modifier group, e.g.
// "Red Bean Fizzy" under "Beverages". PriceDelta is added to the item's unit
// price when selected.
type ModifierOption struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta"`
}

// Modifier is a group of options that can be attached to menu items, e.g.
// a base item "Pineapple Bun with Butter" offering a "Beverages" group.
type Modifier struct {
	ID         string           `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string           `json:"name" validate:"required,min=2,max=100"`
	Required   bool             `json:"required"`
	Options    []ModifierOption `json:"options" gorm:"serializer:json" validate:"required,min=1"`
	gorm.Model                  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Option returns the option with the given ID, if present.
func (m *Modifier) Option(optionID string) (ModifierOption, bool) {
	for _, opt := range m.Options {
		if opt.ID == optionID {
			return opt, true
		}
	}
	return ModifierOption{}, false
}
