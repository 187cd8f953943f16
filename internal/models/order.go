package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPlaced    OrderStatus = "PLACED"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// allowedTransitions is the explicit transition table for the order state
// machine. CONFIRMED and CANCELLED are terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {},
	StatusCancelled: {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether the state machine allows moving from s to
// next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderOption is a modifier option frozen onto an order line at placement
// time.
type OrderOption struct {
	ModifierID string  `json:"modifier_id"`
	OptionID   string  `json:"option_id"`
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta"` // Delta at the time of order
}

// OrderItem represents a single line within an order. Name and prices are
// copied from the catalog at placement time so later catalog changes never
// alter a persisted order.
type OrderItem struct {
	MenuItemID string        `json:"menu_item_id"`
	Name       string        `json:"name"`
	UnitPrice  float64       `json:"unit_price"` // Price at the time of order
	Quantity   int           `json:"quantity"`
	Options    []OrderOption `json:"options,omitempty"`
	LineTotal  float64       `json:"line_total"`
}

// Order represents a customer order. Orders are never deleted, only
// status-transitioned. Line items are stored as a single JSON document column
// so the order persists as one atomic record.
type Order struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string      `json:"user_id" gorm:"index;type:varchar(128)"`
	Items     []OrderItem `json:"items" gorm:"serializer:json"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status" gorm:"index;type:varchar(16)"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
