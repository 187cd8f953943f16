package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, StatusPlaced.Valid())
	assert.True(t, StatusConfirmed.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, OrderStatus("SHIPPED").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, StatusPlaced.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusPlaced.CanTransitionTo(StatusCancelled))

	// Terminal states allow nothing.
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusPlaced))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusConfirmed))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusPlaced))

	assert.False(t, StatusPlaced.CanTransitionTo(StatusPlaced))
}

func TestModifierOptionLookup(t *testing.T) {
	m := Modifier{
		ID:   "mod-1",
		Name: "Beverages",
		Options: []ModifierOption{
			{ID: "opt-1", Name: "Red Bean Fizzy", PriceDelta: 3.0},
			{ID: "opt-2", Name: "Milk Tea", PriceDelta: 2.5},
		},
	}

	opt, ok := m.Option("opt-2")
	assert.True(t, ok)
	assert.Equal(t, "Milk Tea", opt.Name)

	_, ok = m.Option("opt-9")
	assert.False(t, ok)
}
