package orders

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"fleetdesk-api-server/internal/models"
)

func TestCheckTransitionAllowed(t *testing.T) {
	tests := []struct {
		name    string
		current models.OrderStatus
		target  models.OrderStatus
	}{
		{"pending to assigned", models.OrderPending, models.OrderAssigned},
		{"pending to cancelled", models.OrderPending, models.OrderCancelled},
		{"assigned to picked_up", models.OrderAssigned, models.OrderPickedUp},
		{"assigned to cancelled", models.OrderAssigned, models.OrderCancelled},
		{"picked_up to in_transit", models.OrderPickedUp, models.OrderInTransit},
		{"picked_up to cancelled", models.OrderPickedUp, models.OrderCancelled},
		{"in_transit to delivered", models.OrderInTransit, models.OrderDelivered},
		{"in_transit to cancelled", models.OrderInTransit, models.OrderCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, CheckTransition(tt.current, tt.target))
		})
	}
}

func TestCheckTransitionRejected(t *testing.T) {
	tests := []struct {
		name    string
		current models.OrderStatus
		target  models.OrderStatus
	}{
		{"pending skips to delivered", models.OrderPending, models.OrderDelivered},
		{"pending skips to picked_up", models.OrderPending, models.OrderPickedUp},
		{"assigned back to pending", models.OrderAssigned, models.OrderPending},
		{"delivered is terminal", models.OrderDelivered, models.OrderPending},
		{"cancelled is terminal", models.OrderCancelled, models.OrderAssigned},
		{"cancelled cannot deliver", models.OrderCancelled, models.OrderDelivered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTransition(tt.current, tt.target)
			var invalid *InvalidTransitionError
			assert.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.current, invalid.From)
			assert.Equal(t, tt.target, invalid.To)
		})
	}
}

func TestCheckTransitionSameStatusIsNoop(t *testing.T) {
	for status := range transitions {
		assert.NoError(t, CheckTransition(status, status), "status %s", status)
	}
}

func TestCheckTransitionUnknownTarget(t *testing.T) {
	err := CheckTransition(models.OrderPending, "shipped")
	var unknown *UnknownStatusError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, models.OrderStatus("shipped"), unknown.Status)
}

func TestCheckTransitionUnknownBeatsTerminal(t *testing.T) {
	// The unknown-status check runs before the transition table, even
	// when the current status is terminal.
	err := CheckTransition(models.OrderDelivered, "bogus")
	var unknown *UnknownStatusError
	assert.True(t, errors.As(err, &unknown))
}

func TestInvalidTransitionErrorMessage(t *testing.T) {
	err := CheckTransition(models.OrderPending, models.OrderDelivered)
	assert.EqualError(t, err, "invalid status transition from pending to delivered")
}

func TestKnownStatus(t *testing.T) {
	assert.True(t, KnownStatus(models.OrderPending))
	assert.True(t, KnownStatus(models.OrderCancelled))
	assert.False(t, KnownStatus("unknown"))
	assert.False(t, KnownStatus(""))
}
