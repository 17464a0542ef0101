package orders

import (
	"fmt"

	"fleetdesk-api-server/internal/models"
)

// transitions is the full lifecycle table. Delivered and cancelled are
// terminal: their allowed-next sets are empty.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:   {models.OrderAssigned, models.OrderCancelled},
	models.OrderAssigned:  {models.OrderPickedUp, models.OrderCancelled},
	models.OrderPickedUp:  {models.OrderInTransit, models.OrderCancelled},
	models.OrderInTransit: {models.OrderDelivered, models.OrderCancelled},
	models.OrderDelivered: {},
	models.OrderCancelled: {},
}

// UnknownStatusError reports a target status outside the six known values.
type UnknownStatusError struct {
	Status models.OrderStatus
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown status %q", e.Status)
}

// InvalidTransitionError reports a target that is known but not reachable
// from the current status.
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// KnownStatus reports whether s is one of the six lifecycle statuses.
func KnownStatus(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

// CheckTransition validates a requested status change. A self-transition
// is allowed (the caller treats it as a no-op). The unknown-status check
// runs before any table lookup.
func CheckTransition(current, target models.OrderStatus) error {
	if !KnownStatus(target) {
		return &UnknownStatusError{Status: target}
	}
	if current == target {
		return nil
	}
	for _, next := range transitions[current] {
		if next == target {
			return nil
		}
	}
	return &InvalidTransitionError{From: current, To: target}
}
