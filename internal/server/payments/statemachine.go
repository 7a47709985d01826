// Package payments tracks a checkout order from creation to a terminal
// state and reconciles provider callbacks against the local order row.
package payments

import "github.com/studyvault/noteguard/internal/server/models"

// transitions lists every legal edge. SUCCESS -> REFUNDED is the only edge
// out of a terminal state; FAILED, EXPIRED, CANCELLED and REFUNDED have no
// outgoing edges at all.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderCreated: {models.OrderPending, models.OrderExpired, models.OrderCancelled},
	models.OrderPending: {models.OrderSuccess, models.OrderFailed, models.OrderExpired, models.OrderCancelled},
	models.OrderSuccess: {models.OrderRefunded},
}

// CanTransition reports whether from -> to is a legal state-machine edge.
func CanTransition(from, to models.OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no non-refund transition can leave the status.
func Terminal(s models.OrderStatus) bool {
	switch s {
	case models.OrderSuccess, models.OrderFailed, models.OrderExpired,
		models.OrderCancelled, models.OrderRefunded:
		return true
	}
	return false
}
