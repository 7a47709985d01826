package models

import "time"

// OrderStatus is a payment order state. Transitions are one-directional and
// validated by the payments state machine; see payments.CanTransition.
type OrderStatus string

const (
	OrderCreated   OrderStatus = "CREATED"
	OrderPending   OrderStatus = "PENDING"
	OrderSuccess   OrderStatus = "SUCCESS"
	OrderFailed    OrderStatus = "FAILED"
	OrderExpired   OrderStatus = "EXPIRED"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderRefunded  OrderStatus = "REFUNDED"
)

type PaymentOrder struct {
	ID string
	// MerchantTxID is the externally visible correlation id the client
	// persists before redirecting to the provider.
	MerchantTxID     string
	UserID           string
	PlanID           string
	Status           OrderStatus
	AmountPaise      int64
	FinalAmountPaise int64
	CreatedAt        time.Time
	CompletedAt      *time.Time
}
