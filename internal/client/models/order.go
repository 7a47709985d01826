package models

import "time"

// Order is the viewer-side projection of a payment order as returned by the
// status endpoint.
type Order struct {
	OrderID          string     `json:"orderId"`
	MerchantTxID     string     `json:"merchantTransactionId"`
	PlanID           string     `json:"planId"`
	Status           string     `json:"status"`
	AmountPaise      int64      `json:"amountPaise"`
	FinalAmountPaise int64      `json:"finalAmountPaise"`
	CreatedAt        time.Time  `json:"createdAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

// Terminal reports whether polling can stop: no further transition except
// the refund edge can happen.
func (o *Order) Terminal() bool {
	switch o.Status {
	case "SUCCESS", "FAILED", "EXPIRED", "CANCELLED", "REFUNDED":
		return true
	}
	return false
}

// CheckoutIntent is the createOrder response: the redirect URL plus the
// correlation id to persist before following it.
type CheckoutIntent struct {
	OrderID          string `json:"orderId"`
	MerchantTxID     string `json:"merchantTransactionId"`
	RedirectURL      string `json:"redirectUrl"`
	AmountPaise      int64  `json:"amountPaise"`
	FinalAmountPaise int64  `json:"finalAmountPaise"`
}

// PendingTransaction is the single client-side resume record written before
// a checkout redirect and cleared on terminal resolution.
type PendingTransaction struct {
	MerchantTxID string `json:"merchantTransactionId"`
	NextPath     string `json:"nextPath"`
}
