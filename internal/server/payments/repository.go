package payments

import (
	"context"
	"time"

	"github.com/studyvault/noteguard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, order *models.PaymentOrder) error

	GetByMerchantTxID(ctx context.Context, merchantTxID string) (*models.PaymentOrder, error)

	// TransitionStatus applies from -> to with a compare-and-set guard on the
	// current status, so a delayed or duplicate provider callback can never
	// move a terminal order backward. Returns common.ErrInvalidTransition
	// when the row is no longer in the expected state.
	TransitionStatus(ctx context.Context, merchantTxID string, from, to models.OrderStatus, completedAt *time.Time) error
}

type PlanRepository interface {
	GetPlanByID(ctx context.Context, id string) (*models.Plan, error)

	// GetCouponPercent returns the discount percent for a coupon code, or
	// common.ErrNotFound for unknown codes.
	GetCouponPercent(ctx context.Context, code string) (int, error)
}
