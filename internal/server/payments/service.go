package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studyvault/noteguard/internal/common"
	"github.com/studyvault/noteguard/internal/dbx"
	"github.com/studyvault/noteguard/internal/logging"
	"github.com/studyvault/noteguard/internal/server/entitlements"
	"github.com/studyvault/noteguard/internal/server/models"
)

// CheckoutIntent is what the client needs to continue a checkout: the
// provider redirect URL plus the correlation id it must persist before
// following the redirect.
type CheckoutIntent struct {
	OrderID          string
	MerchantTxID     string
	RedirectURL      string
	AmountPaise      int64
	FinalAmountPaise int64
}

// providerStatusMap translates provider callback statuses onto the order
// state machine.
var providerStatusMap = map[string]models.OrderStatus{
	"ACKNOWLEDGED": models.OrderPending,
	"COMPLETED":    models.OrderSuccess,
	"FAILED":       models.OrderFailed,
	"EXPIRED":      models.OrderExpired,
	"CANCELLED":    models.OrderCancelled,
	"REFUNDED":     models.OrderRefunded,
}

// VerdictInvalidator drops cached access verdicts for a user after an
// entitlement change. Optional; nil means no cache is in play.
type VerdictInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type Service struct {
	db          *sql.DB
	provider    ProviderClient
	logger      logging.Logger
	invalidator VerdictInvalidator
}

func NewService(db *sql.DB, provider ProviderClient, logger logging.Logger) *Service {
	return &Service{db: db, provider: provider, logger: logger}
}

// SetInvalidator attaches the verdict cache invalidation hook.
func (s *Service) SetInvalidator(inv VerdictInvalidator) {
	s.invalidator = inv
}

// CreateOrder creates a local CREATED order row, hands the checkout to the
// provider and returns the redirect URL. The order stays CREATED until the
// provider acknowledges it via webhook.
func (s *Service) CreateOrder(ctx context.Context, userID, planID, couponCode string) (*CheckoutIntent, error) {

	repo := NewPostgresRepository(s.db)

	plan, err := repo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("plan lookup: %w", err)
	}

	amount := plan.PricePaise
	final := amount

	if couponCode != "" {
		percent, err := repo.GetCouponPercent(ctx, couponCode)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("coupon lookup: %w", err)
		}
		if err == nil {
			final = amount - amount*int64(percent)/100
		}
	}

	order := &models.PaymentOrder{
		ID:               uuid.NewString(),
		MerchantTxID:     "mtx-" + uuid.NewString(),
		UserID:           userID,
		PlanID:           planID,
		Status:           models.OrderCreated,
		AmountPaise:      amount,
		FinalAmountPaise: final,
	}

	if err := repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("order create: %w", err)
	}

	redirectURL, err := s.provider.InitiatePayment(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("provider initiate: %w", err)
	}

	return &CheckoutIntent{
		OrderID:          order.ID,
		MerchantTxID:     order.MerchantTxID,
		RedirectURL:      redirectURL,
		AmountPaise:      amount,
		FinalAmountPaise: final,
	}, nil
}

// GetOrderStatus is the polled observation contract: an idempotent,
// side-effect-free read by merchant transaction id.
func (s *Service) GetOrderStatus(ctx context.Context, merchantTxID string) (*models.PaymentOrder, error) {
	return NewPostgresRepository(s.db).GetByMerchantTxID(ctx, merchantTxID)
}

// ApplyProviderEvent moves the order along the state machine in a single
// transaction. SUCCESS grants the plan's entitlement, REFUNDED revokes it.
// A callback that does not match a legal edge (duplicate, out of order, or
// trying to leave a terminal state) is rejected with ErrInvalidTransition.
func (s *Service) ApplyProviderEvent(ctx context.Context, ev ProviderEvent) error {

	target, ok := providerStatusMap[ev.Status]
	if !ok {
		return fmt.Errorf("unknown provider status %q", ev.Status)
	}

	var affectedUserID string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		repo := NewPostgresRepository(tx)

		order, err := repo.GetByMerchantTxID(ctx, ev.MerchantTxID)
		if err != nil {
			return err
		}
		affectedUserID = order.UserID

		var completedAt *time.Time
		if target == models.OrderSuccess {
			now := time.Now()
			completedAt = &now
		}

		if err := repo.TransitionStatus(ctx, ev.MerchantTxID, order.Status, target, completedAt); err != nil {
			return err
		}

		ents := entitlements.NewPostgresRepository(tx)

		switch target {
		case models.OrderSuccess:
			plan, err := repo.GetPlanByID(ctx, order.PlanID)
			if err != nil {
				return err
			}
			e := &models.Entitlement{
				ID:            uuid.NewString(),
				UserID:        order.UserID,
				Subject:       plan.Subject,
				SourceOrderID: order.ID,
				Status:        models.EntitlementActive,
				ExpiresAt:     time.Now().AddDate(0, 0, plan.DurationDays),
			}
			if err := ents.Grant(ctx, e); err != nil {
				return err
			}
		case models.OrderRefunded:
			if err := ents.RevokeByOrder(ctx, order.ID); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return err
	}

	// Entitlements may have flipped; stale cached verdicts must not outlive
	// the event.
	if s.invalidator != nil && (target == models.OrderSuccess || target == models.OrderRefunded) {
		s.invalidator.Invalidate(ctx, affectedUserID)
	}

	s.logger.Info(ctx, "payment order transitioned",
		"merchant_tx_id", ev.MerchantTxID, "status", string(target))

	return nil
}
