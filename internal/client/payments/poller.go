// Package payments drives the viewer side of a checkout: it persists the
// resume record before the redirect and polls the order status until a
// terminal state is observed or the poll budget runs out.
package payments

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/studyvault/noteguard/internal/client/models"
	"github.com/studyvault/noteguard/internal/client/resume"
	"github.com/studyvault/noteguard/internal/common"
	"github.com/studyvault/noteguard/internal/logging"
)

const (
	// DefaultInterval is the fixed poll cadence.
	DefaultInterval = 3 * time.Second
	// DefaultBudget bounds the whole poll: past it the order is surfaced
	// as "still processing" instead of polling forever.
	DefaultBudget = 5 * time.Minute
)

// StatusFetcher is the observation contract polled until resolution.
type StatusFetcher interface {
	GetOrderStatus(ctx context.Context, merchantTxID string) (*models.Order, error)
}

type Poller struct {
	fetcher  StatusFetcher
	store    resume.Store
	interval time.Duration
	budget   time.Duration
	logger   logging.Logger
}

func NewPoller(fetcher StatusFetcher, store resume.Store, interval, budget time.Duration, logger logging.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Poller{fetcher: fetcher, store: store, interval: interval, budget: budget, logger: logger}
}

// Begin persists the resume record for a fresh checkout. It must be called
// before following the provider redirect, so a process restart mid-flow can
// recover the transaction reference instead of losing it.
func (p *Poller) Begin(ctx context.Context, intent *models.CheckoutIntent, nextPath string) error {
	return p.store.Save(ctx, &models.PendingTransaction{
		MerchantTxID: intent.MerchantTxID,
		NextPath:     nextPath,
	})
}

// Resume returns the persisted pending transaction, or common.ErrNotFound
// when there is nothing to pick up.
func (p *Poller) Resume(ctx context.Context) (*models.PendingTransaction, error) {
	return p.store.Load(ctx)
}

// WaitForResolution polls the order on a fixed interval until a terminal
// status is observed, then clears the resume record. Transient lookup
// failures count as not-yet-resolved. When the budget is exhausted the
// record is kept (a later poll, e.g. on next app open, can still recover)
// and ErrOrderStillPending is returned.
func (p *Poller) WaitForResolution(ctx context.Context, merchantTxID string) (*models.Order, error) {

	backoff := retry.WithMaxDuration(p.budget, retry.NewConstant(p.interval))

	var resolved *models.Order

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		order, err := p.fetcher.GetOrderStatus(ctx, merchantTxID)
		if err != nil {
			if errors.Is(err, common.ErrOrderNotFound) {
				return err
			}
			if p.logger != nil {
				p.logger.Warn(ctx, "order status lookup failed", "error", err.Error())
			}
			return retry.RetryableError(err)
		}

		if !order.Terminal() {
			return retry.RetryableError(common.ErrOrderStillPending)
		}

		resolved = order
		return nil
	})

	if err != nil {
		if errors.Is(err, common.ErrOrderNotFound) {
			return nil, err
		}
		if errors.Is(err, common.ErrOrderStillPending) || errors.Is(err, common.ErrTransientLookup) {
			return nil, common.ErrOrderStillPending
		}
		return nil, err
	}

	if cerr := p.store.Clear(ctx); cerr != nil && p.logger != nil {
		p.logger.Warn(ctx, "failed to clear resume record", "error", cerr.Error())
	}

	return resolved, nil
}
