package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studyvault/noteguard/internal/common"
	"github.com/studyvault/noteguard/internal/dbx"
	"github.com/studyvault/noteguard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, order *models.PaymentOrder) error {
	query :=
		`INSERT INTO payment_orders (id, merchant_tx_id, user_id, plan_id, status, amount_paise, final_amount_paise)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		order.ID, order.MerchantTxID, order.UserID, order.PlanID,
		order.Status, order.AmountPaise, order.FinalAmountPaise)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByMerchantTxID(ctx context.Context, merchantTxID string) (*models.PaymentOrder, error) {
	query :=
		`SELECT id, merchant_tx_id, user_id, plan_id, status, amount_paise, final_amount_paise, created_at, completed_at
		 FROM payment_orders
		 WHERE merchant_tx_id = $1
		 `

	o := &models.PaymentOrder{}
	err := r.db.QueryRowContext(ctx, query, merchantTxID).
		Scan(&o.ID, &o.MerchantTxID, &o.UserID, &o.PlanID, &o.Status,
			&o.AmountPaise, &o.FinalAmountPaise, &o.CreatedAt, &o.CompletedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrOrderNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return o, nil
}

func (r *PostgresRepository) TransitionStatus(ctx context.Context, merchantTxID string, from, to models.OrderStatus, completedAt *time.Time) error {

	if !CanTransition(from, to) {
		return common.ErrInvalidTransition
	}

	query :=
		`UPDATE payment_orders SET status = $1, completed_at = COALESCE($2, completed_at)
		 WHERE merchant_tx_id = $3 AND status = $4
		 `

	res, err := r.db.ExecContext(ctx, query, to, completedAt, merchantTxID, from)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		// Row moved on (or never existed): the CAS guard did not match.
		return common.ErrInvalidTransition
	}

	return nil
}

func (r *PostgresRepository) GetPlanByID(ctx context.Context, id string) (*models.Plan, error) {
	query :=
		`SELECT id, name, subject, price_paise, duration_days FROM plans
		 WHERE id = $1
		 `

	p := &models.Plan{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Subject, &p.PricePaise, &p.DurationDays)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) GetCouponPercent(ctx context.Context, code string) (int, error) {
	query :=
		`SELECT percent FROM coupons
		 WHERE code = $1
		 `

	var percent int
	err := r.db.QueryRowContext(ctx, query, code).Scan(&percent)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return percent, nil
}
