package postgres

import (
	"context"
	"fmt"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT o.id, o.seat_id, o.user_id, o.total_cents, o.status, o.version, o.created_at, o.updated_at,
       p.id, p.amount_cents, p.method, p.status, p.transaction_id, p.created_at, p.updated_at
FROM orders o
JOIN payments p ON p.order_id = o.id
WHERE o.id = $1`

	var o domain.Order
	err := r.queryRow(ctx, query, orderID).Scan(
		&o.ID, &o.SeatID, &o.UserID, &o.TotalCents, &o.Status, &o.Version, &o.CreatedAt, &o.UpdatedAt,
		&o.Payment.ID, &o.Payment.AmountCents, &o.Payment.Method, &o.Payment.Status,
		&o.Payment.TransactionID, &o.Payment.CreatedAt, &o.Payment.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// CreateOrder inserts the order and its payment row together. The partial
// unique index on seat_id allows at most one live order per seat; cancelled
// orders stay recorded without blocking the compensation's second attempt.
func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const orderStmt = `
INSERT INTO orders (id, seat_id, user_id, total_cents, status, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	const paymentStmt = `
INSERT INTO payments (id, order_id, amount_cents, method, status, transaction_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, orderStmt,
		order.ID, order.SeatID, order.UserID, order.TotalCents, order.Status,
		order.Version, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if uniqueConstraint(err) == "uq_orders_one_live_per_seat" {
			return domain.ErrSeatAlreadySold
		}
		if isForeignKeyViolation(err) {
			return domain.ErrSeatNotFound
		}
		return fmt.Errorf("create order: %w", err)
	}

	p := order.Payment
	if _, err := r.exec(ctx, paymentStmt,
		p.ID, order.ID, p.AmountCents, p.Method, p.Status, p.TransactionID, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// UpdateOrder writes order and payment state guarded by a compare-and-swap on
// the order version. The payment row rides along: it has no independent
// mutation path.
func (r *OrderRepository) UpdateOrder(ctx context.Context, order domain.Order, expectedVersion int64) (domain.Order, error) {
	const orderStmt = `
UPDATE orders
SET status = $2, updated_at = $3, version = version + 1
WHERE id = $1 AND version = $4`

	const paymentStmt = `
UPDATE payments
SET status = $2, transaction_id = $3, updated_at = $4
WHERE order_id = $1`

	tag, err := r.exec(ctx, orderStmt, order.ID, order.Status, order.UpdatedAt, expectedVersion)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, order.ID).Scan(&exists); err != nil {
			return domain.Order{}, fmt.Errorf("check order: %w", err)
		}
		if !exists {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, domain.ErrVersionConflict
	}

	p := order.Payment
	if _, err := r.exec(ctx, paymentStmt, order.ID, p.Status, p.TransactionID, p.UpdatedAt); err != nil {
		return domain.Order{}, fmt.Errorf("update payment: %w", err)
	}

	order.Version = expectedVersion + 1
	return order, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
