package postgres

import (
	"context"
	"fmt"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SeatRepository struct {
	pool *pgxpool.Pool
}

func NewSeatRepository(pool *pgxpool.Pool) *SeatRepository {
	return &SeatRepository{pool: pool}
}

func (r *SeatRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *SeatRepository) GetSeat(ctx context.Context, seatID string) (domain.Seat, error) {
	const query = `
SELECT id, concert_id, label, price_cents, status, hold_reservation_id, hold_expires_at, version, created_at, updated_at
FROM seats
WHERE id = $1`

	var s domain.Seat
	err := r.queryRow(ctx, query, seatID).Scan(
		&s.ID, &s.ConcertID, &s.Label, &s.PriceCents, &s.Status,
		&s.HoldReservationID, &s.HoldExpiresAt, &s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Seat{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Seat{}, domain.ErrSeatNotFound
		}
		return domain.Seat{}, fmt.Errorf("get seat: %w", err)
	}
	return s, nil
}

// UpdateSeat writes the seat's mutable fields guarded by a compare-and-swap
// on version. Zero rows affected means either the row vanished or the version
// advanced; the two are told apart with a follow-up existence check.
func (r *SeatRepository) UpdateSeat(ctx context.Context, seat domain.Seat, expectedVersion int64) (domain.Seat, error) {
	const stmt = `
UPDATE seats
SET status = $2, hold_reservation_id = $3, hold_expires_at = $4, updated_at = $5, version = version + 1
WHERE id = $1 AND version = $6`

	tag, err := r.exec(ctx, stmt,
		seat.ID, seat.Status, seat.HoldReservationID, seat.HoldExpiresAt, seat.UpdatedAt, expectedVersion,
	)
	if err != nil {
		return domain.Seat{}, fmt.Errorf("update seat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM seats WHERE id = $1)`, seat.ID).Scan(&exists); err != nil {
			return domain.Seat{}, fmt.Errorf("check seat: %w", err)
		}
		if !exists {
			return domain.Seat{}, domain.ErrSeatNotFound
		}
		return domain.Seat{}, domain.ErrVersionConflict
	}

	seat.Version = expectedVersion + 1
	return seat, nil
}

func (r *SeatRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *SeatRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
