package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *ReservationRepository) GetReservation(ctx context.Context, reservationID string) (domain.Reservation, error) {
	const query = `
SELECT id, seat_id, user_id, status, expires_at, version, created_at, updated_at
FROM reservations
WHERE id = $1`

	var res domain.Reservation
	err := r.queryRow(ctx, query, reservationID).Scan(
		&res.ID, &res.SeatID, &res.UserID, &res.Status, &res.ExpiresAt,
		&res.Version, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Reservation{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res domain.Reservation) error {
	const stmt = `
INSERT INTO reservations (id, seat_id, user_id, status, expires_at, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		res.ID, res.SeatID, res.UserID, res.Status, res.ExpiresAt,
		res.Version, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		// The partial unique index allows one active reservation per seat.
		if uniqueConstraint(err) == "uq_reservations_one_active_per_seat" {
			return domain.ErrSeatUnavailable
		}
		if isForeignKeyViolation(err) {
			return domain.ErrSeatNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) UpdateReservation(ctx context.Context, res domain.Reservation, expectedVersion int64) (domain.Reservation, error) {
	const stmt = `
UPDATE reservations
SET status = $2, expires_at = $3, updated_at = $4, version = version + 1
WHERE id = $1 AND version = $5`

	tag, err := r.exec(ctx, stmt, res.ID, res.Status, res.ExpiresAt, res.UpdatedAt, expectedVersion)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reservations WHERE id = $1)`, res.ID).Scan(&exists); err != nil {
			return domain.Reservation{}, fmt.Errorf("check reservation: %w", err)
		}
		if !exists {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, domain.ErrVersionConflict
	}

	res.Version = expectedVersion + 1
	return res, nil
}

func (r *ReservationRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.Reservation, error) {
	const query = `
SELECT id, seat_id, user_id, status, expires_at, version, created_at, updated_at
FROM reservations
WHERE status = 'active' AND expires_at < $1
ORDER BY expires_at
LIMIT $2`

	rows, err := r.query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired reservations: %w", err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(
			&res.ID, &res.SeatID, &res.UserID, &res.Status, &res.ExpiresAt,
			&res.Version, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *ReservationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ReservationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *ReservationRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
