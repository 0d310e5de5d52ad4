package postgres

import (
	"context"
	"fmt"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) CreateConcert(ctx context.Context, concert domain.Concert) error {
	const stmt = `INSERT INTO concerts (id, name, starts_at) VALUES ($1, $2, $3)`

	if _, err := r.exec(ctx, stmt, concert.ID, concert.Name, concert.StartsAt); err != nil {
		return fmt.Errorf("create concert: %w", err)
	}
	return nil
}

func (r *CatalogRepository) GetConcert(ctx context.Context, concertID string) (domain.Concert, error) {
	const query = `SELECT id, name, starts_at FROM concerts WHERE id = $1`

	var c domain.Concert
	err := r.queryRow(ctx, query, concertID).Scan(&c.ID, &c.Name, &c.StartsAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Concert{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Concert{}, domain.ErrConcertNotFound
		}
		return domain.Concert{}, fmt.Errorf("get concert: %w", err)
	}
	return c, nil
}

func (r *CatalogRepository) CreateSeat(ctx context.Context, seat domain.Seat) error {
	const stmt = `
INSERT INTO seats (id, concert_id, label, price_cents, status, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		seat.ID, seat.ConcertID, seat.Label, seat.PriceCents, seat.Status,
		seat.Version, seat.CreatedAt, seat.UpdatedAt,
	)
	if err != nil {
		if uniqueConstraint(err) == "seats_concert_id_label_key" {
			return domain.ErrSeatUnavailable
		}
		if isForeignKeyViolation(err) {
			return domain.ErrConcertNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create seat: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ListSeatsByConcert(ctx context.Context, concertID string) ([]domain.Seat, error) {
	const query = `
SELECT id, concert_id, label, price_cents, status, hold_reservation_id, hold_expires_at, version, created_at, updated_at
FROM seats
WHERE concert_id = $1
ORDER BY label`

	rows, err := r.query(ctx, query, concertID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list seats: %w", err)
	}
	defer rows.Close()

	var out []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(
			&s.ID, &s.ConcertID, &s.Label, &s.PriceCents, &s.Status,
			&s.HoldReservationID, &s.HoldExpiresAt, &s.Version, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *CatalogRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *CatalogRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
