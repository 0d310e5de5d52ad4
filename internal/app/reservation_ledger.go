package app

import (
	"context"
	"errors"
	"time"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/clock"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
)

// ReservationStore persists holds. CreateReservation must reject a second
// active reservation for the same seat with domain.ErrSeatUnavailable.
// UpdateReservation compare-and-swaps on the expected version.
type ReservationStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetReservation(ctx context.Context, reservationID string) (domain.Reservation, error)
	CreateReservation(ctx context.Context, res domain.Reservation) error
	UpdateReservation(ctx context.Context, res domain.Reservation, expectedVersion int64) (domain.Reservation, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.Reservation, error)
}

// ReservationLedger owns the hold records. Creating a hold writes the seat
// and the reservation in one transaction; a held seat with no live
// reservation (or the reverse) is an invariant violation.
type ReservationLedger struct {
	store   ReservationStore
	seats   *SeatStateMachine
	clock   clock.Clock
	holdTTL time.Duration
}

const defaultHoldTTL = 15 * time.Minute

func NewReservationLedger(store ReservationStore, seats *SeatStateMachine, clk clock.Clock, opts ...LedgerOption) *ReservationLedger {
	l := &ReservationLedger{
		store:   store,
		seats:   seats,
		clock:   clk,
		holdTTL: defaultHoldTTL,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type LedgerOption func(*ReservationLedger)

// WithHoldTTL overrides the default TTL for new holds.
func WithHoldTTL(d time.Duration) LedgerOption {
	return func(l *ReservationLedger) {
		if d > 0 {
			l.holdTTL = d
		}
	}
}

type CreateHoldInput struct {
	SeatID string
	UserID string
	// TTL overrides the ledger default when positive; zero means default.
	TTL time.Duration
}

// CreateHold places a hold on an available seat and records the matching
// active reservation atomically. A version conflict on the seat write means
// the seat raced away and surfaces as ErrSeatUnavailable.
func (l *ReservationLedger) CreateHold(ctx context.Context, in CreateHoldInput) (domain.Reservation, error) {
	if in.SeatID == "" || in.UserID == "" {
		return domain.Reservation{}, domain.ErrInvalidID
	}
	ttl := in.TTL
	if ttl == 0 {
		ttl = l.holdTTL
	}
	if ttl < 0 {
		return domain.Reservation{}, domain.ErrInvalidTTL
	}

	now := l.clock.Now()
	res := domain.Reservation{
		ID:        newID(),
		SeatID:    in.SeatID,
		UserID:    in.UserID,
		Status:    domain.ReservationStatusActive,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := l.store.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := l.seats.Hold(txCtx, in.SeatID, res.ID, res.ExpiresAt); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				return domain.ErrSeatUnavailable
			}
			return err
		}
		return l.store.CreateReservation(txCtx, res)
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return res, nil
}

func (l *ReservationLedger) GetHold(ctx context.Context, reservationID string) (domain.Reservation, error) {
	return l.store.GetReservation(ctx, reservationID)
}

// Expire transitions a reservation active -> expired. Deliberately not
// idempotent: a reservation that is already expired or purchased yields
// ErrInvalidTransition and callers decide what that means.
func (l *ReservationLedger) Expire(ctx context.Context, reservationID string) error {
	return l.updateStatus(ctx, reservationID, (*domain.Reservation).Expire)
}

// MarkPurchased transitions a reservation active -> purchased. Same
// non-idempotence rule as Expire.
func (l *ReservationLedger) MarkPurchased(ctx context.Context, reservationID string) error {
	return l.updateStatus(ctx, reservationID, (*domain.Reservation).MarkPurchased)
}

// Release ends an active hold on the caller's initiative: the reservation is
// expired and the seat returned to available in one transaction.
func (l *ReservationLedger) Release(ctx context.Context, reservationID string) error {
	return l.store.WithTx(ctx, func(txCtx context.Context) error {
		res, err := l.store.GetReservation(txCtx, reservationID)
		if err != nil {
			return err
		}
		readVersion := res.Version
		if err := res.Expire(l.clock.Now()); err != nil {
			return err
		}
		if _, err := l.store.UpdateReservation(txCtx, res, readVersion); err != nil {
			return err
		}
		_, err = l.seats.ReleaseHold(txCtx, res.SeatID)
		return err
	})
}

// ReissueHold creates a fresh active reservation for a seat without touching
// seat state. The payment-failure compensation pairs it with RollbackToHeld.
func (l *ReservationLedger) ReissueHold(ctx context.Context, seatID, userID string) (domain.Reservation, error) {
	now := l.clock.Now()
	res := domain.Reservation{
		ID:        newID(),
		SeatID:    seatID,
		UserID:    userID,
		Status:    domain.ReservationStatusActive,
		ExpiresAt: now.Add(l.holdTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.store.CreateReservation(ctx, res); err != nil {
		return domain.Reservation{}, err
	}
	return res, nil
}

// ListExpired returns up to limit reservations whose status is still active
// but whose expiry has passed.
func (l *ReservationLedger) ListExpired(ctx context.Context, limit int) ([]domain.Reservation, error) {
	return l.store.ListExpired(ctx, l.clock.Now(), limit)
}

func (l *ReservationLedger) updateStatus(ctx context.Context, reservationID string, apply func(*domain.Reservation, time.Time) error) error {
	return l.store.WithTx(ctx, func(txCtx context.Context) error {
		res, err := l.store.GetReservation(txCtx, reservationID)
		if err != nil {
			return err
		}
		readVersion := res.Version
		if err := apply(&res, l.clock.Now()); err != nil {
			return err
		}
		_, err = l.store.UpdateReservation(txCtx, res, readVersion)
		return err
	})
}
