package app

import (
	"context"
	"time"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/clock"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
)

// SeatStore persists seats. UpdateSeat must compare-and-swap on the expected
// version: it either returns the seat with the bumped version or
// domain.ErrVersionConflict when the persisted version has advanced.
type SeatStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetSeat(ctx context.Context, seatID string) (domain.Seat, error)
	UpdateSeat(ctx context.Context, seat domain.Seat, expectedVersion int64) (domain.Seat, error)
}

// SeatStateMachine owns every seat status transition. It is the only writer
// of seat state; all other components go through it. Each operation is a
// single versioned read-then-write; a version conflict is returned to the
// caller, never retried here.
type SeatStateMachine struct {
	store SeatStore
	clock clock.Clock
}

func NewSeatStateMachine(store SeatStore, clk clock.Clock) *SeatStateMachine {
	return &SeatStateMachine{
		store: store,
		clock: clk,
	}
}

func (m *SeatStateMachine) Get(ctx context.Context, seatID string) (domain.Seat, error) {
	return m.store.GetSeat(ctx, seatID)
}

// Hold moves an available seat to held for the given reservation.
func (m *SeatStateMachine) Hold(ctx context.Context, seatID, reservationID string, expiresAt time.Time) (domain.Seat, error) {
	return m.transition(ctx, seatID, func(seat *domain.Seat) error {
		return seat.PlaceHold(reservationID, expiresAt, m.clock.Now())
	})
}

// Sell moves a held seat to sold, verifying the supplied reservation owns the
// hold.
func (m *SeatStateMachine) Sell(ctx context.Context, seatID, reservationID string) (domain.Seat, error) {
	return m.transition(ctx, seatID, func(seat *domain.Seat) error {
		return seat.Sell(reservationID, m.clock.Now())
	})
}

// ReleaseHold returns a held seat to available. Used by explicit cancellation
// and by the expiry reclaimer.
func (m *SeatStateMachine) ReleaseHold(ctx context.Context, seatID string) (domain.Seat, error) {
	return m.transition(ctx, seatID, func(seat *domain.Seat) error {
		return seat.ReleaseHold(m.clock.Now())
	})
}

// RollbackToHeld re-enters held from sold under a fresh reservation. Only the
// payment-failure compensation calls this.
func (m *SeatStateMachine) RollbackToHeld(ctx context.Context, seatID, reservationID string, expiresAt time.Time) (domain.Seat, error) {
	return m.transition(ctx, seatID, func(seat *domain.Seat) error {
		return seat.RollbackToHeld(reservationID, expiresAt, m.clock.Now())
	})
}

func (m *SeatStateMachine) transition(ctx context.Context, seatID string, apply func(*domain.Seat) error) (domain.Seat, error) {
	var out domain.Seat
	err := m.store.WithTx(ctx, func(txCtx context.Context) error {
		seat, err := m.store.GetSeat(txCtx, seatID)
		if err != nil {
			return err
		}
		readVersion := seat.Version
		if err := apply(&seat); err != nil {
			return err
		}
		out, err = m.store.UpdateSeat(txCtx, seat, readVersion)
		return err
	})
	if err != nil {
		return domain.Seat{}, err
	}
	return out, nil
}
