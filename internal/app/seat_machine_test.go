package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/clock"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
)

func TestSeatStateMachine(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(15 * time.Minute)

	availableSeat := func() domain.Seat {
		return domain.Seat{
			ID:         "seat-1",
			ConcertID:  "concert-1",
			Label:      "A1",
			PriceCents: 4500,
			Status:     domain.SeatStatusAvailable,
		}
	}

	makeMachine := func(seat domain.Seat) (*SeatStateMachine, *memStore) {
		store := newMemStore()
		store.addSeat(seat)
		return NewSeatStateMachine(store, clock.NewFixed(now)), store
	}

	t.Run("hold moves available seat to held", func(t *testing.T) {
		m, store := makeMachine(availableSeat())

		seat, err := m.Hold(context.Background(), "seat-1", "res-1", expiry)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if seat.Status != domain.SeatStatusHeld {
			t.Fatalf("expected status held, got %s", seat.Status)
		}
		if seat.HoldReservationID == nil || *seat.HoldReservationID != "res-1" {
			t.Fatalf("expected hold reservation res-1, got %v", seat.HoldReservationID)
		}
		if seat.Version != 1 {
			t.Fatalf("expected version bumped to 1, got %d", seat.Version)
		}
		if stored := store.seats["seat-1"]; stored.Status != domain.SeatStatusHeld {
			t.Fatalf("expected persisted status held, got %s", stored.Status)
		}
	})

	t.Run("hold on held seat fails", func(t *testing.T) {
		m, _ := makeMachine(availableSeat())

		if _, err := m.Hold(context.Background(), "seat-1", "res-1", expiry); err != nil {
			t.Fatalf("first hold: %v", err)
		}
		_, err := m.Hold(context.Background(), "seat-1", "res-2", expiry)
		if !errors.Is(err, domain.ErrSeatUnavailable) {
			t.Fatalf("expected ErrSeatUnavailable, got %v", err)
		}
	})

	t.Run("sell requires matching reservation", func(t *testing.T) {
		m, _ := makeMachine(availableSeat())
		if _, err := m.Hold(context.Background(), "seat-1", "res-1", expiry); err != nil {
			t.Fatalf("hold: %v", err)
		}

		_, err := m.Sell(context.Background(), "seat-1", "res-other")
		if !errors.Is(err, domain.ErrReservationMismatch) {
			t.Fatalf("expected ErrReservationMismatch, got %v", err)
		}

		seat, err := m.Sell(context.Background(), "seat-1", "res-1")
		if err != nil {
			t.Fatalf("sell: %v", err)
		}
		if seat.Status != domain.SeatStatusSold {
			t.Fatalf("expected status sold, got %s", seat.Status)
		}
		if seat.HoldReservationID != nil || seat.HoldExpiresAt != nil {
			t.Fatalf("expected hold fields cleared, got %+v", seat)
		}
	})

	t.Run("sell on available seat fails", func(t *testing.T) {
		m, _ := makeMachine(availableSeat())

		_, err := m.Sell(context.Background(), "seat-1", "res-1")
		if !errors.Is(err, domain.ErrSeatNotHeld) {
			t.Fatalf("expected ErrSeatNotHeld, got %v", err)
		}
	})

	t.Run("release returns held seat to available", func(t *testing.T) {
		m, _ := makeMachine(availableSeat())
		if _, err := m.Hold(context.Background(), "seat-1", "res-1", expiry); err != nil {
			t.Fatalf("hold: %v", err)
		}

		seat, err := m.ReleaseHold(context.Background(), "seat-1")
		if err != nil {
			t.Fatalf("release: %v", err)
		}
		if seat.Status != domain.SeatStatusAvailable {
			t.Fatalf("expected status available, got %s", seat.Status)
		}

		_, err = m.ReleaseHold(context.Background(), "seat-1")
		if !errors.Is(err, domain.ErrSeatNotHeld) {
			t.Fatalf("expected ErrSeatNotHeld on second release, got %v", err)
		}
	})

	t.Run("rollback re-enters held from sold only", func(t *testing.T) {
		m, _ := makeMachine(availableSeat())
		if _, err := m.Hold(context.Background(), "seat-1", "res-1", expiry); err != nil {
			t.Fatalf("hold: %v", err)
		}

		_, err := m.RollbackToHeld(context.Background(), "seat-1", "res-2", expiry)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition on held seat, got %v", err)
		}

		if _, err := m.Sell(context.Background(), "seat-1", "res-1"); err != nil {
			t.Fatalf("sell: %v", err)
		}

		seat, err := m.RollbackToHeld(context.Background(), "seat-1", "res-2", expiry.Add(15*time.Minute))
		if err != nil {
			t.Fatalf("rollback: %v", err)
		}
		if seat.Status != domain.SeatStatusHeld {
			t.Fatalf("expected status held, got %s", seat.Status)
		}
		if seat.HoldReservationID == nil || *seat.HoldReservationID != "res-2" {
			t.Fatalf("expected new reservation res-2, got %v", seat.HoldReservationID)
		}
	})

	t.Run("version conflict surfaces to caller", func(t *testing.T) {
		m, store := makeMachine(availableSeat())
		store.seatUpdateErr = domain.ErrVersionConflict

		_, err := m.Hold(context.Background(), "seat-1", "res-1", expiry)
		if !errors.Is(err, domain.ErrVersionConflict) {
			t.Fatalf("expected ErrVersionConflict, got %v", err)
		}
	})

	t.Run("unknown seat", func(t *testing.T) {
		m, _ := makeMachine(availableSeat())

		_, err := m.Hold(context.Background(), "missing", "res-1", expiry)
		if !errors.Is(err, domain.ErrSeatNotFound) {
			t.Fatalf("expected ErrSeatNotFound, got %v", err)
		}
	})
}
