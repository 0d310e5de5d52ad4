package domain

import "time"

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusHeld      SeatStatus = "held"
	SeatStatusSold      SeatStatus = "sold"
)

// Seat is the contended resource: one sellable place at a concert. All
// transitions go through the methods below; callers persist the result with a
// compare-and-swap on Version.
type Seat struct {
	ID                string
	ConcertID         string
	Label             string
	PriceCents        int64
	Status            SeatStatus
	HoldReservationID *string
	HoldExpiresAt     *time.Time
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PlaceHold moves an available seat to held for the given reservation.
func (s *Seat) PlaceHold(reservationID string, expiresAt, now time.Time) error {
	if s.Status != SeatStatusAvailable {
		return ErrSeatUnavailable
	}
	s.Status = SeatStatusHeld
	s.HoldReservationID = &reservationID
	s.HoldExpiresAt = &expiresAt
	s.UpdatedAt = now
	return nil
}

// Sell moves a held seat to sold. The caller must present the reservation that
// owns the hold.
func (s *Seat) Sell(reservationID string, now time.Time) error {
	if s.Status != SeatStatusHeld {
		return ErrSeatNotHeld
	}
	if s.HoldReservationID == nil || *s.HoldReservationID != reservationID {
		return ErrReservationMismatch
	}
	s.Status = SeatStatusSold
	s.HoldReservationID = nil
	s.HoldExpiresAt = nil
	s.UpdatedAt = now
	return nil
}

// ReleaseHold returns a held seat to available.
func (s *Seat) ReleaseHold(now time.Time) error {
	if s.Status != SeatStatusHeld {
		return ErrSeatNotHeld
	}
	s.Status = SeatStatusAvailable
	s.HoldReservationID = nil
	s.HoldExpiresAt = nil
	s.UpdatedAt = now
	return nil
}

// RollbackToHeld re-enters held from sold under a fresh reservation. Sold is
// terminal everywhere else; only the payment-failure compensation may take
// this path.
func (s *Seat) RollbackToHeld(reservationID string, expiresAt, now time.Time) error {
	if s.Status != SeatStatusSold {
		return ErrInvalidTransition
	}
	s.Status = SeatStatusHeld
	s.HoldReservationID = &reservationID
	s.HoldExpiresAt = &expiresAt
	s.UpdatedAt = now
	return nil
}
