package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusExpired   ReservationStatus = "expired"
	ReservationStatusPurchased ReservationStatus = "purchased"
)

// Reservation is a time-boxed hold on a single seat for one user. Status only
// ever advances active -> expired or active -> purchased.
type Reservation struct {
	ID        string
	SeatID    string
	UserID    string
	Status    ReservationStatus
	ExpiresAt time.Time
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the reservation is usable at the given instant.
// A reservation past its expiry is unusable even while its status is still
// active; every consumer must use this predicate, never the raw status.
func (r *Reservation) IsActive(now time.Time) bool {
	return r.Status == ReservationStatusActive && now.Before(r.ExpiresAt)
}

// Expire transitions active -> expired. Not idempotent: a second call fails.
func (r *Reservation) Expire(now time.Time) error {
	if r.Status != ReservationStatusActive {
		return ErrInvalidTransition
	}
	r.Status = ReservationStatusExpired
	r.UpdatedAt = now
	return nil
}

// MarkPurchased transitions active -> purchased. Not idempotent.
func (r *Reservation) MarkPurchased(now time.Time) error {
	if r.Status != ReservationStatusActive {
		return ErrInvalidTransition
	}
	r.Status = ReservationStatusPurchased
	r.UpdatedAt = now
	return nil
}
