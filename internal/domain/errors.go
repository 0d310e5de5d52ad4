package domain

import "errors"

var (
	ErrInvalidID            = errors.New("invalid id")
	ErrInvalidTTL           = errors.New("ttl must be positive")
	ErrConcertNameRequired  = errors.New("concert name required")
	ErrSeatLabelRequired    = errors.New("seat label required")
	ErrInvalidPrice         = errors.New("price must be positive")
	ErrConcertNotFound      = errors.New("concert not found")
	ErrSeatNotFound         = errors.New("seat not found")
	ErrSeatUnavailable      = errors.New("seat unavailable")
	ErrSeatNotHeld          = errors.New("seat not held")
	ErrSeatAlreadySold      = errors.New("seat already sold")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrReservationMismatch  = errors.New("reservation mismatch")
	ErrReservationNotUsable = errors.New("reservation not usable")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidTransition    = errors.New("invalid state transition")
	ErrVersionConflict      = errors.New("version conflict")
)
