package http

import (
	"time"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
)

type reservationView struct {
	ID        string    `json:"id"`
	SeatID    string    `json:"seat_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newReservationView(res domain.Reservation) reservationView {
	return reservationView{
		ID:        res.ID,
		SeatID:    res.SeatID,
		UserID:    res.UserID,
		Status:    string(res.Status),
		ExpiresAt: res.ExpiresAt,
	}
}

type paymentView struct {
	ID            string  `json:"id"`
	AmountCents   int64   `json:"amount_cents"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

type orderView struct {
	ID         string      `json:"id"`
	SeatID     string      `json:"seat_id"`
	UserID     string      `json:"user_id"`
	TotalCents int64       `json:"total_cents"`
	Status     string      `json:"status"`
	Payment    paymentView `json:"payment"`
	CreatedAt  time.Time   `json:"created_at"`
}

func newOrderView(order domain.Order) orderView {
	return orderView{
		ID:         order.ID,
		SeatID:     order.SeatID,
		UserID:     order.UserID,
		TotalCents: order.TotalCents,
		Status:     string(order.Status),
		Payment: paymentView{
			ID:            order.Payment.ID,
			AmountCents:   order.Payment.AmountCents,
			Method:        order.Payment.Method,
			Status:        string(order.Payment.Status),
			TransactionID: order.Payment.TransactionID,
		},
		CreatedAt: order.CreatedAt,
	}
}

type seatView struct {
	ID            string     `json:"id"`
	ConcertID     string     `json:"concert_id"`
	Label         string     `json:"label"`
	PriceCents    int64      `json:"price_cents"`
	Status        string     `json:"status"`
	HoldExpiresAt *time.Time `json:"hold_expires_at,omitempty"`
}

func newSeatView(seat domain.Seat) seatView {
	return seatView{
		ID:            seat.ID,
		ConcertID:     seat.ConcertID,
		Label:         seat.Label,
		PriceCents:    seat.PriceCents,
		Status:        string(seat.Status),
		HoldExpiresAt: seat.HoldExpiresAt,
	}
}
