package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// Order is a purchase of exactly one seat. It owns its payment by value; the
// payment never references back.
type Order struct {
	ID         string
	SeatID     string
	UserID     string
	TotalCents int64
	Status     OrderStatus
	Payment    Payment
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Confirm finishes a successful purchase. Legal only while the order is
// pending and its payment has completed.
func (o *Order) Confirm(now time.Time) error {
	if o.Status != OrderStatusPending {
		return ErrInvalidTransition
	}
	if o.Payment.Status != PaymentStatusCompleted {
		return ErrInvalidTransition
	}
	o.Status = OrderStatusConfirmed
	o.UpdatedAt = now
	return nil
}

// Cancel voids a pending or confirmed order. The payment is cancelled along
// with it when it is still cancellable; a payment that already failed stays
// failed for audit.
func (o *Order) Cancel(now time.Time) error {
	if o.Status != OrderStatusPending && o.Status != OrderStatusConfirmed {
		return ErrInvalidTransition
	}
	if o.Payment.Status == PaymentStatusPending || o.Payment.Status == PaymentStatusCompleted {
		if err := o.Payment.Cancel(now); err != nil {
			return err
		}
	}
	o.Status = OrderStatusCancelled
	o.UpdatedAt = now
	return nil
}

// Refund reverses a confirmed order with a completed payment.
func (o *Order) Refund(now time.Time) error {
	if o.Status != OrderStatusConfirmed {
		return ErrInvalidTransition
	}
	if err := o.Payment.Refund(now); err != nil {
		return err
	}
	o.Status = OrderStatusRefunded
	o.UpdatedAt = now
	return nil
}
