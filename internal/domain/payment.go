package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment records the charge for an order. Its lifecycle is owned by the
// order; nothing mutates a payment outside the order's transitions.
type Payment struct {
	ID            string
	AmountCents   int64
	Method        string
	Status        PaymentStatus
	TransactionID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Complete records the gateway transaction id. Legal only from pending.
func (p *Payment) Complete(transactionID string, now time.Time) error {
	if p.Status != PaymentStatusPending {
		return ErrInvalidTransition
	}
	p.Status = PaymentStatusCompleted
	p.TransactionID = &transactionID
	p.UpdatedAt = now
	return nil
}

// Fail marks a pending payment as failed.
func (p *Payment) Fail(now time.Time) error {
	if p.Status != PaymentStatusPending {
		return ErrInvalidTransition
	}
	p.Status = PaymentStatusFailed
	p.UpdatedAt = now
	return nil
}

// Cancel voids a payment that has not yet terminally failed or been refunded.
func (p *Payment) Cancel(now time.Time) error {
	if p.Status != PaymentStatusPending && p.Status != PaymentStatusCompleted {
		return ErrInvalidTransition
	}
	p.Status = PaymentStatusCancelled
	p.UpdatedAt = now
	return nil
}

// Refund reverses a completed payment.
func (p *Payment) Refund(now time.Time) error {
	if p.Status != PaymentStatusCompleted {
		return ErrInvalidTransition
	}
	p.Status = PaymentStatusRefunded
	p.UpdatedAt = now
	return nil
}
