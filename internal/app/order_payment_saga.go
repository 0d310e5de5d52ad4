package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/clock"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
)

// OrderStore persists orders together with their payment row. CreateOrder
// must reject a second order for the same seat with domain.ErrSeatAlreadySold.
// UpdateOrder compare-and-swaps on the expected order version.
type OrderStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	CreateOrder(ctx context.Context, order domain.Order) error
	UpdateOrder(ctx context.Context, order domain.Order, expectedVersion int64) (domain.Order, error)
}

// ChargeRequest is handed to the payment gateway when a purchase commits.
type ChargeRequest struct {
	OrderID     string
	AmountCents int64
	Method      string
}

// PaymentGateway is the opaque asynchronous boundary to payment processing.
// Charge returns once the request is accepted for delivery; the outcome
// arrives later through CompletePayment or FailPayment.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) error
}

// OrderPaymentSaga orchestrates a purchase: validate the hold, sell the seat,
// record order and payment, dispatch the charge, and apply the asynchronous
// outcome. Payment failure compensates by rolling the seat back to held under
// a fresh reservation while order and payment stay recorded for audit.
type OrderPaymentSaga struct {
	orders  OrderStore
	ledger  *ReservationLedger
	seats   *SeatStateMachine
	gateway PaymentGateway
	clock   clock.Clock
	log     *slog.Logger
}

func NewOrderPaymentSaga(orders OrderStore, ledger *ReservationLedger, seats *SeatStateMachine, gateway PaymentGateway, clk clock.Clock, log *slog.Logger) *OrderPaymentSaga {
	return &OrderPaymentSaga{
		orders:  orders,
		ledger:  ledger,
		seats:   seats,
		gateway: gateway,
		clock:   clk,
		log:     log,
	}
}

type PurchaseInput struct {
	ReservationID string
	UserID        string
	Method        string
}

// Purchase turns an active hold into a sold seat with a pending order and
// payment. The charge is dispatched after commit and the caller observes the
// order as pending; the gateway outcome lands later via the callbacks.
func (s *OrderPaymentSaga) Purchase(ctx context.Context, in PurchaseInput) (domain.Order, error) {
	if in.ReservationID == "" || in.UserID == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	method := in.Method
	if method == "" {
		method = "card"
	}

	now := s.clock.Now()
	var order domain.Order

	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.ledger.GetHold(txCtx, in.ReservationID)
		if err != nil {
			return err
		}
		if res.UserID != in.UserID || !res.IsActive(now) {
			return domain.ErrReservationNotUsable
		}

		seat, err := s.seats.Sell(txCtx, res.SeatID, res.ID)
		if err != nil {
			return err
		}

		order = domain.Order{
			ID:         newID(),
			SeatID:     seat.ID,
			UserID:     res.UserID,
			TotalCents: seat.PriceCents,
			Status:     domain.OrderStatusPending,
			Payment: domain.Payment{
				ID:          newID(),
				AmountCents: seat.PriceCents,
				Method:      method,
				Status:      domain.PaymentStatusPending,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.orders.CreateOrder(txCtx, order); err != nil {
			return err
		}
		return s.ledger.MarkPurchased(txCtx, res.ID)
	})
	if err != nil {
		return domain.Order{}, err
	}

	// Fire and forget: a dispatch failure leaves the order pending and is
	// logged; the order is already committed and must not be unwound here.
	if err := s.gateway.Charge(ctx, ChargeRequest{
		OrderID:     order.ID,
		AmountCents: order.TotalCents,
		Method:      method,
	}); err != nil {
		s.log.Error("charge dispatch failed", "order_id", order.ID, "err", err)
	}

	return order, nil
}

func (s *OrderPaymentSaga) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	return s.orders.GetOrder(ctx, orderID)
}

// CompletePayment applies a successful gateway outcome: payment completed,
// order confirmed, seat stays sold. A non-pending order yields
// ErrInvalidTransition so replayed notifications are distinguishable.
func (s *OrderPaymentSaga) CompletePayment(ctx context.Context, orderID, transactionID string) (domain.Order, error) {
	now := s.clock.Now()
	var out domain.Order

	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.GetOrder(txCtx, orderID)
		if err != nil {
			return err
		}
		readVersion := order.Version
		if err := order.Payment.Complete(transactionID, now); err != nil {
			return err
		}
		if err := order.Confirm(now); err != nil {
			return err
		}
		out, err = s.orders.UpdateOrder(txCtx, order, readVersion)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

// FailPayment applies a failed gateway outcome and compensates: payment
// failed, order cancelled, and the seat rolled back from sold to held under a
// fresh time-boxed reservation so the customer gets a second attempt. The
// cancelled order and failed payment remain recorded.
func (s *OrderPaymentSaga) FailPayment(ctx context.Context, orderID, reason string) (domain.Order, error) {
	now := s.clock.Now()
	var out domain.Order

	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.GetOrder(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusPending {
			return domain.ErrInvalidTransition
		}
		readVersion := order.Version
		if err := order.Payment.Fail(now); err != nil {
			return err
		}
		if err := order.Cancel(now); err != nil {
			return err
		}
		if out, err = s.orders.UpdateOrder(txCtx, order, readVersion); err != nil {
			return err
		}

		res, err := s.ledger.ReissueHold(txCtx, order.SeatID, order.UserID)
		if err != nil {
			return err
		}
		_, err = s.seats.RollbackToHeld(txCtx, order.SeatID, res.ID, res.ExpiresAt)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.log.Info("payment failed, seat rolled back to held",
		"order_id", orderID, "seat_id", out.SeatID, "reason", reason)
	return out, nil
}

// Cancel voids a pending or confirmed order. The seat is not released here;
// seat release is a separate explicit operation.
func (s *OrderPaymentSaga) Cancel(ctx context.Context, orderID string) (domain.Order, error) {
	return s.mutateOrder(ctx, orderID, (*domain.Order).Cancel)
}

// Refund reverses a confirmed order with a completed payment. Seat status is
// unaffected.
func (s *OrderPaymentSaga) Refund(ctx context.Context, orderID string) (domain.Order, error) {
	return s.mutateOrder(ctx, orderID, (*domain.Order).Refund)
}

func (s *OrderPaymentSaga) mutateOrder(ctx context.Context, orderID string, apply func(*domain.Order, time.Time) error) (domain.Order, error) {
	now := s.clock.Now()
	var out domain.Order

	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.GetOrder(txCtx, orderID)
		if err != nil {
			return err
		}
		readVersion := order.Version
		if err := apply(&order, now); err != nil {
			return err
		}
		out, err = s.orders.UpdateOrder(txCtx, order, readVersion)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	return out, nil
}
