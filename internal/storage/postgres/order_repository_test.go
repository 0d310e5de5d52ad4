package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/testutil"
	"github.com/google/uuid"
)

func TestOrderRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)

	repo := NewOrderRepository(pool)
	now := time.Now().UTC()

	newOrder := func(seatID string) domain.Order {
		return domain.Order{
			ID:         uuid.NewString(),
			SeatID:     seatID,
			UserID:     "user-a",
			TotalCents: 4500,
			Status:     domain.OrderStatusPending,
			Payment: domain.Payment{
				ID:          uuid.NewString(),
				AmountCents: 4500,
				Method:      "card",
				Status:      domain.PaymentStatusPending,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	t.Run("round trip includes the payment", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		_, seatID := testutil.InsertConcertAndSeat(t, ctx, pool, "Open Air", 4500)

		order := newOrder(seatID)
		if err := repo.CreateOrder(ctx, order); err != nil {
			t.Fatalf("create order: %v", err)
		}

		got, err := repo.GetOrder(ctx, order.ID)
		if err != nil {
			t.Fatalf("get order: %v", err)
		}
		if got.TotalCents != 4500 {
			t.Fatalf("expected total 4500, got %d", got.TotalCents)
		}
		if got.Payment.ID != order.Payment.ID {
			t.Fatalf("expected payment %s, got %s", order.Payment.ID, got.Payment.ID)
		}
		if got.Payment.Status != domain.PaymentStatusPending {
			t.Fatalf("expected payment pending, got %s", got.Payment.Status)
		}
	})

	t.Run("a seat carries at most one live order", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		_, seatID := testutil.InsertConcertAndSeat(t, ctx, pool, "Open Air", 4500)

		if err := repo.CreateOrder(ctx, newOrder(seatID)); err != nil {
			t.Fatalf("create first order: %v", err)
		}
		err := repo.CreateOrder(ctx, newOrder(seatID))
		if !errors.Is(err, domain.ErrSeatAlreadySold) {
			t.Fatalf("expected ErrSeatAlreadySold, got %v", err)
		}
	})

	t.Run("a cancelled order frees the seat for a new one", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		_, seatID := testutil.InsertConcertAndSeat(t, ctx, pool, "Open Air", 4500)

		first := newOrder(seatID)
		if err := repo.CreateOrder(ctx, first); err != nil {
			t.Fatalf("create first order: %v", err)
		}
		if err := first.Payment.Fail(now); err != nil {
			t.Fatalf("fail payment: %v", err)
		}
		if err := first.Cancel(now); err != nil {
			t.Fatalf("cancel order: %v", err)
		}
		if _, err := repo.UpdateOrder(ctx, first, 0); err != nil {
			t.Fatalf("update order: %v", err)
		}

		second := newOrder(seatID)
		if err := repo.CreateOrder(ctx, second); err != nil {
			t.Fatalf("expected second order after cancellation, got %v", err)
		}

		// The new live order blocks a third attempt again.
		err := repo.CreateOrder(ctx, newOrder(seatID))
		if !errors.Is(err, domain.ErrSeatAlreadySold) {
			t.Fatalf("expected ErrSeatAlreadySold, got %v", err)
		}
	})

	t.Run("update carries payment state along", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		_, seatID := testutil.InsertConcertAndSeat(t, ctx, pool, "Open Air", 4500)

		order := newOrder(seatID)
		if err := repo.CreateOrder(ctx, order); err != nil {
			t.Fatalf("create order: %v", err)
		}

		if err := order.Payment.Complete("tx-42", now); err != nil {
			t.Fatalf("complete payment: %v", err)
		}
		if err := order.Confirm(now); err != nil {
			t.Fatalf("confirm order: %v", err)
		}

		updated, err := repo.UpdateOrder(ctx, order, 0)
		if err != nil {
			t.Fatalf("update order: %v", err)
		}
		if updated.Version != 1 {
			t.Fatalf("expected version 1, got %d", updated.Version)
		}

		got, err := repo.GetOrder(ctx, order.ID)
		if err != nil {
			t.Fatalf("get order: %v", err)
		}
		if got.Status != domain.OrderStatusConfirmed {
			t.Fatalf("expected confirmed, got %s", got.Status)
		}
		if got.Payment.TransactionID == nil || *got.Payment.TransactionID != "tx-42" {
			t.Fatalf("expected transaction tx-42, got %v", got.Payment.TransactionID)
		}
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		_, seatID := testutil.InsertConcertAndSeat(t, ctx, pool, "Open Air", 4500)

		order := newOrder(seatID)
		if err := repo.CreateOrder(ctx, order); err != nil {
			t.Fatalf("create order: %v", err)
		}

		if _, err := repo.UpdateOrder(ctx, order, 3); !errors.Is(err, domain.ErrVersionConflict) {
			t.Fatalf("expected ErrVersionConflict, got %v", err)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		if _, err := repo.GetOrder(ctx, uuid.NewString()); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}

		missing := newOrder(uuid.NewString())
		if _, err := repo.UpdateOrder(ctx, missing, 0); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}
