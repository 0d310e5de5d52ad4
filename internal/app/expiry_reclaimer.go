package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/clock"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
)

// ExpiryReclaimer converts timed-out holds back into available inventory.
// Each reservation is settled in its own small transactions so one failure
// does not block the batch. Races with live purchases are resolved by the
// version checks: losing one is a benign outcome, not an error.
type ExpiryReclaimer struct {
	ledger    *ReservationLedger
	seats     *SeatStateMachine
	clock     clock.Clock
	log       *slog.Logger
	batchSize int
	interval  time.Duration
}

func NewExpiryReclaimer(ledger *ReservationLedger, seats *SeatStateMachine, clk clock.Clock, log *slog.Logger, opts ...ReclaimerOption) *ExpiryReclaimer {
	r := &ExpiryReclaimer{
		ledger:    ledger,
		seats:     seats,
		clock:     clk,
		log:       log,
		batchSize: 100,
		interval:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type ReclaimerOption func(*ExpiryReclaimer)

func WithBatchSize(n int) ReclaimerOption {
	return func(r *ExpiryReclaimer) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithInterval(d time.Duration) ReclaimerOption {
	return func(r *ExpiryReclaimer) {
		if d > 0 {
			r.interval = d
		}
	}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (r *ExpiryReclaimer) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("reclaimer stopping")
			return nil
		case <-t.C:
			released, err := r.RunOnce(ctx)
			if err != nil {
				r.log.Error("reclaim cycle failed", "err", err)
				continue
			}
			if released > 0 {
				r.log.Info("reclaimed expired holds", "released", released)
			}
		}
	}
}

// RunOnce performs a single sweep: list timed-out reservations, expire each
// and release its seat. Returns how many seats were released.
func (r *ExpiryReclaimer) RunOnce(ctx context.Context) (int, error) {
	expired, err := r.ledger.ListExpired(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, res := range expired {
		if err := r.ledger.Expire(ctx, res.ID); err != nil {
			if isLostRace(err) {
				// A purchase settled the reservation between the scan and
				// this write. The purchase won.
				r.log.Debug("reservation already settled", "reservation_id", res.ID)
				continue
			}
			r.log.Error("expire reservation failed", "reservation_id", res.ID, "err", err)
			continue
		}
		if _, err := r.seats.ReleaseHold(ctx, res.SeatID); err != nil {
			if isLostRace(err) {
				r.log.Debug("seat moved on before release", "seat_id", res.SeatID)
				continue
			}
			r.log.Error("release seat failed", "seat_id", res.SeatID, "err", err)
			continue
		}
		released++
	}
	return released, nil
}

func isLostRace(err error) bool {
	return errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrSeatNotHeld) ||
		errors.Is(err, domain.ErrVersionConflict)
}
