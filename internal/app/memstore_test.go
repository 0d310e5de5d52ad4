package app

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
)

// memStore is an in-memory stand-in for the Postgres repositories with the
// same compare-and-swap contract on versioned writes and the same
// transactional behavior: a failed WithTx leaves no partial state behind.
type memStore struct {
	mu           sync.Mutex
	txMu         sync.Mutex
	seats        map[string]domain.Seat
	reservations map[string]domain.Reservation
	orders       map[string]domain.Order

	seatUpdateErr error
}

func newMemStore() *memStore {
	return &memStore{
		seats:        make(map[string]domain.Seat),
		reservations: make(map[string]domain.Reservation),
		orders:       make(map[string]domain.Order),
	}
}

type memTxKey struct{}

// WithTx snapshots all state and restores it when fn fails, so multi-write
// transactions are all-or-nothing like their Postgres counterparts. Nested
// calls join the enclosing transaction.
func (m *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	seats := maps.Clone(m.seats)
	reservations := maps.Clone(m.reservations)
	orders := maps.Clone(m.orders)
	m.mu.Unlock()

	if err := fn(context.WithValue(ctx, memTxKey{}, struct{}{})); err != nil {
		m.mu.Lock()
		m.seats = seats
		m.reservations = reservations
		m.orders = orders
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) addSeat(seat domain.Seat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seats[seat.ID] = seat
}

func (m *memStore) GetSeat(_ context.Context, seatID string) (domain.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seat, ok := m.seats[seatID]
	if !ok {
		return domain.Seat{}, domain.ErrSeatNotFound
	}
	return seat, nil
}

func (m *memStore) UpdateSeat(_ context.Context, seat domain.Seat, expectedVersion int64) (domain.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seatUpdateErr != nil {
		err := m.seatUpdateErr
		m.seatUpdateErr = nil
		return domain.Seat{}, err
	}
	cur, ok := m.seats[seat.ID]
	if !ok {
		return domain.Seat{}, domain.ErrSeatNotFound
	}
	if cur.Version != expectedVersion {
		return domain.Seat{}, domain.ErrVersionConflict
	}
	seat.Version = expectedVersion + 1
	m.seats[seat.ID] = seat
	return seat, nil
}

func (m *memStore) GetReservation(_ context.Context, reservationID string) (domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.reservations[reservationID]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return res, nil
}

func (m *memStore) CreateReservation(_ context.Context, res domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reservations {
		if existing.SeatID == res.SeatID && existing.Status == domain.ReservationStatusActive {
			return domain.ErrSeatUnavailable
		}
	}
	m.reservations[res.ID] = res
	return nil
}

func (m *memStore) UpdateReservation(_ context.Context, res domain.Reservation, expectedVersion int64) (domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.reservations[res.ID]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	if cur.Version != expectedVersion {
		return domain.Reservation{}, domain.ErrVersionConflict
	}
	res.Version = expectedVersion + 1
	m.reservations[res.ID] = res
	return res, nil
}

func (m *memStore) ListExpired(_ context.Context, now time.Time, limit int) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Reservation
	for _, res := range m.reservations {
		if res.Status != domain.ReservationStatusActive {
			continue
		}
		if !res.ExpiresAt.Before(now) {
			continue
		}
		out = append(out, res)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) GetOrder(_ context.Context, orderID string) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

func (m *memStore) CreateOrder(_ context.Context, order domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.orders {
		if existing.SeatID == order.SeatID && existing.Status != domain.OrderStatusCancelled {
			return domain.ErrSeatAlreadySold
		}
	}
	m.orders[order.ID] = order
	return nil
}

func (m *memStore) UpdateOrder(_ context.Context, order domain.Order, expectedVersion int64) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.orders[order.ID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if cur.Version != expectedVersion {
		return domain.Order{}, domain.ErrVersionConflict
	}
	order.Version = expectedVersion + 1
	m.orders[order.ID] = order
	return order, nil
}
