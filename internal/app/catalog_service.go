package app

import (
	"context"
	"time"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/clock"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
)

type CatalogStore interface {
	CreateConcert(ctx context.Context, concert domain.Concert) error
	GetConcert(ctx context.Context, concertID string) (domain.Concert, error)
	CreateSeat(ctx context.Context, seat domain.Seat) error
	ListSeatsByConcert(ctx context.Context, concertID string) ([]domain.Seat, error)
}

// CatalogService covers the administrative side: concerts and the seats sold
// for them. Seats are created available.
type CatalogService struct {
	store CatalogStore
	clock clock.Clock
}

func NewCatalogService(store CatalogStore, clk clock.Clock) *CatalogService {
	return &CatalogService{
		store: store,
		clock: clk,
	}
}

type CreateConcertInput struct {
	Name     string
	StartsAt *time.Time
}

func (s *CatalogService) CreateConcert(ctx context.Context, in CreateConcertInput) (domain.Concert, error) {
	if in.Name == "" {
		return domain.Concert{}, domain.ErrConcertNameRequired
	}
	startsAt := s.clock.Now()
	if in.StartsAt != nil {
		startsAt = *in.StartsAt
	}

	concert := domain.Concert{
		ID:       newID(),
		Name:     in.Name,
		StartsAt: startsAt,
	}
	if err := s.store.CreateConcert(ctx, concert); err != nil {
		return domain.Concert{}, err
	}
	return concert, nil
}

type AddSeatInput struct {
	ConcertID  string
	Label      string
	PriceCents int64
}

func (s *CatalogService) AddSeat(ctx context.Context, in AddSeatInput) (domain.Seat, error) {
	if in.ConcertID == "" {
		return domain.Seat{}, domain.ErrInvalidID
	}
	if in.Label == "" {
		return domain.Seat{}, domain.ErrSeatLabelRequired
	}
	if in.PriceCents <= 0 {
		return domain.Seat{}, domain.ErrInvalidPrice
	}

	now := s.clock.Now()
	seat := domain.Seat{
		ID:         newID(),
		ConcertID:  in.ConcertID,
		Label:      in.Label,
		PriceCents: in.PriceCents,
		Status:     domain.SeatStatusAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateSeat(ctx, seat); err != nil {
		return domain.Seat{}, err
	}
	return seat, nil
}

func (s *CatalogService) ListSeats(ctx context.Context, concertID string) ([]domain.Seat, error) {
	if concertID == "" {
		return nil, domain.ErrInvalidID
	}
	if _, err := s.store.GetConcert(ctx, concertID); err != nil {
		return nil, err
	}
	return s.store.ListSeatsByConcert(ctx, concertID)
}
