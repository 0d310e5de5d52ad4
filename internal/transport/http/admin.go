package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/app"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
	"github.com/go-chi/chi/v5"
)

// CatalogAdmin is the slice of the catalog service the admin handlers need.
type CatalogAdmin interface {
	CreateConcert(ctx context.Context, in app.CreateConcertInput) (domain.Concert, error)
	AddSeat(ctx context.Context, in app.AddSeatInput) (domain.Seat, error)
	ListSeats(ctx context.Context, concertID string) ([]domain.Seat, error)
}

type createConcertRequest struct {
	Name     string     `json:"name"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
}

type concertView struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"starts_at"`
}

// HandleCreateConcert returns the handler for POST /admin/concerts.
func HandleCreateConcert(svc CatalogAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createConcertRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		concert, err := svc.CreateConcert(r.Context(), app.CreateConcertInput{
			Name:     req.Name,
			StartsAt: req.StartsAt,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, concertView{
			ID:       concert.ID,
			Name:     concert.Name,
			StartsAt: concert.StartsAt,
		})
	}
}

type addSeatRequest struct {
	Label      string `json:"label"`
	PriceCents int64  `json:"price_cents"`
}

// HandleAddSeat returns the handler for POST /admin/concerts/{concertID}/seats.
func HandleAddSeat(svc CatalogAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addSeatRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		seat, err := svc.AddSeat(r.Context(), app.AddSeatInput{
			ConcertID:  chi.URLParam(r, "concertID"),
			Label:      req.Label,
			PriceCents: req.PriceCents,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newSeatView(seat))
	}
}

// HandleListSeats returns the handler for GET /admin/concerts/{concertID}/seats.
func HandleListSeats(svc CatalogAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seats, err := svc.ListSeats(r.Context(), chi.URLParam(r, "concertID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		views := make([]seatView, 0, len(seats))
		for _, s := range seats {
			views = append(views, newSeatView(s))
		}
		writeJSON(w, http.StatusOK, views)
	}
}
