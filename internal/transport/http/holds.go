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

// HoldService is the slice of the reservation ledger the hold handlers need.
type HoldService interface {
	CreateHold(ctx context.Context, in app.CreateHoldInput) (domain.Reservation, error)
	GetHold(ctx context.Context, reservationID string) (domain.Reservation, error)
	Release(ctx context.Context, reservationID string) error
}

type createHoldRequest struct {
	SeatID     string `json:"seat_id"`
	UserID     string `json:"user_id"`
	TTLMinutes *int   `json:"ttl_minutes,omitempty"`
}

// HandleCreateHold returns the handler for POST /holds.
func HandleCreateHold(svc HoldService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createHoldRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.SeatID == "" || req.UserID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidID, "seat_id and user_id are required")
			return
		}

		var ttl time.Duration
		if req.TTLMinutes != nil {
			if *req.TTLMinutes <= 0 {
				writeError(w, http.StatusBadRequest, codeInvalidTTL, domain.ErrInvalidTTL.Error())
				return
			}
			ttl = time.Duration(*req.TTLMinutes) * time.Minute
		}

		res, err := svc.CreateHold(r.Context(), app.CreateHoldInput{
			SeatID: req.SeatID,
			UserID: req.UserID,
			TTL:    ttl,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newReservationView(res))
	}
}

// HandleGetHold returns the handler for GET /holds/{reservationID}.
func HandleGetHold(svc HoldService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.GetHold(r.Context(), chi.URLParam(r, "reservationID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newReservationView(res))
	}
}

// HandleReleaseHold returns the handler for DELETE /holds/{reservationID}.
func HandleReleaseHold(svc HoldService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Release(r.Context(), chi.URLParam(r, "reservationID")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
