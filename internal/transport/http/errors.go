package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
)

const (
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidID          = "invalid_id"
	codeInvalidTTL         = "invalid_ttl"
	codeConcertName        = "concert_name_required"
	codeSeatLabel          = "seat_label_required"
	codeInvalidPrice       = "invalid_price"
	codeSeatUnavailable    = "seat_unavailable"
	codeConflict           = "conflict"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps a domain sentinel to an HTTP status and error code.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrInvalidTTL):
		writeError(w, http.StatusBadRequest, codeInvalidTTL, err.Error())
	case errors.Is(err, domain.ErrConcertNameRequired):
		writeError(w, http.StatusBadRequest, codeConcertName, err.Error())
	case errors.Is(err, domain.ErrSeatLabelRequired):
		writeError(w, http.StatusBadRequest, codeSeatLabel, err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case errors.Is(err, domain.ErrConcertNotFound),
		errors.Is(err, domain.ErrSeatNotFound),
		errors.Is(err, domain.ErrReservationNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrSeatUnavailable):
		writeError(w, http.StatusConflict, codeSeatUnavailable, err.Error())
	case errors.Is(err, domain.ErrSeatNotHeld),
		errors.Is(err, domain.ErrSeatAlreadySold),
		errors.Is(err, domain.ErrReservationMismatch),
		errors.Is(err, domain.ErrReservationNotUsable),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrVersionConflict):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
