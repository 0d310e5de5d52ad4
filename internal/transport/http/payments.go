package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
	"github.com/go-chi/chi/v5"
)

// PaymentCallbackService applies asynchronous gateway outcomes to orders.
type PaymentCallbackService interface {
	CompletePayment(ctx context.Context, orderID, transactionID string) (domain.Order, error)
	FailPayment(ctx context.Context, orderID, reason string) (domain.Order, error)
}

type completePaymentRequest struct {
	TransactionID string `json:"transaction_id"`
}

// HandleCompletePayment returns the handler for the internal success
// callback. A replayed callback for a settled order is answered 409.
func HandleCompletePayment(svc PaymentCallbackService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req completePaymentRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.TransactionID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "transaction_id is required")
			return
		}

		order, err := svc.CompletePayment(r.Context(), chi.URLParam(r, "orderID"), req.TransactionID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newOrderView(order))
	}
}

type failPaymentRequest struct {
	Reason string `json:"reason,omitempty"`
}

// HandleFailPayment returns the handler for the internal failure callback.
func HandleFailPayment(svc PaymentCallbackService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req failPaymentRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		order, err := svc.FailPayment(r.Context(), chi.URLParam(r, "orderID"), req.Reason)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newOrderView(order))
	}
}
