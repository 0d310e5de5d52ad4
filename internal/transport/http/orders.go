package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/app"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
	"github.com/go-chi/chi/v5"
)

// PurchaseService is the slice of the order payment saga the order handlers
// need.
type PurchaseService interface {
	Purchase(ctx context.Context, in app.PurchaseInput) (domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	Cancel(ctx context.Context, orderID string) (domain.Order, error)
	Refund(ctx context.Context, orderID string) (domain.Order, error)
}

type purchaseRequest struct {
	ReservationID string `json:"reservation_id"`
	UserID        string `json:"user_id"`
	Method        string `json:"method,omitempty"`
}

// HandlePurchase returns the handler for POST /purchases. On success the
// order is returned pending; the payment outcome arrives asynchronously.
func HandlePurchase(svc PurchaseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req purchaseRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.ReservationID == "" || req.UserID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidID, "reservation_id and user_id are required")
			return
		}

		order, err := svc.Purchase(r.Context(), app.PurchaseInput{
			ReservationID: req.ReservationID,
			UserID:        req.UserID,
			Method:        req.Method,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newOrderView(order))
	}
}

// HandleGetOrder returns the handler for GET /orders/{orderID}.
func HandleGetOrder(svc PurchaseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newOrderView(order))
	}
}

// HandleCancelOrder returns the handler for POST /orders/{orderID}/cancel.
func HandleCancelOrder(svc PurchaseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.Cancel(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newOrderView(order))
	}
}

// HandleRefundOrder returns the handler for POST /orders/{orderID}/refund.
func HandleRefundOrder(svc PurchaseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.Refund(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newOrderView(order))
	}
}
