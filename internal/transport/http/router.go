package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Services carries everything the router needs wired in.
type Services struct {
	Holds     HoldService
	Purchases PurchaseService
	Payments  PaymentCallbackService
	Catalog   CatalogAdmin
	Logger    *slog.Logger
}

// NewRouter assembles the HTTP surface of the engine.
func NewRouter(svcs Services) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(svcs.Logger))

	r.Get("/health", HealthHandler)

	r.Post("/holds", HandleCreateHold(svcs.Holds))
	r.Get("/holds/{reservationID}", HandleGetHold(svcs.Holds))
	r.Delete("/holds/{reservationID}", HandleReleaseHold(svcs.Holds))

	r.Post("/purchases", HandlePurchase(svcs.Purchases))
	r.Get("/orders/{orderID}", HandleGetOrder(svcs.Purchases))
	r.Post("/orders/{orderID}/cancel", HandleCancelOrder(svcs.Purchases))
	r.Post("/orders/{orderID}/refund", HandleRefundOrder(svcs.Purchases))

	r.Post("/internal/payments/{orderID}/complete", HandleCompletePayment(svcs.Payments))
	r.Post("/internal/payments/{orderID}/fail", HandleFailPayment(svcs.Payments))

	r.Post("/admin/concerts", HandleCreateConcert(svcs.Catalog))
	r.Post("/admin/concerts/{concertID}/seats", HandleAddSeat(svcs.Catalog))
	r.Get("/admin/concerts/{concertID}/seats", HandleListSeats(svcs.Catalog))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})

	return r
}
