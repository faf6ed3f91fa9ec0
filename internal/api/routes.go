package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"stylesync/internal/auth"
	"stylesync/internal/db"
)

type Handlers struct {
	Users  *UserBookingHandler
	Auth   *AuthHandler
	Staff  *StaffHandler
	Stripe *StripeWebhookHandler
	// Ping backs /healthz; nil means always healthy.
	Ping func(ctx context.Context) error
}

func NewRouter(h Handlers, jwtSecret []byte) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if h.Ping != nil {
			if err := h.Ping(req.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Public endpoints
	r.HandleFunc("/api/register", h.Auth.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/login", h.Auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/services", h.Users.ListServices).Methods(http.MethodGet)
	r.HandleFunc("/api/services/{id:[0-9]+}", h.Users.GetService).Methods(http.MethodGet)
	r.HandleFunc("/api/services/{id:[0-9]+}/staff", h.Users.ListServiceStaff).Methods(http.MethodGet)
	r.HandleFunc("/api/services/{id:[0-9]+}/slots", h.Users.Slots).Methods(http.MethodGet)
	r.HandleFunc("/api/checkout/success", h.Users.CheckoutSuccess).Methods(http.MethodGet)
	r.HandleFunc("/api/checkout/cancelled", h.Users.CheckoutCancelled).Methods(http.MethodGet)
	r.HandleFunc("/stripe/webhook", h.Stripe.HandleWebhook).Methods(http.MethodPost)

	// Customer endpoints
	customer := r.PathPrefix("/api/bookings").Subrouter()
	customer.Use(auth.RequireRole(jwtSecret, db.RoleCustomer))
	customer.HandleFunc("", h.Users.CreateBooking).Methods(http.MethodPost)
	customer.HandleFunc("", h.Users.MyBookings).Methods(http.MethodGet)
	customer.HandleFunc("/{id:[0-9]+}/cancel", h.Users.CancelBooking).Methods(http.MethodPost)

	// Staff endpoints
	staff := r.PathPrefix("/staff").Subrouter()
	staff.Use(auth.RequireRole(jwtSecret, db.RoleStaff))
	staff.HandleFunc("/schedule", h.Staff.Schedule).Methods(http.MethodGet)
	staff.HandleFunc("/availability", h.Staff.GetAvailability).Methods(http.MethodGet)
	staff.HandleFunc("/availability", h.Staff.ReplaceAvailability).Methods(http.MethodPut)

	return r
}
