package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"stylesync/internal/auth"
	"stylesync/internal/entities"
	apperrors "stylesync/internal/errors"
	"stylesync/internal/slots"
)

type BookingAPI interface {
	ListServices(ctx context.Context) ([]entities.ServiceResponse, error)
	GetService(ctx context.Context, id int64) (*entities.ServiceResponse, error)
	ListStaffForService(ctx context.Context, serviceID int64) ([]entities.StaffResponse, error)
	AvailableSlots(ctx context.Context, serviceID, staffID int64, date slots.Date) (*entities.SlotsResponse, error)
	CreateBooking(ctx context.Context, req entities.BookingRequest) (*entities.CheckoutResponse, error)
	MyBookings(ctx context.Context, customerID int64) (*entities.MyBookings, error)
	CancelBooking(ctx context.Context, customerID, bookingID int64) (*entities.BookingResponse, error)
	BookingBySession(ctx context.Context, sessionID string) (*entities.BookingResponse, error)
	CancelBySession(ctx context.Context, sessionID string) (*entities.BookingResponse, error)
}

type UserBookingHandler struct {
	svc BookingAPI
	log zerolog.Logger
}

func NewUserBookingHandler(svc BookingAPI, log zerolog.Logger) *UserBookingHandler {
	return &UserBookingHandler{svc: svc, log: log}
}

func (h *UserBookingHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListServices(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *UserBookingHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	res, err := h.svc.GetService(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *UserBookingHandler) ListServiceStaff(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	res, err := h.svc.ListStaffForService(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Slots serves GET /api/services/{id}/slots?staff=3&date=2026-01-28.
func (h *UserBookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	serviceID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	q := r.URL.Query()
	staffID, err := strconv.ParseInt(q.Get("staff"), 10, 64)
	if err != nil || staffID <= 0 {
		writeError(w, r, h.log, apperrors.ErrBadRequest("staff query parameter is required"))
		return
	}
	date, err := slots.ParseDate(q.Get("date"))
	if err != nil {
		writeError(w, r, h.log, apperrors.ErrBadRequest("date must be YYYY-MM-DD"))
		return
	}

	res, err := h.svc.AvailableSlots(r.Context(), serviceID, staffID, date)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *UserBookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())

	var req CreateBookingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if req.Date.IsZero() {
		writeError(w, r, h.log, apperrors.ErrBadRequest("date is required"))
		return
	}

	res, err := h.svc.CreateBooking(r.Context(), entities.BookingRequest{
		CustomerID: p.UserID,
		ServiceID:  req.ServiceID,
		StaffID:    req.StaffID,
		Date:       req.Date,
		Time:       req.Time,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *UserBookingHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())
	res, err := h.svc.MyBookings(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *UserBookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	res, err := h.svc.CancelBooking(r.Context(), p.UserID, id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *UserBookingHandler) CheckoutSuccess(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, r, h.log, apperrors.ErrBadRequest("session_id required"))
		return
	}
	res, err := h.svc.BookingBySession(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *UserBookingHandler) CheckoutCancelled(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, r, h.log, apperrors.ErrBadRequest("session_id required"))
		return
	}
	res, err := h.svc.CancelBySession(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
