package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"stylesync/internal/auth"
	"stylesync/internal/entities"
)

type StaffAPI interface {
	Schedule(ctx context.Context, userID int64) ([]entities.DaySchedule, error)
	Availability(ctx context.Context, userID int64) ([]entities.AvailabilityEntry, error)
	ReplaceAvailability(ctx context.Context, userID int64, entries []entities.AvailabilityEntry) ([]entities.AvailabilityEntry, error)
}

type StaffHandler struct {
	svc StaffAPI
	log zerolog.Logger
}

func NewStaffHandler(svc StaffAPI, log zerolog.Logger) *StaffHandler {
	return &StaffHandler{svc: svc, log: log}
}

func (h *StaffHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())
	res, err := h.svc.Schedule(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *StaffHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())
	res, err := h.svc.Availability(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityRequest{Availability: res})
}

func (h *StaffHandler) ReplaceAvailability(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())
	var req AvailabilityRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	res, err := h.svc.ReplaceAvailability(r.Context(), p.UserID, req.Availability)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityRequest{Availability: res})
}
