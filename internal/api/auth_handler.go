package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"stylesync/internal/db"
	"stylesync/internal/service"
)

type AuthAPI interface {
	Register(ctx context.Context, in service.RegisterInput) (*db.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

type AuthHandler struct {
	svc AuthAPI
	log zerolog.Logger
}

func NewAuthHandler(svc AuthAPI, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, RegisterResponse{ID: user.ID, Email: user.Email})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: res.Token, ExpiresAt: res.ExpiresAt.Unix(), Role: res.Role})
}
