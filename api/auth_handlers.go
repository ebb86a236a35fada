package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"chatline/domain"
	"chatline/errors"
	"chatline/services"
)

type AuthHandler struct {
	log  *slog.Logger
	auth services.IAuthService
}

func NewAuthHandler(log *slog.Logger, auth services.IAuthService) *AuthHandler {
	return &AuthHandler{log: log, auth: auth}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID domain.UserID `json:"userId"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Token  string        `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, errors.ErrValidation)
		return
	}

	session, err := h.auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		UserID: session.UserID,
		Name:   session.Name,
		Email:  session.Email,
		Token:  session.Token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, errors.ErrValidation)
		return
	}

	session, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		UserID: session.UserID,
		Name:   session.Name,
		Email:  session.Email,
		Token:  session.Token,
	})
}
