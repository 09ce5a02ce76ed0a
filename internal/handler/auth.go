package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/habinote/habinote-go/internal/middleware"
	"github.com/habinote/habinote-go/internal/model"
	"github.com/habinote/habinote-go/internal/service"
)

const (
	msgRegisterSuccess    = "Registrasi berhasil!"
	msgLoginSuccess       = "Login berhasil!"
	msgRegisterFields     = "Semua field harus diisi!"
	msgLoginFields        = "Email dan password harus diisi!"
	msgEmailTaken         = "Email sudah terdaftar!"
	msgBadCredentials     = "Email atau password salah!"
	msgUserNotFound       = "User tidak ditemukan"
	msgServerError        = "Terjadi kesalahan server"
	msgBodyTooLarge       = "Request body terlalu besar"
	msgInvalidRequestBody = "Format request tidak valid"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleRegister handles POST /api/auth/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeJSON(w, http.StatusBadRequest, errorResponse(msgRegisterFields))
		case errors.Is(err, service.ErrDuplicateEmail):
			writeJSON(w, http.StatusBadRequest, errorResponse(msgEmailTaken))
		default:
			serverError(w, r, "register", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, model.AuthResponse{
		Success: true,
		Message: msgRegisterSuccess,
		Token:   res.Token,
		User:    res.User,
	})
}

// HandleLogin handles POST /api/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeJSON(w, http.StatusBadRequest, errorResponse(msgLoginFields))
		case errors.Is(err, service.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, errorResponse(msgBadCredentials))
		default:
			serverError(w, r, "login", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, model.AuthResponse{
		Success: true,
		Message: msgLoginSuccess,
		Token:   res.Token,
		User:    res.User,
	})
}

// HandleProfile handles GET /api/auth/profile requests.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		serverError(w, r, "profile", errors.New("no verified claims in request context"))
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(msgUserNotFound))
			return
		}
		serverError(w, r, "profile", err)
		return
	}

	writeJSON(w, http.StatusOK, model.ProfileResponse{Success: true, User: profile})
}

func serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.Error(op+" failed",
		"error", err,
		"request_id", middleware.RequestIDFromContext(r.Context()),
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse(msgServerError))
}
