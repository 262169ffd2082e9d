package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/utils"
	"github.com/MKhiriev/go-screenly/models"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "invalid registration body")
		return
	}

	registeredUser, err := h.services.AuthService.RegisterUser(ctx, req)
	if err != nil {
		writeError(w, r, err, "user registration failed")
		return
	}

	token, err := h.services.AuthService.CreateToken(ctx, registeredUser)
	if err != nil {
		writeError(w, r, err, "creation of token failed")
		return
	}

	log.Info().Str("user_id", registeredUser.UserID).Msg("user registered")

	setSession(w, r, token)
	utils.WriteJSON(w, models.OKResponse{OK: true}, http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "invalid login body")
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, req)
	if err != nil {
		writeError(w, r, err, "user login failed")
		return
	}

	token, err := h.services.AuthService.CreateToken(ctx, foundUser)
	if err != nil {
		writeError(w, r, err, "creation of token failed")
		return
	}

	log.Debug().Str("user_id", foundUser.UserID).Msg("user successfully logged in")

	setSession(w, r, token)
	utils.WriteJSON(w, models.LoginResponse{Token: token.SignedString}, http.StatusOK)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "invalid forgot-password body")
		return
	}

	result, err := h.services.PasswordResetService.RequestReset(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err, "password reset request failed")
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "invalid reset-password body")
		return
	}

	result, err := h.services.PasswordResetService.ConfirmReset(r.Context(), req.Token, req.Password)
	if err != nil {
		writeError(w, r, err, "password reset failed")
		return
	}

	logger.FromRequest(r).Info().Msg("password was reset")
	utils.WriteJSON(w, result, http.StatusOK)
}

// setSession hands the session token back both as a header for API clients
// and as an HttpOnly cookie for page navigations.
func setSession(w http.ResponseWriter, r *http.Request, token models.Token) {
	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    token.SignedString,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	if token.Token != nil && token.Claims != nil {
		if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
			cookie.Expires = exp.Time
		}
	}
	http.SetCookie(w, cookie)
}

// decodeJSON reads a single JSON document into dst. Every failure is
// reported as ErrInvalidJSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return ErrInvalidJSON
	}

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrInvalidJSON)
		}
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}
