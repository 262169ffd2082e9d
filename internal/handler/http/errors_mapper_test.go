package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-screenly/internal/service"
	"github.com/MKhiriev/go-screenly/internal/store"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"invalid json", fmt.Errorf("%w: EOF", ErrInvalidJSON), http.StatusBadRequest, "Invalid JSON was passed"},
		{"field violation", fieldError("Password must be at least 8 characters"), http.StatusBadRequest, "Password must be at least 8 characters"},
		{"bare validation", service.ErrValidation, http.StatusBadRequest, "Invalid request"},
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{"bad session", service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized, "Unauthorized"},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{"duplicate email", service.ErrEmailAlreadyRegistered, http.StatusConflict, "Email already registered"},
		{"unknown reset token", service.ErrResetTokenNotFound, http.StatusBadRequest, "Invalid or expired reset token"},
		{"expired reset token", service.ErrResetTokenExpired, http.StatusBadRequest, "Reset token has expired"},
		{"used reset token", service.ErrResetTokenAlreadyUsed, http.StatusBadRequest, "Reset token has already been used"},
		{"invalid movie id", service.ErrInvalidMovieID, http.StatusBadRequest, "Invalid movie ID"},
		{"movie not found", service.ErrMovieNotFound, http.StatusNotFound, "Movie not found"},
		{"catalog down", fmt.Errorf("%w: popular: %w", service.ErrCatalogUnavailable, errors.New("timeout")), http.StatusBadGateway, "Failed to fetch movies"},
		{"store failure", fmt.Errorf("list: %w", store.ErrExecutingQuery), http.StatusInternalServerError, "Internal server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := statusFromError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

// Detail of server errors must never reach the client.
func TestWriteError_GenericBodyFor5xx(t *testing.T) {
	rec := httptest.NewRecorder()
	req := injectNopLogger(httptest.NewRequest(http.MethodGet, "/", nil))

	writeError(rec, req, errors.New("pq: password authentication failed for user screenly"), "lookup failed")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}
