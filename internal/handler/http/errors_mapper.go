package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-screenly/internal/app"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/service"
	"github.com/MKhiriev/go-screenly/internal/utils"
	"github.com/MKhiriev/go-screenly/internal/validators"
)

// errorStatus binds a sentinel to the status and body returned for it.
// An empty message means the error text itself is shown.
type errorStatus struct {
	target  error
	status  int
	message string
}

// errorStatuses is checked in order; the first match wins.
var errorStatuses = []errorStatus{
	{target: ErrInvalidJSON, status: http.StatusBadRequest, message: app.MsgInvalidJSON},

	{target: service.ErrUnauthorized, status: http.StatusUnauthorized, message: app.MsgUnauthorized},
	{target: service.ErrTokenIsExpiredOrInvalid, status: http.StatusUnauthorized, message: app.MsgUnauthorized},
	{target: service.ErrInvalidCredentials, status: http.StatusUnauthorized, message: app.MsgInvalidCredentials},
	{target: service.ErrEmailAlreadyRegistered, status: http.StatusConflict, message: app.MsgEmailAlreadyRegistered},

	{target: service.ErrResetTokenNotFound, status: http.StatusBadRequest, message: app.MsgInvalidResetToken},
	{target: service.ErrResetTokenExpired, status: http.StatusBadRequest, message: app.MsgResetTokenExpired},
	{target: service.ErrResetTokenAlreadyUsed, status: http.StatusBadRequest, message: app.MsgResetTokenAlreadyUsed},

	{target: service.ErrInvalidMovieID, status: http.StatusBadRequest, message: app.MsgInvalidMovieID},
	{target: service.ErrMovieNotFound, status: http.StatusNotFound, message: app.MsgMovieNotFound},
	{target: service.ErrCatalogUnavailable, status: http.StatusBadGateway, message: app.MsgCatalogUnavailable},
}

// statusFromError resolves the HTTP status and client-facing message for err.
// Validation errors expose their own text; unknown errors become a generic
// 500.
func statusFromError(err error) (int, string) {
	var validationErr *validators.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Error()
	}
	if errors.Is(err, service.ErrValidation) {
		return http.StatusBadRequest, app.MsgInvalidRequest
	}

	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status, e.message
		}
	}
	return http.StatusInternalServerError, app.MsgInternalServerError
}

// writeError logs err and writes the mapped JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := logger.FromRequest(r)
	status, message := statusFromError(err)

	switch {
	case status >= http.StatusInternalServerError:
		log.Error().Err(err).Int("status", status).Msg(msg)
	case status == http.StatusUnauthorized || status == http.StatusNotFound:
		log.Debug().Err(err).Int("status", status).Msg(msg)
	default:
		log.Info().Err(err).Int("status", status).Msg(msg)
	}

	utils.WriteError(w, message, status)
}
