package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MKhiriev/go-screenly/internal/app"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/utils"
)

// sessionCookieName carries the session token for browser navigations,
// which cannot set an Authorization header.
const sessionCookieName = "screenly_session"

const signInPath = "/auth/signin"

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It reads the bearer token from the "Authorization" header (or the session
// cookie), validates it via [service.AuthService.ParseToken], and on success
// stores the user's ID in the request context under [utils.UserIDCtxKey].
// Anything else is rejected with 401 Unauthorized.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := h.authenticate(r)
		if err != nil {
			logger.FromRequest(r).Debug().Err(err).Msg("unauthorized request")
			utils.WriteError(w, app.MsgUnauthorized, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalAuth attaches the user ID when the request carries a valid
// session and lets every request through.
func (h *Handler) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := h.authenticate(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authOrRedirect is auth for page routes: anonymous callers are sent to the
// sign-in page with a callback to the requested page.
func (h *Handler) authOrRedirect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := h.authenticate(r)
		if err != nil {
			logger.FromRequest(r).Debug().Err(err).Str("uri", r.RequestURI).Msg("redirecting to sign-in")
			http.Redirect(w, r, signInURL(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate returns the request context extended with the session's
// user ID.
func (h *Handler) authenticate(r *http.Request) (context.Context, error) {
	tokenString, err := getTokenFromRequest(r)
	if err != nil {
		return nil, err
	}

	ctx := r.Context()
	token, err := h.services.AuthService.ParseToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := token.GetUserID()
	if err != nil {
		return nil, err
	}

	return utils.WithUserID(ctx, userID), nil
}

// getTokenFromRequest prefers the "Authorization" header and falls back to
// the session cookie.
func getTokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidAuthorizationHeader, err)
		}
		return tokenString, nil
	}

	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", ErrEmptyAuthorizationHeader
}

func signInURL(callback string) string {
	return signInPath + "?" + url.Values{"callbackUrl": {callback}}.Encode()
}
