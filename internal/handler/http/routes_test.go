package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-screenly/internal/service"
	"github.com/MKhiriev/go-screenly/models"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestHandler(t, testServices()).Init()
}

func serveBody(router http.Handler, method, target, body, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ---- Public routes: reachable without a session ----

func TestInit_PublicRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/auth/register", `{}`},
		{http.MethodPost, "/auth/login", `{}`},
		{http.MethodPost, "/auth/forgot-password", `{"email":"a@b.c"}`},
		{http.MethodPost, "/auth/reset-password", `{"token":"t","password":"p"}`},
		{http.MethodGet, "/version", ""},
		{http.MethodGet, "/movies/popular", ""},
		{http.MethodGet, "/movies/trending", ""},
		{http.MethodGet, "/movies/top-rated", ""},
		{http.MethodGet, "/movies/now-playing", ""},
		{http.MethodGet, "/movies/550", ""},
		{http.MethodGet, "/movies/550/similar", ""},
		{http.MethodGet, "/search?q=x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serveBody(router, tt.method, tt.path, tt.body, "")
			assert.Equal(t, http.StatusOK, rec.Code, "route should be reachable: %s %s", tt.method, tt.path)
		})
	}
}

// ---- API routes: 401 without a session ----

func TestInit_APIRoutes_RequireAuth(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/watchlist"},
		{http.MethodDelete, "/watchlist"},
		{http.MethodGet, "/watchlist/check?movieId=550"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serveBody(router, tt.method, tt.path, `{"movieId":"550"}`, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())

			rec = serveBody(router, tt.method, tt.path, `{"movieId":"550"}`, "Bearer forged")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = serveBody(router, tt.method, tt.path, `{"movieId":"550"}`, validAuthHeader)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

// ---- Page routes: redirect to sign-in without a session ----

func TestInit_PageRoutes_RedirectToSignIn(t *testing.T) {
	router := newTestRouter(t)

	rec := serveBody(router, http.MethodGet, "/watchlist", "", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/signin?callbackUrl=%2Fwatchlist", rec.Header().Get("Location"))

	rec = serveBody(router, http.MethodGet, "/watchlist", "", validAuthHeader)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

// ---- Watchlist scenario end to end through the router ----

func TestInit_WatchlistScenario(t *testing.T) {
	services := testServices()
	saved := map[string]bool{}
	services.WatchlistService = &mockWatchlistService{
		addFn: func(_ context.Context, userID, movieID string) error {
			saved[userID+"/"+movieID] = true
			return nil
		},
		removeFn: func(_ context.Context, userID, movieID string) error {
			delete(saved, userID+"/"+movieID)
			return nil
		},
		existsFn: func(_ context.Context, userID, movieID string) (bool, error) {
			return saved[userID+"/"+movieID], nil
		},
	}
	router := newTestHandler(t, services).Init()

	check := func() string {
		rec := serveBody(router, http.MethodGet, "/watchlist/check?movieId=550", "", validAuthHeader)
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}

	require.Equal(t, http.StatusOK, serveBody(router, http.MethodPost, "/watchlist", `{"movieId":"550"}`, validAuthHeader).Code)
	require.Equal(t, http.StatusOK, serveBody(router, http.MethodPost, "/watchlist", `{"movieId":"550"}`, validAuthHeader).Code)
	assert.JSONEq(t, `{"inWatchlist":true}`, check())

	require.Equal(t, http.StatusOK, serveBody(router, http.MethodDelete, "/watchlist", `{"movieId":"550"}`, validAuthHeader).Code)
	require.Equal(t, http.StatusOK, serveBody(router, http.MethodDelete, "/watchlist", `{"movieId":"550"}`, validAuthHeader).Code)
	assert.JSONEq(t, `{"inWatchlist":false}`, check())
}

// ---- Password reset scenario through the router ----

func TestInit_PasswordResetScenario(t *testing.T) {
	services := testServices()
	consumed := false
	services.PasswordResetService = &mockPasswordResetService{
		requestResetFn: func(context.Context, string) (models.ResetRequestResult, error) {
			return models.ResetRequestResult{Message: "sent", ResetLink: "/auth/reset-password?token=abc"}, nil
		},
		confirmResetFn: func(_ context.Context, token, _ string) (models.MessageResponse, error) {
			if consumed {
				return models.MessageResponse{}, service.ErrResetTokenAlreadyUsed
			}
			consumed = true
			return models.MessageResponse{Message: "done"}, nil
		},
	}
	router := newTestHandler(t, services).Init()

	rec := serveBody(router, http.MethodPost, "/auth/forgot-password", `{"email":"alice@example.com"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"resetLink":"/auth/reset-password?token=abc"`)

	body := `{"token":"abc","password":"new-password"}`
	rec = serveBody(router, http.MethodPost, "/auth/reset-password", body, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serveBody(router, http.MethodPost, "/auth/reset-password", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Reset token has already been used"}`, rec.Body.String())
}

// ---- Unknown routes and wrong methods: 404 ----

func TestInit_UnknownRoutes_Return404(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/", "/api/version", "/movies", "/auth", "/watchlist/unknown"} {
		t.Run(path, func(t *testing.T) {
			rec := serveBody(router, http.MethodGet, path, "", validAuthHeader)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestInit_WrongMethod_Returns404NotMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/watchlist"},
		{http.MethodPatch, "/watchlist"},
		{http.MethodPost, "/version"},
		{http.MethodGet, "/auth/register"},
		{http.MethodDelete, "/movies/550"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serveBody(router, tt.method, tt.path, "", validAuthHeader)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

// ---- Trace ID header ----

func TestInit_TraceIDHeader(t *testing.T) {
	router := newTestRouter(t)

	rec := serveBody(router, http.MethodGet, "/version", "", "")
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set(traceIDHeader, "incoming-trace")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "incoming-trace", rec.Header().Get(traceIDHeader))
}
