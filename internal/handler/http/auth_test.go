// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-screenly/internal/service"
	"github.com/MKhiriev/go-screenly/internal/validators"
	"github.com/MKhiriev/go-screenly/models"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newHandlerWithAuth builds a Handler with the given AuthService mock.
func newHandlerWithAuth(t *testing.T, auth service.AuthService) *Handler {
	t.Helper()
	svcs := testServices()
	svcs.AuthService = auth
	return newTestHandler(t, svcs)
}

func newHandlerWithReset(t *testing.T, reset service.PasswordResetService) *Handler {
	t.Helper()
	svcs := testServices()
	svcs.PasswordResetService = reset
	return newTestHandler(t, svcs)
}

// jsonBody serialises v to a JSON request body string.
func jsonBody(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

// stubToken returns a models.Token with the given signed string.
func stubToken(signed string) models.Token {
	return models.Token{SignedString: signed}
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func fieldError(message string) error {
	return fmt.Errorf("%w: %w", service.ErrValidation, &validators.ValidationError{
		Violations: []validators.FieldViolation{{Field: "password", Rule: "min", Message: message}},
	})
}

var validRegistration = models.RegisterRequest{
	Name:     "Alice",
	Email:    "alice@example.com",
	Password: "correct-horse",
}

// ─────────────────────────────────────────────
// register
// ─────────────────────────────────────────────

// TestRegister_Success verifies that a valid registration request results in
// 200 OK, {"ok":true} and an Authorization header with the issued token.
func TestRegister_Success(t *testing.T) {
	const signedToken = "signed.jwt.token"

	var received models.RegisterRequest
	auth := &mockAuthService{
		registerUserFn: func(_ context.Context, req models.RegisterRequest) (models.User, error) {
			received = req
			return models.User{UserID: testUserID, Email: req.Email}, nil
		},
		createTokenFn: func(_ context.Context, u models.User) (models.Token, error) {
			assert.Equal(t, testUserID, u.UserID)
			return stubToken(signedToken), nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(jsonBody(t, validRegistration)))
	rec := httptest.NewRecorder()

	h.register(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "Bearer "+signedToken, rec.Header().Get("Authorization"))
	assert.Equal(t, validRegistration, received)
}

func TestRegister_InvalidJSON(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{
		registerUserFn: func(context.Context, models.RegisterRequest) (models.User, error) {
			t.Fatal("service must not be called for malformed JSON")
			return models.User{}, nil
		},
	})

	for _, body := range []string{"{invalid json}", ""} {
		rec := httptest.NewRecorder()
		h.register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Equal(t, "Invalid JSON was passed", errorBody(t, rec))
	}
}

func TestRegister_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation message is shown",
			err:        fieldError("Password must be at least 8 characters"),
			wantStatus: http.StatusBadRequest,
			wantError:  "Password must be at least 8 characters",
		},
		{
			name:       "duplicate email",
			err:        fmt.Errorf("register: %w", service.ErrEmailAlreadyRegistered),
			wantStatus: http.StatusConflict,
			wantError:  "Email already registered",
		},
		{
			name:       "unexpected error is generic",
			err:        errors.New("connection refused to 10.0.0.5"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlerWithAuth(t, &mockAuthService{
				registerUserFn: func(context.Context, models.RegisterRequest) (models.User, error) {
					return models.User{}, tt.err
				},
			})

			rec := httptest.NewRecorder()
			h.register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(jsonBody(t, validRegistration))))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, errorBody(t, rec))
			assert.Empty(t, rec.Header().Get("Authorization"))
		})
	}
}

func TestRegister_CreateTokenFails(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{
		registerUserFn: func(context.Context, models.RegisterRequest) (models.User, error) {
			return models.User{UserID: testUserID}, nil
		},
		createTokenFn: func(context.Context, models.User) (models.Token, error) {
			return models.Token{}, service.ErrTokenCreationFailed
		},
	})

	rec := httptest.NewRecorder()
	h.register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(jsonBody(t, validRegistration))))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Authorization"))
}

// ─────────────────────────────────────────────
// login
// ─────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	const signedToken = "signed.jwt.token"
	expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)

	h := newHandlerWithAuth(t, &mockAuthService{
		loginFn: func(_ context.Context, req models.LoginRequest) (models.User, error) {
			assert.Equal(t, "alice@example.com", req.Email)
			assert.Equal(t, "correct-horse", req.Password)
			return models.User{UserID: testUserID}, nil
		},
		createTokenFn: func(context.Context, models.User) (models.Token, error) {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			})
			return models.Token{Token: token, SignedString: signedToken}, nil
		},
	})

	body := jsonBody(t, models.LoginRequest{Email: "alice@example.com", Password: "correct-horse"})
	rec := httptest.NewRecorder()
	h.login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"`+signedToken+`"}`, rec.Body.String())
	assert.Equal(t, "Bearer "+signedToken, rec.Header().Get("Authorization"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Equal(t, signedToken, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/", cookies[0].Path)
	assert.True(t, expiresAt.Equal(cookies[0].Expires), "cookie must expire with the token")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{
		loginFn: func(context.Context, models.LoginRequest) (models.User, error) {
			return models.User{}, service.ErrInvalidCredentials
		},
	})

	body := jsonBody(t, models.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	rec := httptest.NewRecorder()
	h.login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", errorBody(t, rec))
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogin_ValidationError(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{
		loginFn: func(context.Context, models.LoginRequest) (models.User, error) {
			return models.User{}, fieldError("Email is required")
		},
	})

	rec := httptest.NewRecorder()
	h.login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email is required", errorBody(t, rec))
}

func TestLogin_InvalidJSON(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{})

	rec := httptest.NewRecorder()
	h.login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_CreateTokenFails(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{
		loginFn: func(context.Context, models.LoginRequest) (models.User, error) {
			return models.User{UserID: testUserID}, nil
		},
		createTokenFn: func(context.Context, models.User) (models.Token, error) {
			return models.Token{}, service.ErrTokenCreationFailed
		},
	})

	rec := httptest.NewRecorder()
	h.login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.c","password":"x"}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", errorBody(t, rec))
}

// ─────────────────────────────────────────────
// forgot-password
// ─────────────────────────────────────────────

func TestForgotPassword_ReturnsServiceResult(t *testing.T) {
	tests := []struct {
		name   string
		result models.ResetRequestResult
		want   string
	}{
		{
			name:   "production hides the link",
			result: models.ResetRequestResult{Message: service.ResetRequestedMessage},
			want:   `{"message":"` + service.ResetRequestedMessage + `"}`,
		},
		{
			name: "development exposes the link",
			result: models.ResetRequestResult{
				Message:   service.ResetRequestedMessage,
				ResetLink: "/auth/reset-password?token=abc",
			},
			want: `{"message":"` + service.ResetRequestedMessage + `","resetLink":"/auth/reset-password?token=abc"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotEmail string
			h := newHandlerWithReset(t, &mockPasswordResetService{
				requestResetFn: func(_ context.Context, email string) (models.ResetRequestResult, error) {
					gotEmail = email
					return tt.result, nil
				},
			})

			rec := httptest.NewRecorder()
			h.forgotPassword(rec, httptest.NewRequest(http.MethodPost, "/auth/forgot-password",
				strings.NewReader(`{"email":"alice@example.com"}`)))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
			assert.Equal(t, "alice@example.com", gotEmail)
		})
	}
}

func TestForgotPassword_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "malformed body",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid JSON was passed",
		},
		{
			name:       "missing email",
			body:       `{}`,
			err:        fieldError("Email is required"),
			wantStatus: http.StatusBadRequest,
			wantError:  "Email is required",
		},
		{
			name:       "store failure",
			body:       `{"email":"alice@example.com"}`,
			err:        errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlerWithReset(t, &mockPasswordResetService{
				requestResetFn: func(context.Context, string) (models.ResetRequestResult, error) {
					return models.ResetRequestResult{}, tt.err
				},
			})

			rec := httptest.NewRecorder()
			h.forgotPassword(rec, httptest.NewRequest(http.MethodPost, "/auth/forgot-password", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, errorBody(t, rec))
		})
	}
}

// ─────────────────────────────────────────────
// reset-password
// ─────────────────────────────────────────────

func TestResetPassword_Success(t *testing.T) {
	h := newHandlerWithReset(t, &mockPasswordResetService{
		confirmResetFn: func(_ context.Context, token, password string) (models.MessageResponse, error) {
			assert.Equal(t, "raw-token", token)
			assert.Equal(t, "new-password", password)
			return models.MessageResponse{Message: service.PasswordResetMessage}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.resetPassword(rec, httptest.NewRequest(http.MethodPost, "/auth/reset-password",
		strings.NewReader(`{"token":"raw-token","password":"new-password"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"`+service.PasswordResetMessage+`"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Authorization"), "reset must not sign the user in")
	assert.Empty(t, rec.Result().Cookies())
}

func TestResetPassword_TokenErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantError string
	}{
		{"unknown token", service.ErrResetTokenNotFound, "Invalid or expired reset token"},
		{"expired token", service.ErrResetTokenExpired, "Reset token has expired"},
		{"used token", fmt.Errorf("consume: %w", service.ErrResetTokenAlreadyUsed), "Reset token has already been used"},
		{"short password", fieldError("Password must be at least 8 characters"), "Password must be at least 8 characters"},
		{"missing fields", fieldError("Token and password are required"), "Token and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlerWithReset(t, &mockPasswordResetService{
				confirmResetFn: func(context.Context, string, string) (models.MessageResponse, error) {
					return models.MessageResponse{}, tt.err
				},
			})

			rec := httptest.NewRecorder()
			h.resetPassword(rec, httptest.NewRequest(http.MethodPost, "/auth/reset-password",
				strings.NewReader(`{"token":"t","password":"p"}`)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantError, errorBody(t, rec))
		})
	}
}

func TestResetPassword_InternalError(t *testing.T) {
	h := newHandlerWithReset(t, &mockPasswordResetService{
		confirmResetFn: func(context.Context, string, string) (models.MessageResponse, error) {
			return models.MessageResponse{}, errors.New("tx aborted")
		},
	})

	rec := httptest.NewRecorder()
	h.resetPassword(rec, httptest.NewRequest(http.MethodPost, "/auth/reset-password",
		strings.NewReader(`{"token":"t","password":"long-enough"}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", errorBody(t, rec))
}

// ─────────────────────────────────────────────
// decodeJSON
// ─────────────────────────────────────────────

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	large := `{"email":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec := httptest.NewRecorder()

	var dst models.ForgotPasswordRequest
	err := decodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(large)), &dst)

	assert.ErrorIs(t, err, ErrInvalidJSON)
}
