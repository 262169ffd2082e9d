package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-screenly/internal/config"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/metrics"
	"github.com/MKhiriev/go-screenly/internal/mock"
	"github.com/MKhiriev/go-screenly/internal/store"
	"github.com/MKhiriev/go-screenly/internal/validators"
	"github.com/MKhiriev/go-screenly/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

var testAppConfig = config.App{
	TokenSignKey:  "sign-key",
	TokenIssuer:   "screenly-test",
	TokenDuration: time.Hour,
}

func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (AuthService, *mock.MockUserRepository, *mock.MockPublisher, *metrics.Metrics) {
	t.Helper()
	users := mock.NewMockUserRepository(ctrl)
	publisher := mock.NewMockPublisher(ctrl)
	m := metrics.New()

	svc := NewAuthService(users, publisher, validators.NewRequestValidator(), m, testAppConfig, logger.Nop())
	return svc, users, publisher, m
}

// ── RegisterUser ─────────────────────────────────────────────────────────────

func TestAuthService_RegisterUser_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, publisher, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	gomock.InOrder(
		users.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, u models.User) (models.User, error) {
				assert.Equal(t, "alice@example.com", u.Email)
				assert.Equal(t, "Alice", u.Name)
				assert.Empty(t, u.Password)
				require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")))
				u.UserID = "u-1"
				u.CreatedAt = createdAt
				return u, nil
			},
		),
		publisher.EXPECT().PublishUserRegistered(ctx, models.UserRegisteredEvent{
			UserID:       "u-1",
			Email:        "alice@example.com",
			Name:         "Alice",
			RegisteredAt: createdAt,
		}).Return(nil),
	)

	user, err := svc.RegisterUser(ctx, models.RegisterRequest{
		Name:     " Alice ",
		Email:    " alice@example.com ",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "u-1", user.UserID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess)))
}

func TestAuthService_RegisterUser_PublishFailureIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, publisher, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	users.EXPECT().CreateUser(ctx, gomock.Any()).Return(models.User{UserID: "u-1", Email: "a@b.co"}, nil)
	publisher.EXPECT().PublishUserRegistered(ctx, gomock.Any()).Return(errors.New("broker down"))

	_, err := svc.RegisterUser(ctx, models.RegisterRequest{Email: "a@b.co", Password: "password123"})
	require.NoError(t, err)
}

func TestAuthService_RegisterUser_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.RegisterRequest
	}{
		{name: "missing email", req: models.RegisterRequest{Password: "password123"}},
		{name: "malformed email", req: models.RegisterRequest{Email: "not-an-email", Password: "password123"}},
		{name: "missing password", req: models.RegisterRequest{Email: "a@b.co"}},
		{name: "short password", req: models.RegisterRequest{Email: "a@b.co", Password: "1234567"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, _, _, m := newTestAuthSvc(t, ctrl)

			_, err := svc.RegisterUser(context.Background(), tt.req)

			require.ErrorIs(t, err, ErrValidation)
			var verr *validators.ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues(metrics.ResultFailure)))
		})
	}
}

func TestAuthService_RegisterUser_DuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	users.EXPECT().CreateUser(ctx, gomock.Any()).Return(models.User{}, store.ErrEmailAlreadyExists)

	_, err := svc.RegisterUser(ctx, models.RegisterRequest{Email: "a@b.co", Password: "password123"})
	require.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestAuthService_RegisterUser_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	users.EXPECT().CreateUser(ctx, gomock.Any()).Return(models.User{}, store.ErrExecutingStatement)

	_, err := svc.RegisterUser(ctx, models.RegisterRequest{Email: "a@b.co", Password: "password123"})
	require.ErrorIs(t, err, store.ErrExecutingStatement)
	assert.NotErrorIs(t, err, ErrEmailAlreadyRegistered)
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := models.User{UserID: "u-1", Email: "a@b.co", PasswordHash: string(hash)}

	tests := []struct {
		name     string
		password string
		found    models.User
		findErr  error
		wantErr  error
	}{
		{name: "success", password: "password123", found: stored},
		{name: "wrong password", password: "password124", found: stored, wantErr: ErrInvalidCredentials},
		{name: "unknown email", password: "password123", findErr: store.ErrNoUserWasFound, wantErr: ErrInvalidCredentials},
		{name: "storage failure", password: "password123", findErr: store.ErrExecutingQuery, wantErr: store.ErrExecutingQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, users, _, m := newTestAuthSvc(t, ctrl)
			ctx := context.Background()

			users.EXPECT().FindUserByEmail(ctx, "a@b.co").Return(tt.found, tt.findErr)

			user, err := svc.Login(ctx, models.LoginRequest{Email: "a@b.co", Password: tt.password})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues(metrics.ResultFailure)))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u-1", user.UserID)
		})
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "a@b.co"})
	require.ErrorIs(t, err, ErrValidation)
}

// ── Tokens ───────────────────────────────────────────────────────────────────

func TestAuthService_CreateAndParseToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	token, err := svc.CreateToken(ctx, models.User{UserID: "u-1"})
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	userID, err := parsed.GetUserID()
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
}

func TestAuthService_CreateToken_NoUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.CreateToken(context.Background(), models.User{})
	require.ErrorIs(t, err, ErrTokenCreationFailed)
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	other := NewAuthService(nil, nil, validators.NewRequestValidator(), nil, config.App{
		TokenSignKey:  "another-key",
		TokenIssuer:   "screenly-test",
		TokenDuration: time.Hour,
	}, logger.Nop())
	foreign, err := other.CreateToken(ctx, models.User{UserID: "u-1"})
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"garbage":      "not.a.jwt",
		"foreign key":  foreign.SignedString,
		"empty string": "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseToken(ctx, raw)
			require.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
		})
	}
}
