// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-screenly/internal/config"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/service"
	"github.com/MKhiriev/go-screenly/models"
)

// ─────────────────────────────────────────────
// Service mocks
// ─────────────────────────────────────────────
//
// Every mock has one function field per method. A nil field returns zero
// values so router-level tests only configure what they exercise.

type mockAuthService struct {
	registerUserFn func(ctx context.Context, req models.RegisterRequest) (models.User, error)
	loginFn        func(ctx context.Context, req models.LoginRequest) (models.User, error)
	createTokenFn  func(ctx context.Context, user models.User) (models.Token, error)
	parseTokenFn   func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) RegisterUser(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	if m.registerUserFn == nil {
		return models.User{}, nil
	}
	return m.registerUserFn(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, req models.LoginRequest) (models.User, error) {
	if m.loginFn == nil {
		return models.User{}, nil
	}
	return m.loginFn(ctx, req)
}

func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	if m.createTokenFn == nil {
		return models.Token{}, nil
	}
	return m.createTokenFn(ctx, user)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if m.parseTokenFn == nil {
		return models.Token{}, service.ErrTokenIsExpiredOrInvalid
	}
	return m.parseTokenFn(ctx, tokenString)
}

type mockPasswordResetService struct {
	requestResetFn func(ctx context.Context, email string) (models.ResetRequestResult, error)
	confirmResetFn func(ctx context.Context, token, password string) (models.MessageResponse, error)
}

func (m *mockPasswordResetService) RequestReset(ctx context.Context, email string) (models.ResetRequestResult, error) {
	if m.requestResetFn == nil {
		return models.ResetRequestResult{}, nil
	}
	return m.requestResetFn(ctx, email)
}

func (m *mockPasswordResetService) ConfirmReset(ctx context.Context, token, password string) (models.MessageResponse, error) {
	if m.confirmResetFn == nil {
		return models.MessageResponse{}, nil
	}
	return m.confirmResetFn(ctx, token, password)
}

func (m *mockPasswordResetService) Wait(context.Context) error {
	return nil
}

type mockWatchlistService struct {
	addFn    func(ctx context.Context, userID, movieID string) error
	removeFn func(ctx context.Context, userID, movieID string) error
	existsFn func(ctx context.Context, userID, movieID string) (bool, error)
	listFn   func(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
}

func (m *mockWatchlistService) Add(ctx context.Context, userID, movieID string) error {
	if m.addFn == nil {
		return nil
	}
	return m.addFn(ctx, userID, movieID)
}

func (m *mockWatchlistService) Remove(ctx context.Context, userID, movieID string) error {
	if m.removeFn == nil {
		return nil
	}
	return m.removeFn(ctx, userID, movieID)
}

func (m *mockWatchlistService) Exists(ctx context.Context, userID, movieID string) (bool, error) {
	if m.existsFn == nil {
		return false, nil
	}
	return m.existsFn(ctx, userID, movieID)
}

func (m *mockWatchlistService) List(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, userID)
}

type mockCatalogService struct {
	popularFn    func(ctx context.Context, page int) ([]models.Movie, error)
	trendingFn   func(ctx context.Context, window models.TrendingWindow) ([]models.Movie, error)
	topRatedFn   func(ctx context.Context, page int) ([]models.Movie, error)
	nowPlayingFn func(ctx context.Context, page int) ([]models.Movie, error)
	detailsFn    func(ctx context.Context, movieID, userID string) (models.MovieDetailsResponse, error)
	similarFn    func(ctx context.Context, movieID string) ([]models.Movie, error)
	searchFn     func(ctx context.Context, query string) ([]models.Movie, error)
}

func (m *mockCatalogService) Popular(ctx context.Context, page int) ([]models.Movie, error) {
	if m.popularFn == nil {
		return nil, nil
	}
	return m.popularFn(ctx, page)
}

func (m *mockCatalogService) Trending(ctx context.Context, window models.TrendingWindow) ([]models.Movie, error) {
	if m.trendingFn == nil {
		return nil, nil
	}
	return m.trendingFn(ctx, window)
}

func (m *mockCatalogService) TopRated(ctx context.Context, page int) ([]models.Movie, error) {
	if m.topRatedFn == nil {
		return nil, nil
	}
	return m.topRatedFn(ctx, page)
}

func (m *mockCatalogService) NowPlaying(ctx context.Context, page int) ([]models.Movie, error) {
	if m.nowPlayingFn == nil {
		return nil, nil
	}
	return m.nowPlayingFn(ctx, page)
}

func (m *mockCatalogService) Details(ctx context.Context, movieID, userID string) (models.MovieDetailsResponse, error) {
	if m.detailsFn == nil {
		return models.MovieDetailsResponse{}, nil
	}
	return m.detailsFn(ctx, movieID, userID)
}

func (m *mockCatalogService) Similar(ctx context.Context, movieID string) ([]models.Movie, error) {
	if m.similarFn == nil {
		return nil, nil
	}
	return m.similarFn(ctx, movieID)
}

func (m *mockCatalogService) Search(ctx context.Context, query string) ([]models.Movie, error) {
	if m.searchFn == nil {
		return nil, nil
	}
	return m.searchFn(ctx, query)
}

type mockPlaybackService struct {
	watchFn func(ctx context.Context, movieID string) (models.PlaybackResponse, error)
}

func (m *mockPlaybackService) Watch(ctx context.Context, movieID string) (models.PlaybackResponse, error) {
	if m.watchFn == nil {
		return models.PlaybackResponse{}, nil
	}
	return m.watchFn(ctx, movieID)
}

type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

// mockRateLimiter records the keys it was asked about.
type mockRateLimiter struct {
	mu      sync.Mutex
	keys    []string
	allowFn func(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

func (m *mockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	m.mu.Lock()
	m.keys = append(m.keys, key)
	m.mu.Unlock()
	if m.allowFn == nil {
		return true, 0, nil
	}
	return m.allowFn(ctx, key, limit, window)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

const (
	testUserID      = "0190b4d2-7c1e-7000-8000-000000000001"
	validTestToken  = "valid.jwt.token"
	testVersion     = "1.2.3"
	validAuthHeader = "Bearer " + validTestToken
)

// testServices returns a Services value where every service is a mock that
// accepts validTestToken as the only session.
func testServices() *service.Services {
	return &service.Services{
		AppInfoService: &mockAppInfoService{version: testVersion},
		AuthService: &mockAuthService{
			parseTokenFn: func(_ context.Context, tokenString string) (models.Token, error) {
				if tokenString != validTestToken {
					return models.Token{}, service.ErrTokenIsExpiredOrInvalid
				}
				return models.Token{UserID: testUserID}, nil
			},
		},
		PasswordResetService: &mockPasswordResetService{},
		WatchlistService:     &mockWatchlistService{},
		CatalogService:       &mockCatalogService{},
		PlaybackService:      &mockPlaybackService{},
	}
}

func newTestHandler(t *testing.T, services *service.Services, opts ...Option) *Handler {
	t.Helper()
	return NewHandler(services, config.Server{}, logger.Nop(), opts...)
}
