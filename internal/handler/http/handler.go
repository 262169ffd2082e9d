package http

import (
	"context"
	"time"

	"github.com/MKhiriev/go-screenly/internal/config"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/metrics"
	"github.com/MKhiriev/go-screenly/internal/service"
)

// RateLimiter counts hits per key within a window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

type Handler struct {
	services *service.Services

	// metrics backs GET /metrics and the request counters. Optional.
	metrics *metrics.Metrics

	// limiter throttles POST /auth/forgot-password. Optional.
	limiter RateLimiter

	cfg config.Server

	logger *logger.Logger
}

// Option customises a Handler.
type Option func(*Handler)

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

func WithRateLimiter(l RateLimiter) Option {
	return func(h *Handler) {
		h.limiter = l
	}
}

func NewHandler(services *service.Services, cfg config.Server, logger *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services: services,
		cfg:      cfg,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	logger.Info().
		Bool("metrics", h.metrics != nil).
		Bool("forgot_password_limiter", h.limiter != nil).
		Msg("http handler created")
	return h
}
