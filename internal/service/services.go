package service

import (
	"github.com/MKhiriev/go-screenly/internal/adapter"
	"github.com/MKhiriev/go-screenly/internal/config"
	"github.com/MKhiriev/go-screenly/internal/events"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/metrics"
	"github.com/MKhiriev/go-screenly/internal/notify"
	"github.com/MKhiriev/go-screenly/internal/store"
	"github.com/MKhiriev/go-screenly/internal/validators"
)

type Services struct {
	AppInfoService       AppInfoService
	AuthService          AuthService
	PasswordResetService PasswordResetService
	WatchlistService     WatchlistService
	CatalogService       CatalogService
	PlaybackService      PlaybackService
}

// Dependencies are the outbound collaborators shared by the services.
type Dependencies struct {
	Catalog   adapter.CatalogAdapter
	Notifier  notify.Notifier
	Publisher events.Publisher
	Validator validators.Validator
	Metrics   *metrics.Metrics
}

func NewServices(storages *store.Storages, deps Dependencies, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	if deps.Validator == nil {
		deps.Validator = validators.NewRequestValidator()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewDispatcher(logger)
	}

	return &Services{
		AppInfoService: appInfoService,
		AuthService: NewAuthService(storages.UserRepository, deps.Publisher, deps.Validator,
			deps.Metrics, cfg.App, logger),
		PasswordResetService: NewPasswordResetService(storages.UserRepository, storages.ResetTokenRepository,
			deps.Notifier, deps.Metrics, cfg, logger),
		WatchlistService: NewWatchlistService(storages.WatchlistRepository, storages.MovieRepository,
			deps.Catalog, deps.Metrics, logger),
		CatalogService: NewCatalogService(deps.Catalog, storages.MovieRepository, storages.WatchlistRepository,
			deps.Metrics, logger),
		PlaybackService: NewPlaybackService(deps.Catalog, storages.MovieRepository, deps.Metrics, logger),
	}, nil
}
