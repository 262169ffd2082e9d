package handler

import (
	"github.com/MKhiriev/go-screenly/internal/config"
	"github.com/MKhiriev/go-screenly/internal/handler/http"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger, opts ...http.Option) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, cfg, logger, opts...),
	}, nil
}
