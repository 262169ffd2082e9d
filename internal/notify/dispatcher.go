package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-screenly/internal/config"
	"github.com/MKhiriev/go-screenly/internal/logger"
)

//go:generate mockgen -source=dispatcher.go -destination=../mock/notifier_mock.go -package=mock

// Provider is a single email delivery backend.
type Provider interface {
	// Name identifies the provider in logs and aggregated errors.
	Name() string
	// Send delivers msg or returns why it could not.
	Send(ctx context.Context, msg Message) error
}

// Notifier is what the services depend on.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher tries its providers in order; the first success wins.
type Dispatcher struct {
	providers []Provider
	logger    *logger.Logger
	observer  func(provider string, err error)
}

// NewDispatcher builds a dispatcher over providers, in priority order.
func NewDispatcher(log *logger.Logger, providers ...Provider) *Dispatcher {
	return &Dispatcher{providers: providers, logger: log}
}

// NewDispatcherFromConfig wires SendGrid first and SMTP second, skipping
// whichever is not configured.
func NewDispatcherFromConfig(cfg config.Mail, log *logger.Logger) *Dispatcher {
	var providers []Provider

	if cfg.HasSendGrid() {
		providers = append(providers, NewSendGridProvider(cfg, log))
	}
	if cfg.HasSMTP() {
		providers = append(providers, NewSMTPProvider(cfg, log))
	}

	if len(providers) == 0 {
		log.Warn().Msg("no mail provider configured, emails will only be logged")
	}

	return NewDispatcher(log, providers...)
}

// WithObserver registers fn to be called after every provider attempt.
// It is used to feed delivery metrics.
func (d *Dispatcher) WithObserver(fn func(provider string, err error)) *Dispatcher {
	d.observer = fn
	return d
}

// Providers returns the names of the configured providers, in order.
func (d *Dispatcher) Providers() []string {
	names := make([]string, 0, len(d.providers))
	for _, p := range d.providers {
		names = append(names, p.Name())
	}
	return names
}

// Send delivers msg through the first provider that accepts it. Each
// provider is attempted at most once.
func (d *Dispatcher) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return ErrNoRecipient
	}

	log := logger.FromContext(ctx)

	if len(d.providers) == 0 {
		log.Info().
			Str("func", "*Dispatcher.Send").
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Msg("no mail provider configured, message not sent")
		return nil
	}

	errs := make([]error, 0, len(d.providers))
	for _, p := range d.providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		err := p.Send(ctx, msg)
		d.observe(p.Name(), err)
		if err == nil {
			log.Info().Str("func", "*Dispatcher.Send").Str("provider", p.Name()).Msg("email sent")
			return nil
		}

		log.Warn().Err(err).Str("func", "*Dispatcher.Send").Str("provider", p.Name()).Msg("provider failed, trying next")
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
	}

	return fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(errs...))
}

func (d *Dispatcher) observe(provider string, err error) {
	if d.observer != nil {
		d.observer(provider, err)
	}
}
