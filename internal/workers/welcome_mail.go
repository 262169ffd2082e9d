package workers

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MKhiriev/go-screenly/internal/events"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/notify"
)

const (
	defaultSendTimeout  = 15 * time.Second
	minReconnectBackoff = time.Second
	maxReconnectBackoff = 30 * time.Second
)

// DeliverySource yields AMQP deliveries; *events.Broker implements it.
type DeliverySource interface {
	Consume(ctx context.Context) (<-chan amqp.Delivery, error)
}

// WelcomeMailWorker sends the welcome email for every user.registered
// event. Delivery failures are logged and the message is acknowledged
// anyway; malformed messages are rejected without requeue.
type WelcomeMailWorker struct {
	source      DeliverySource
	notifier    notify.Notifier
	appURL      string
	sendTimeout time.Duration
	logger      *logger.Logger
}

func NewWelcomeMailWorker(source DeliverySource, notifier notify.Notifier, appURL string, sendTimeout time.Duration, log *logger.Logger) *WelcomeMailWorker {
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	return &WelcomeMailWorker{
		source:      source,
		notifier:    notifier,
		appURL:      appURL,
		sendTimeout: sendTimeout,
		logger:      log,
	}
}

// Run consumes until ctx is cancelled, reconnecting with exponential
// backoff whenever the delivery stream ends.
func (w *WelcomeMailWorker) Run(ctx context.Context) {
	backoff := minReconnectBackoff
	for ctx.Err() == nil {
		deliveries, err := w.source.Consume(ctx)
		if err != nil {
			w.logger.Err(err).Str("func", "*WelcomeMailWorker.Run").Dur("retry_in", backoff).Msg("failed to start consuming")
			if !sleep(ctx, backoff) {
				return
			}
			backoff = min(backoff*2, maxReconnectBackoff)
			continue
		}
		backoff = minReconnectBackoff

		if !w.consume(ctx, deliveries) {
			return
		}

		w.logger.Warn().Str("func", "*WelcomeMailWorker.Run").Msg("delivery stream closed, reconnecting")
		if !sleep(ctx, minReconnectBackoff) {
			return
		}
	}
}

// consume handles deliveries until the stream closes (true) or ctx is
// cancelled (false).
func (w *WelcomeMailWorker) consume(ctx context.Context, deliveries <-chan amqp.Delivery) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case d, ok := <-deliveries:
			if !ok {
				return true
			}
			w.handle(ctx, d)
		}
	}
}

func (w *WelcomeMailWorker) handle(ctx context.Context, d amqp.Delivery) {
	log := w.logger.With().Str("func", "*WelcomeMailWorker.handle").Str("message_id", d.MessageId).Logger()

	event, err := events.DecodeUserRegistered(d.Body)
	if err != nil {
		log.Err(err).Msg("rejecting malformed event")
		_ = d.Nack(false, false)
		return
	}

	msg, err := notify.WelcomeEmail(event.Email, event.Name, w.appURL)
	if err != nil {
		log.Err(err).Msg("failed to render welcome email")
		_ = d.Nack(false, false)
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.sendTimeout)
	defer cancel()

	if err = w.notifier.Send(sendCtx, msg); err != nil {
		log.Err(err).Str("user_id", event.UserID).Msg("failed to send welcome email")
	} else {
		log.Info().Str("user_id", event.UserID).Msg("welcome email sent")
	}

	_ = d.Ack(false)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
