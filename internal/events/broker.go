// Package events publishes and consumes account events over AMQP.
//
// A single [Broker] owns the connection. Publishing reuses one channel,
// consuming opens its own. Both redial transparently when the broker
// dropped the connection.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MKhiriev/go-screenly/internal/config"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/models"
)

const consumerPrefetch = 10

// amqpChannel is the subset of *amqp.Channel the broker uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Broker is an AMQP connection bound to a single durable queue.
type Broker struct {
	url    string
	queue  string
	logger *logger.Logger

	connMu sync.Mutex
	conn   *amqp.Connection

	pubMu sync.Mutex
	pubCh amqpChannel

	// open returns a fresh channel with the queue declared.
	open func() (amqpChannel, error)
}

// NewBroker dials the broker and declares the queue.
func NewBroker(cfg config.Broker, log *logger.Logger) (*Broker, error) {
	b := &Broker{url: cfg.URL, queue: cfg.Queue, logger: log}
	b.open = b.openChannel

	ch, err := b.open()
	if err != nil {
		return nil, err
	}
	b.pubCh = ch

	log.Info().Str("queue", cfg.Queue).Msg("connected to message broker")
	return b, nil
}

// Queue returns the queue name events are routed to.
func (b *Broker) Queue() string {
	return b.queue
}

// PublishUserRegistered publishes event as a persistent JSON message. A
// failed publish drops the channel so the next call reopens it.
func (b *Broker) PublishUserRegistered(ctx context.Context, event models.UserRegisteredEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	if b.pubCh == nil {
		if b.pubCh, err = b.open(); err != nil {
			return err
		}
	}

	err = b.pubCh.PublishWithContext(ctx, "", b.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         "user.registered",
		Body:         body,
	})
	if err != nil {
		_ = b.pubCh.Close()
		b.pubCh = nil
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}

// Consume opens a dedicated channel and starts delivering messages with
// manual acknowledgement. The returned channel closes when ctx is done or
// the connection drops.
func (b *Broker) Consume(ctx context.Context) (<-chan amqp.Delivery, error) {
	ch, err := b.open()
	if err != nil {
		return nil, err
	}

	if err = ch.Qos(consumerPrefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, b.queue, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue consume: %w", err)
	}

	go func() {
		<-ctx.Done()
		_ = ch.Close()
	}()

	return deliveries, nil
}

// Close closes the publishing channel and the connection.
func (b *Broker) Close() error {
	b.pubMu.Lock()
	if b.pubCh != nil {
		_ = b.pubCh.Close()
		b.pubCh = nil
	}
	b.pubMu.Unlock()

	b.connMu.Lock()
	defer b.connMu.Unlock()
	if b.conn == nil || b.conn.IsClosed() {
		return nil
	}
	return b.conn.Close()
}

func (b *Broker) openChannel() (amqpChannel, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("channel open: %w", err)
	}

	if _, err = ch.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}

	return ch, nil
}

func (b *Broker) connection() (*amqp.Connection, error) {
	b.connMu.Lock()
	defer b.connMu.Unlock()

	if b.conn != nil && !b.conn.IsClosed() {
		return b.conn, nil
	}

	conn, err := amqp.Dial(b.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	b.conn = conn
	return conn, nil
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishUserRegistered(context.Context, models.UserRegisteredEvent) error {
	return nil
}

// ErrMalformedEvent marks a delivery whose body is not a valid event.
var ErrMalformedEvent = errors.New("malformed event")

// DecodeUserRegistered parses a delivery body published by
// PublishUserRegistered.
func DecodeUserRegistered(body []byte) (models.UserRegisteredEvent, error) {
	var event models.UserRegisteredEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return models.UserRegisteredEvent{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if event.Email == "" {
		return models.UserRegisteredEvent{}, fmt.Errorf("%w: missing email", ErrMalformedEvent)
	}
	return event, nil
}
