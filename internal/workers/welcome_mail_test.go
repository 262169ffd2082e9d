package workers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/notify"
	"github.com/MKhiriev/go-screenly/models"
)

type ackRecorder struct {
	mu     sync.Mutex
	acks   int
	nacks  int
	requeu bool
}

func (a *ackRecorder) Ack(uint64, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks++
	return nil
}

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks++
	a.requeu = a.requeu || requeue
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	return a.Nack(0, false, requeue)
}

func (a *ackRecorder) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acks, a.nacks
}

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []notify.Message
}

func (f *fakeNotifier) Send(_ context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeNotifier) messages() []notify.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Message(nil), f.sent...)
}

type fakeSource struct {
	mu       sync.Mutex
	calls    int
	failures int
	streams  []chan amqp.Delivery
}

func (f *fakeSource) Consume(context.Context) (<-chan amqp.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("broker unavailable")
	}
	if len(f.streams) == 0 {
		return make(chan amqp.Delivery), nil
	}
	s := f.streams[0]
	f.streams = f.streams[1:]
	return s, nil
}

func delivery(t *testing.T, ack amqp.Acknowledger, event any) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestWelcomeMailWorker_SendsAndAcks(t *testing.T) {
	ack := &ackRecorder{}
	stream := make(chan amqp.Delivery, 1)
	stream <- delivery(t, ack, models.UserRegisteredEvent{UserID: "u-1", Email: "neo@example.com", Name: "Neo"})

	notifier := &fakeNotifier{}
	w := NewWelcomeMailWorker(&fakeSource{streams: []chan amqp.Delivery{stream}}, notifier, "https://screenly.test", time.Second, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	defer cancel()

	require.Eventually(t, func() bool { a, _ := ack.counts(); return a == 1 }, time.Second, 5*time.Millisecond)

	sent := notifier.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "neo@example.com", sent[0].To)
	assert.Equal(t, notify.WelcomeSubject, sent[0].Subject)
	assert.Contains(t, sent[0].Text, "Neo")
}

func TestWelcomeMailWorker_SendFailureStillAcks(t *testing.T) {
	ack := &ackRecorder{}
	stream := make(chan amqp.Delivery, 1)
	stream <- delivery(t, ack, models.UserRegisteredEvent{Email: "neo@example.com"})

	notifier := &fakeNotifier{err: notify.ErrAllProvidersFailed}
	w := NewWelcomeMailWorker(&fakeSource{streams: []chan amqp.Delivery{stream}}, notifier, "", 0, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	defer cancel()

	require.Eventually(t, func() bool { a, _ := ack.counts(); return a == 1 }, time.Second, 5*time.Millisecond)
	_, nacks := ack.counts()
	assert.Equal(t, 0, nacks)
}

func TestWelcomeMailWorker_RejectsMalformed(t *testing.T) {
	ack := &ackRecorder{}
	stream := make(chan amqp.Delivery, 1)
	stream <- amqp.Delivery{Acknowledger: ack, Body: []byte("not json")}

	notifier := &fakeNotifier{}
	w := NewWelcomeMailWorker(&fakeSource{streams: []chan amqp.Delivery{stream}}, notifier, "", time.Second, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	defer cancel()

	require.Eventually(t, func() bool { _, n := ack.counts(); return n == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, notifier.messages())
	assert.False(t, ack.requeu)
}

func TestWelcomeMailWorker_StopsWhileBackingOff(t *testing.T) {
	source := &fakeSource{failures: 100}
	w := NewWelcomeMailWorker(source, &fakeNotifier{}, "", time.Second, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.calls >= 1
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
