package events

import (
	"context"

	"github.com/MKhiriev/go-screenly/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/publisher_mock.go -package=mock

// Publisher publishes account events.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, event models.UserRegisteredEvent) error
}
