package models

import "time"

// UserRegisteredEvent is published after a successful registration and
// consumed by the welcome mail worker.
type UserRegisteredEvent struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registeredAt"`
}
