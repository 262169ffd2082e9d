// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// User represents a registered account.
// PasswordHash is a bcrypt digest and must never leave the server.
type User struct {
	// UserID is the server-assigned identifier (UUIDv7 string).
	UserID string `json:"id"`

	// Email is the unique sign-in identifier.
	Email string `json:"email"`

	// Name is the optional display name shown in the UI.
	Name string `json:"name"`

	// Password carries the plain-text password on inbound requests only.
	// It is never persisted and never serialised in responses.
	Password string `json:"password,omitempty"`

	// PasswordHash is the bcrypt digest stored in the users table.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
