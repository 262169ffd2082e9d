// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// PasswordResetToken is a single-use credential that allows a user to set a
// new password without knowing the old one.
//
// TokenHash holds the keyed digest of the opaque value that was sent to the
// user; the opaque value itself is never stored.
type PasswordResetToken struct {
	ID        string    `json:"-"`
	TokenHash string    `json:"-"`
	UserID    string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the PasswordResetToken model.
func (t PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// IsExpired reports whether the token expiry lies strictly before now.
func (t PasswordResetToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
