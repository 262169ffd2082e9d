// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// WatchlistEntry is a saved (user, movie) pair. The pair is unique.
type WatchlistEntry struct {
	UserID  string    `json:"-"`
	MovieID string    `json:"movieId"`
	AddedAt time.Time `json:"addedAt"`

	// Movie is filled in by the service layer when the catalog lookup
	// succeeds; it is nil otherwise.
	Movie *Movie `json:"movie,omitempty"`
}

// TableName returns the name of the database table
// associated with the WatchlistEntry model.
func (w WatchlistEntry) TableName() string {
	return "watchlist"
}
