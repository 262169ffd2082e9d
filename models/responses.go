// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ResetRequestResult is returned by the forgot-password flow. ResetLink is
// only populated in development mode.
type ResetRequestResult struct {
	Message   string `json:"message"`
	ResetLink string `json:"resetLink,omitempty"`
}

// MessageResponse is a generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// OKResponse is the `{ok:true}` acknowledgement used by mutation endpoints.
type OKResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse is the body of every 4xx/5xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LoginResponse carries the signed session token.
type LoginResponse struct {
	Token string `json:"token"`
}

// WatchlistCheckResponse is the body of GET /watchlist/check.
type WatchlistCheckResponse struct {
	InWatchlist bool `json:"inWatchlist"`
}

// WatchlistResponse is the body of GET /watchlist.
type WatchlistResponse struct {
	Items []WatchlistEntry `json:"items"`
}

// MoviesResponse wraps a list of catalog movies.
type MoviesResponse struct {
	Movies []Movie `json:"movies"`
}

// MovieDetailsResponse is the body of GET /movies/{id}.
type MovieDetailsResponse struct {
	Movie       Movie   `json:"movie"`
	InWatchlist bool    `json:"inWatchlist"`
	Related     []Movie `json:"related"`
}

// PlaybackResponse is the body of GET /watch/{id}.
type PlaybackResponse struct {
	Movie    Movie  `json:"movie"`
	VideoURL string `json:"videoUrl"`
}

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Version string `json:"version"`
}
