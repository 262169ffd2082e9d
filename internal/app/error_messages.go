// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// Screenly HTTP handlers and middleware.
//
// All Msg* constants are the human-readable strings written into the
// "error" field of JSON response bodies. Keeping them in one place keeps the
// wording consistent across the API.
package app

const (
	// MsgInvalidJSON is returned when the request body is empty, too large
	// or not valid JSON.
	MsgInvalidJSON = "Invalid JSON was passed"

	// MsgInvalidRequest is returned for validation failures that carry no
	// field-level detail.
	MsgInvalidRequest = "Invalid request"

	// MsgUnauthorized is returned when an API route requires a session and
	// the request has none, or its token is expired or invalid.
	MsgUnauthorized = "Unauthorized"

	// MsgInvalidCredentials is returned for both an unknown email and a wrong
	// password so the two cannot be told apart.
	MsgInvalidCredentials = "Invalid email or password"

	// MsgEmailAlreadyRegistered is returned when registration hits an
	// existing account.
	MsgEmailAlreadyRegistered = "Email already registered"

	// MsgInvalidResetToken is returned when a reset token does not exist.
	MsgInvalidResetToken = "Invalid or expired reset token"

	// MsgResetTokenExpired is returned when a reset token is past its expiry.
	MsgResetTokenExpired = "Reset token has expired"

	// MsgResetTokenAlreadyUsed is returned when a reset token was consumed
	// before.
	MsgResetTokenAlreadyUsed = "Reset token has already been used"

	// MsgInvalidMovieID is returned when a movie id is not a positive integer.
	MsgInvalidMovieID = "Invalid movie ID"

	// MsgMovieNotFound is returned when neither TMDB nor the local catalog
	// knows the movie.
	MsgMovieNotFound = "Movie not found"

	// MsgCatalogUnavailable is returned when TMDB cannot be reached and no
	// fallback applies.
	MsgCatalogUnavailable = "Failed to fetch movies"

	// MsgTooManyRequests is returned by the rate limiters.
	MsgTooManyRequests = "Too many requests"

	// MsgInternalServerError is returned for every unmapped failure. Details
	// are logged, never sent.
	MsgInternalServerError = "Internal server error"
)
