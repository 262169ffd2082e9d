// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides outbound integrations with third-party catalog
// providers.
//
// The primary abstraction is [CatalogAdapter], which decouples the service
// layer from the TMDB REST API. The package ships an HTTP implementation
// ([NewTMDBAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrNotFound] for 404, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-screenly/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/catalog_adapter_mock.go -package=mock

// CatalogAdapter fetches movie listings and details from an upstream catalog.
// Every returned [models.Movie] is already normalised: absolute image URLs,
// joined genre names, a year, a rating rounded to one decimal and a runtime.
type CatalogAdapter interface {
	// Popular returns the given page of currently popular movies.
	Popular(ctx context.Context, page int) ([]models.Movie, error)

	// Trending returns movies trending over the day or week window.
	Trending(ctx context.Context, window models.TrendingWindow) ([]models.Movie, error)

	// TopRated returns the given page of the best rated movies.
	TopRated(ctx context.Context, page int) ([]models.Movie, error)

	// NowPlaying returns the given page of movies currently in theatres.
	NowPlaying(ctx context.Context, page int) ([]models.Movie, error)

	// Details returns a single movie including its YouTube trailer, if any.
	// Returns [ErrNotFound] (wrapped) when the upstream has no such movie.
	Details(ctx context.Context, movieID int64) (models.Movie, error)

	// Similar returns movies the upstream considers similar to movieID.
	Similar(ctx context.Context, movieID int64) ([]models.Movie, error)

	// Search runs a free-text title search.
	Search(ctx context.Context, query string, page int) ([]models.Movie, error)
}
