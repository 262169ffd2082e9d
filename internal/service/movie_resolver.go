package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-screenly/internal/adapter"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/metrics"
	"github.com/MKhiriev/go-screenly/internal/store"
	"github.com/MKhiriev/go-screenly/models"
)

// movieResolver looks a single movie up in the upstream catalog and in the
// local movies table.
type movieResolver struct {
	catalog adapter.CatalogAdapter
	movies  store.MovieRepository
	metrics *metrics.Metrics
}

// parseMovieID accepts positive decimal catalog ids only.
func parseMovieID(movieID string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(movieID), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidMovieID
	}
	return id, nil
}

// upstreamFirst asks the catalog and falls back to the local table when the
// catalog fails for any reason.
func (r movieResolver) upstreamFirst(ctx context.Context, id int64) (models.Movie, error) {
	movie, err := r.catalog.Details(ctx, id)
	if err == nil {
		return movie, nil
	}

	local, localErr := r.movies.FindMovieByID(ctx, strconv.FormatInt(id, 10))
	if localErr == nil {
		logger.FromContext(ctx).Debug().Err(err).Int64("movie_id", id).Msg("movie served from local catalog")
		r.metrics.ObserveCatalogFallback("details")
		return local, nil
	}
	if !errors.Is(localErr, store.ErrMovieNotFound) {
		logger.FromContext(ctx).Err(localErr).Int64("movie_id", id).Msg("local movie lookup failed")
	}

	return models.Movie{}, catalogError("details", err)
}

// localFirst reads the local table and asks the catalog only for movies it
// does not hold.
func (r movieResolver) localFirst(ctx context.Context, movieID string) (models.Movie, error) {
	movie, err := r.movies.FindMovieByID(ctx, movieID)
	if err == nil {
		return movie, nil
	}
	if !errors.Is(err, store.ErrMovieNotFound) {
		return models.Movie{}, fmt.Errorf("local movie lookup failed: %w", err)
	}

	id, err := parseMovieID(movieID)
	if err != nil {
		return models.Movie{}, ErrMovieNotFound
	}

	movie, err = r.catalog.Details(ctx, id)
	if err != nil {
		return models.Movie{}, catalogError("details", err)
	}
	return movie, nil
}

// catalogError maps adapter failures to service errors.
func catalogError(operation string, err error) error {
	if errors.Is(err, adapter.ErrNotFound) {
		return ErrMovieNotFound
	}
	return fmt.Errorf("%w: %s: %w", ErrCatalogUnavailable, operation, err)
}

// without drops the movie with id and keeps at most limit movies.
func without(movies []models.Movie, id string, limit int) []models.Movie {
	result := make([]models.Movie, 0, min(len(movies), limit))
	for _, m := range movies {
		if len(result) == limit {
			break
		}
		if m.ID == id {
			continue
		}
		result = append(result, m)
	}
	return result
}
