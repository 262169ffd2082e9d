package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-screenly/internal/adapter"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/metrics"
	"github.com/MKhiriev/go-screenly/internal/store"
	"github.com/MKhiriev/go-screenly/models"
)

// watchlistService implements WatchlistService. Membership lives in the
// watchlist table; movie data is attached on List only.
type watchlistService struct {
	watchlistRepository store.WatchlistRepository
	resolver            movieResolver
	logger              *logger.Logger
}

func NewWatchlistService(watchlistRepository store.WatchlistRepository, movies store.MovieRepository,
	catalog adapter.CatalogAdapter, m *metrics.Metrics, logger *logger.Logger) WatchlistService {
	return &watchlistService{
		watchlistRepository: watchlistRepository,
		resolver:            movieResolver{catalog: catalog, movies: movies, metrics: m},
		logger:              logger,
	}
}

// Add saves movieID for userID. Adding a saved movie again is a no-op and
// keeps the original timestamp.
func (s *watchlistService) Add(ctx context.Context, userID, movieID string) error {
	movieID, err := checkMembershipArgs(userID, movieID)
	if err != nil {
		return err
	}

	if err = s.watchlistRepository.AddEntry(ctx, models.WatchlistEntry{UserID: userID, MovieID: movieID}); err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", userID).Str("movie_id", movieID).Msg("adding to watchlist failed")
		return fmt.Errorf("adding to watchlist failed: %w", err)
	}

	return nil
}

// Remove drops movieID from the user's watchlist. Removing an absent movie
// is a no-op.
func (s *watchlistService) Remove(ctx context.Context, userID, movieID string) error {
	movieID, err := checkMembershipArgs(userID, movieID)
	if err != nil {
		return err
	}

	if err = s.watchlistRepository.RemoveEntry(ctx, userID, movieID); err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", userID).Str("movie_id", movieID).Msg("removing from watchlist failed")
		return fmt.Errorf("removing from watchlist failed: %w", err)
	}

	return nil
}

func (s *watchlistService) Exists(ctx context.Context, userID, movieID string) (bool, error) {
	movieID, err := checkMembershipArgs(userID, movieID)
	if err != nil {
		return false, err
	}

	exists, err := s.watchlistRepository.EntryExists(ctx, userID, movieID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", userID).Str("movie_id", movieID).Msg("watchlist lookup failed")
		return false, fmt.Errorf("watchlist lookup failed: %w", err)
	}

	return exists, nil
}

// List returns the user's entries, newest first. Each entry carries its
// movie when one of the catalogs knows it.
func (s *watchlistService) List(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return nil, ErrUnauthorized
	}

	entries, err := s.watchlistRepository.ListEntries(ctx, userID)
	if err != nil {
		log.Err(err).Str("user_id", userID).Msg("listing watchlist failed")
		return nil, fmt.Errorf("listing watchlist failed: %w", err)
	}

	for i := range entries {
		movie, err := s.resolver.localFirst(ctx, entries[i].MovieID)
		if err != nil {
			if !errors.Is(err, ErrMovieNotFound) {
				log.Warn().Err(err).Str("movie_id", entries[i].MovieID).Msg("watchlist movie lookup failed")
			}
			continue
		}
		entries[i].Movie = &movie
	}

	return entries, nil
}

func checkMembershipArgs(userID, movieID string) (string, error) {
	if userID == "" {
		return "", ErrUnauthorized
	}

	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return "", invalidField("movieId", "required", "movieId required")
	}

	return movieID, nil
}
