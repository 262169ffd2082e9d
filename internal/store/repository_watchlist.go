package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/models"
)

type watchlistRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewWatchlistRepository(db *DB, logger *logger.Logger) WatchlistRepository {
	logger.Debug().Msg("creating watchlist repository")
	return &watchlistRepository{
		db:     db,
		logger: logger,
	}
}

func (r *watchlistRepository) AddEntry(ctx context.Context, entry models.WatchlistEntry) error {
	log := logger.FromContext(ctx)

	if entry.AddedAt.IsZero() {
		entry.AddedAt = utcNow()
	}
	entry.AddedAt = entry.AddedAt.UTC()

	query, args, err := buildInsertWatchlistEntryQuery(r.db.builder(), entry)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "*watchlistRepository.AddEntry").
			Str("user_id", entry.UserID).
			Str("movie_id", entry.MovieID).
			Msg("error inserting watchlist entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *watchlistRepository) RemoveEntry(ctx context.Context, userID, movieID string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteWatchlistEntryQuery(r.db.builder(), userID, movieID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "*watchlistRepository.RemoveEntry").
			Str("user_id", userID).
			Str("movie_id", movieID).
			Msg("error deleting watchlist entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *watchlistRepository) EntryExists(ctx context.Context, userID, movieID string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildWatchlistEntryExistsQuery(r.db.builder(), userID, movieID)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		log.Err(err).Str("func", "*watchlistRepository.EntryExists").Msg("error checking watchlist entry")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return true, nil
}

func (r *watchlistRepository) ListEntries(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListWatchlistQuery(r.db.builder(), userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*watchlistRepository.ListEntries").Str("user_id", userID).Msg("error listing watchlist")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.WatchlistEntry, 0, 16)
	for rows.Next() {
		var entry models.WatchlistEntry
		if err := rows.Scan(&entry.UserID, &entry.MovieID, &entry.AddedAt); err != nil {
			log.Err(err).Str("func", "*watchlistRepository.ListEntries").Msg("failed to scan watchlist row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*watchlistRepository.ListEntries").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}
