package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/models"
)

type movieRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewMovieRepository(db *DB, logger *logger.Logger) MovieRepository {
	logger.Debug().Msg("creating movie repository")
	return &movieRepository{
		db:     db,
		logger: logger,
	}
}

func (r *movieRepository) SearchMovies(ctx context.Context, query string, limit uint64) ([]models.Movie, error) {
	log := logger.FromContext(ctx)

	sqlQuery, args, err := buildSearchMoviesQuery(r.db.builder(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		log.Err(err).Str("func", "*movieRepository.SearchMovies").Msg("error searching movies")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	movies := make([]models.Movie, 0, limit)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			log.Err(err).Str("func", "*movieRepository.SearchMovies").Msg("failed to scan movie row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*movieRepository.SearchMovies").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return movies, nil
}

func (r *movieRepository) FindMovieByID(ctx context.Context, movieID string) (models.Movie, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectMovieByIDQuery(r.db.builder(), movieID)
	if err != nil {
		return models.Movie{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	movie, err := scanMovie(r.db.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Movie{}, ErrMovieNotFound
	case err != nil:
		log.Err(err).Str("func", "*movieRepository.FindMovieByID").Str("movie_id", movieID).Msg("error selecting movie")
		return models.Movie{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return movie, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (models.Movie, error) {
	var (
		movie    models.Movie
		trailer  sql.NullString
		videoURL sql.NullString
	)

	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Poster,
		&movie.Backdrop,
		&trailer,
		&videoURL,
		&movie.Genre,
		&movie.Year,
		&movie.Rating,
		&movie.Duration,
		&movie.Featured,
	)
	if err != nil {
		return models.Movie{}, err
	}

	if trailer.Valid {
		movie.Trailer = &trailer.String
	}
	if videoURL.Valid {
		movie.VideoURL = &videoURL.String
	}

	return movie, nil
}
