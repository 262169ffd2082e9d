package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-screenly/internal/adapter"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/metrics"
	"github.com/MKhiriev/go-screenly/internal/store"
	"github.com/MKhiriev/go-screenly/models"
)

const (
	relatedMoviesLimit = 12
	similarMoviesLimit = 6
	localSearchLimit   = 20
)

type catalogService struct {
	// catalog is the upstream TMDB adapter.
	catalog adapter.CatalogAdapter

	// movies is the local catalog searched before the upstream.
	movies store.MovieRepository

	// watchlist answers the inWatchlist flag of movie details.
	watchlist store.WatchlistRepository

	resolver movieResolver
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewCatalogService(catalog adapter.CatalogAdapter, movies store.MovieRepository, watchlist store.WatchlistRepository,
	m *metrics.Metrics, logger *logger.Logger) CatalogService {
	return &catalogService{
		catalog:   catalog,
		movies:    movies,
		watchlist: watchlist,
		resolver:  movieResolver{catalog: catalog, movies: movies, metrics: m},
		metrics:   m,
		logger:    logger,
	}
}

func (s *catalogService) Popular(ctx context.Context, page int) ([]models.Movie, error) {
	movies, err := s.catalog.Popular(ctx, page)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int("page", page).Msg("fetching popular movies failed")
		return nil, catalogError("popular", err)
	}
	return movies, nil
}

// Trending defaults to the weekly window.
func (s *catalogService) Trending(ctx context.Context, window models.TrendingWindow) ([]models.Movie, error) {
	if window == "" {
		window = models.TrendingWeek
	}
	if !window.Valid() {
		return nil, invalidField("window", "oneof", "window must be day or week")
	}

	movies, err := s.catalog.Trending(ctx, window)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("window", string(window)).Msg("fetching trending movies failed")
		return nil, catalogError("trending", err)
	}
	return movies, nil
}

func (s *catalogService) TopRated(ctx context.Context, page int) ([]models.Movie, error) {
	movies, err := s.catalog.TopRated(ctx, page)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int("page", page).Msg("fetching top rated movies failed")
		return nil, catalogError("top_rated", err)
	}
	return movies, nil
}

func (s *catalogService) NowPlaying(ctx context.Context, page int) ([]models.Movie, error) {
	movies, err := s.catalog.NowPlaying(ctx, page)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int("page", page).Msg("fetching now playing movies failed")
		return nil, catalogError("now_playing", err)
	}
	return movies, nil
}

// Details returns the movie, whether the user saved it and up to 12
// popular movies other than this one. Failures of the related list and the
// watchlist lookup are logged and leave those parts empty.
func (s *catalogService) Details(ctx context.Context, movieID, userID string) (models.MovieDetailsResponse, error) {
	log := logger.FromContext(ctx)

	id, err := parseMovieID(movieID)
	if err != nil {
		return models.MovieDetailsResponse{}, err
	}

	movie, err := s.resolver.upstreamFirst(ctx, id)
	if err != nil {
		log.Err(err).Int64("movie_id", id).Msg("fetching movie details failed")
		return models.MovieDetailsResponse{}, err
	}

	resp := models.MovieDetailsResponse{Movie: movie, Related: []models.Movie{}}

	popular, err := s.catalog.Popular(ctx, 1)
	if err != nil {
		log.Warn().Err(err).Msg("fetching related movies failed")
	} else {
		resp.Related = without(popular, strconv.FormatInt(id, 10), relatedMoviesLimit)
	}

	if userID != "" {
		inWatchlist, err := s.watchlist.EntryExists(ctx, userID, movie.ID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("watchlist lookup failed")
		}
		resp.InWatchlist = inWatchlist
	}

	return resp, nil
}

// Similar returns up to 6 movies similar to movieID. When the upstream
// cannot answer, popular movies other than movieID are returned instead.
func (s *catalogService) Similar(ctx context.Context, movieID string) ([]models.Movie, error) {
	log := logger.FromContext(ctx)

	id, err := parseMovieID(movieID)
	if err != nil {
		return nil, err
	}

	similar, err := s.catalog.Similar(ctx, id)
	if err == nil {
		return without(similar, "", similarMoviesLimit), nil
	}
	log.Warn().Err(err).Int64("movie_id", id).Msg("fetching similar movies failed, falling back to popular")
	s.metrics.ObserveCatalogFallback("similar")

	popular, err := s.catalog.Popular(ctx, 1)
	if err != nil {
		log.Err(err).Msg("similar movies fallback failed")
		return nil, fmt.Errorf("similar movies fallback failed: %w", err)
	}

	return without(popular, strconv.FormatInt(id, 10), similarMoviesLimit), nil
}

// Search looks in the local catalog first and asks the upstream only when
// nothing matched locally.
func (s *catalogService) Search(ctx context.Context, query string) ([]models.Movie, error) {
	log := logger.FromContext(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidField("q", "required", "Query parameter is required")
	}

	local, err := s.movies.SearchMovies(ctx, query, localSearchLimit)
	if err != nil {
		log.Err(err).Str("query", query).Msg("local search failed")
		return nil, fmt.Errorf("local search failed: %w", err)
	}
	if len(local) > 0 {
		log.Debug().Int("count", len(local)).Msg("search served from local catalog")
		return local, nil
	}

	remote, err := s.catalog.Search(ctx, query, 1)
	if err != nil {
		log.Err(err).Str("query", query).Msg("upstream search failed")
		return nil, fmt.Errorf("upstream search failed: %w", err)
	}
	return remote, nil
}
