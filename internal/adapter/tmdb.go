package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-screenly/internal/config"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/utils"
	"github.com/MKhiriev/go-screenly/models"
)

type tmdbAdapter struct {
	client *utils.HTTPClient
	apiKey string

	logger *logger.Logger
}

// NewTMDBAdapter constructs the TMDB implementation of [CatalogAdapter].
// The base URL and request timeout come from cfg. A missing API key is not an
// error at construction time; every call then fails with [ErrNotConfigured]
// so the rest of the application keeps working.
func NewTMDBAdapter(cfg config.TMDB, logger *logger.Logger) CatalogAdapter {
	if cfg.APIKey == "" {
		logger.Warn().Msg("TMDB api key is not configured, catalog requests will fail")
	}

	client := utils.NewHTTPClient(strings.TrimRight(cfg.BaseURL, "/"), cfg.Timeout)

	return &tmdbAdapter{client: client, apiKey: cfg.APIKey, logger: logger}
}

func (t *tmdbAdapter) Popular(ctx context.Context, page int) ([]models.Movie, error) {
	return t.fetchPage(ctx, "/movie/popular", pageParams(page))
}

func (t *tmdbAdapter) Trending(ctx context.Context, window models.TrendingWindow) ([]models.Movie, error) {
	if !window.Valid() {
		return nil, fmt.Errorf("%w: unknown trending window %q", ErrBadRequest, window)
	}
	return t.fetchPage(ctx, "/trending/movie/"+string(window), nil)
}

func (t *tmdbAdapter) TopRated(ctx context.Context, page int) ([]models.Movie, error) {
	return t.fetchPage(ctx, "/movie/top_rated", pageParams(page))
}

func (t *tmdbAdapter) NowPlaying(ctx context.Context, page int) ([]models.Movie, error) {
	return t.fetchPage(ctx, "/movie/now_playing", pageParams(page))
}

func (t *tmdbAdapter) Details(ctx context.Context, movieID int64) (models.Movie, error) {
	var movie tmdbMovie
	path := "/movie/" + strconv.FormatInt(movieID, 10)
	if err := t.get(ctx, path, map[string]string{"append_to_response": "videos"}, &movie); err != nil {
		return models.Movie{}, err
	}
	return movie.toModel(), nil
}

func (t *tmdbAdapter) Similar(ctx context.Context, movieID int64) ([]models.Movie, error) {
	return t.fetchPage(ctx, "/movie/"+strconv.FormatInt(movieID, 10)+"/similar", nil)
}

func (t *tmdbAdapter) Search(ctx context.Context, query string, page int) ([]models.Movie, error) {
	params := pageParams(page)
	params["query"] = query
	return t.fetchPage(ctx, "/search/movie", params)
}

func (t *tmdbAdapter) fetchPage(ctx context.Context, path string, params map[string]string) ([]models.Movie, error) {
	var page tmdbPage
	if err := t.get(ctx, path, params, &page); err != nil {
		return nil, err
	}
	return page.movies(), nil
}

func (t *tmdbAdapter) get(ctx context.Context, path string, params map[string]string, dst any) error {
	if t.apiKey == "" {
		return ErrNotConfigured
	}

	log := logger.FromContext(ctx)

	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParam("api_key", t.apiKey).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		log.Err(err).Str("func", "*tmdbAdapter.get").Str("path", path).Msg("catalog request failed")
		return fmt.Errorf("%w: %s: %w", ErrUpstream, path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Warn().Err(err).Str("func", "*tmdbAdapter.get").Str("path", path).Int("status", resp.StatusCode()).Msg("catalog responded with error")
		return err
	}

	if err = json.Unmarshal(resp.Body(), dst); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrUpstream, path, err)
	}

	return nil
}

func pageParams(page int) map[string]string {
	if page < 1 {
		page = 1
	}
	return map[string]string{"page": strconv.Itoa(page)}
}
