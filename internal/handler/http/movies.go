package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-screenly/internal/utils"
	"github.com/MKhiriev/go-screenly/models"
)

// pageFromRequest reads ?page=, defaulting to 1 for missing or malformed
// values.
func pageFromRequest(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

type pagedListing func(ctx context.Context, page int) ([]models.Movie, error)

func (h *Handler) writeListing(w http.ResponseWriter, r *http.Request, list pagedListing, name string) {
	movies, err := list(r.Context(), pageFromRequest(r))
	if err != nil {
		writeError(w, r, err, "fetching "+name+" movies failed")
		return
	}
	writeMovies(w, movies)
}

func (h *Handler) popularMovies(w http.ResponseWriter, r *http.Request) {
	h.writeListing(w, r, h.services.CatalogService.Popular, "popular")
}

func (h *Handler) topRatedMovies(w http.ResponseWriter, r *http.Request) {
	h.writeListing(w, r, h.services.CatalogService.TopRated, "top rated")
}

func (h *Handler) nowPlayingMovies(w http.ResponseWriter, r *http.Request) {
	h.writeListing(w, r, h.services.CatalogService.NowPlaying, "now playing")
}

func (h *Handler) trendingMovies(w http.ResponseWriter, r *http.Request) {
	window := models.TrendingWindow(r.URL.Query().Get("window"))

	movies, err := h.services.CatalogService.Trending(r.Context(), window)
	if err != nil {
		writeError(w, r, err, "fetching trending movies failed")
		return
	}
	writeMovies(w, movies)
}

func (h *Handler) movieDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	details, err := h.services.CatalogService.Details(ctx, chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, r, err, "fetching movie details failed")
		return
	}
	if details.Related == nil {
		details.Related = []models.Movie{}
	}

	utils.WriteJSON(w, details, http.StatusOK)
}

func (h *Handler) similarMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.services.CatalogService.Similar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "fetching similar movies failed")
		return
	}
	writeMovies(w, movies)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	movies, err := h.services.CatalogService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err, "search failed")
		return
	}
	writeMovies(w, movies)
}

func writeMovies(w http.ResponseWriter, movies []models.Movie) {
	if movies == nil {
		movies = []models.Movie{}
	}
	utils.WriteJSON(w, models.MoviesResponse{Movies: movies}, http.StatusOK)
}
