package http

import (
	"net/http"

	"github.com/MKhiriev/go-screenly/internal/utils"
	"github.com/MKhiriev/go-screenly/models"
)

func (h *Handler) addToWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	var req models.WatchlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "invalid watchlist body")
		return
	}

	if err := h.services.WatchlistService.Add(ctx, userID, req.MovieID); err != nil {
		writeError(w, r, err, "adding to watchlist failed")
		return
	}

	utils.WriteJSON(w, models.OKResponse{OK: true}, http.StatusOK)
}

// removeFromWatchlist takes the movie id from the body, or from ?movieId=
// for clients that cannot send a DELETE body.
func (h *Handler) removeFromWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	req := models.WatchlistRequest{MovieID: r.URL.Query().Get("movieId")}
	if req.MovieID == "" {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err, "invalid watchlist body")
			return
		}
	}

	if err := h.services.WatchlistService.Remove(ctx, userID, req.MovieID); err != nil {
		writeError(w, r, err, "removing from watchlist failed")
		return
	}

	utils.WriteJSON(w, models.OKResponse{OK: true}, http.StatusOK)
}

func (h *Handler) checkWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	exists, err := h.services.WatchlistService.Exists(ctx, userID, r.URL.Query().Get("movieId"))
	if err != nil {
		writeError(w, r, err, "watchlist check failed")
		return
	}

	utils.WriteJSON(w, models.WatchlistCheckResponse{InWatchlist: exists}, http.StatusOK)
}

func (h *Handler) listWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	items, err := h.services.WatchlistService.List(ctx, userID)
	if err != nil {
		writeError(w, r, err, "listing watchlist failed")
		return
	}
	if items == nil {
		items = []models.WatchlistEntry{}
	}

	utils.WriteJSON(w, models.WatchlistResponse{Items: items}, http.StatusOK)
}
