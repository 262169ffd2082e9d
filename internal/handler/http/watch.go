package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/utils"
)

func (h *Handler) watch(w http.ResponseWriter, r *http.Request) {
	playback, err := h.services.PlaybackService.Watch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "resolving playback failed")
		return
	}

	logger.FromRequest(r).Debug().Str("movie_id", playback.Movie.ID).Msg("playback started")
	utils.WriteJSON(w, playback, http.StatusOK)
}
