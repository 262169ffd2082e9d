package service

import (
	"context"

	"github.com/MKhiriev/go-screenly/internal/adapter"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/metrics"
	"github.com/MKhiriev/go-screenly/internal/store"
	"github.com/MKhiriev/go-screenly/models"
)

// sampleVideos are the demo streams served for every movie.
var sampleVideos = []string{
	"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
	"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
	"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerBlazes.mp4",
	"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerEscapes.mp4",
	"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerFun.mp4",
}

type playbackService struct {
	resolver movieResolver
	logger   *logger.Logger
}

func NewPlaybackService(catalog adapter.CatalogAdapter, movies store.MovieRepository, m *metrics.Metrics,
	logger *logger.Logger) PlaybackService {
	return &playbackService{
		resolver: movieResolver{catalog: catalog, movies: movies, metrics: m},
		logger:   logger,
	}
}

// Watch returns the movie and its stream. The stream is picked from the
// sample videos by movie id, so the same movie always plays the same video.
func (s *playbackService) Watch(ctx context.Context, movieID string) (models.PlaybackResponse, error) {
	id, err := parseMovieID(movieID)
	if err != nil {
		return models.PlaybackResponse{}, err
	}

	movie, err := s.resolver.upstreamFirst(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("movie_id", id).Msg("resolving movie for playback failed")
		return models.PlaybackResponse{}, err
	}

	return models.PlaybackResponse{
		Movie:    movie,
		VideoURL: SampleVideoURL(id),
	}, nil
}

// SampleVideoURL returns the demo stream for a movie id.
func SampleVideoURL(movieID int64) string {
	return sampleVideos[movieID%int64(len(sampleVideos))]
}
