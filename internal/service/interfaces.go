package service

import (
	"context"

	"github.com/MKhiriev/go-screenly/models"
)

// AuthService registers accounts and issues session tokens.
type AuthService interface {
	RegisterUser(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// PasswordResetService issues and consumes single-use reset tokens.
type PasswordResetService interface {
	// RequestReset never reveals whether email belongs to an account.
	RequestReset(ctx context.Context, email string) (models.ResetRequestResult, error)
	ConfirmReset(ctx context.Context, token, password string) (models.MessageResponse, error)
	// Wait blocks until every in-flight reset email has been handed to the
	// dispatcher or ctx is done.
	Wait(ctx context.Context) error
}

// WatchlistService manages the signed-in user's saved movies.
type WatchlistService interface {
	Add(ctx context.Context, userID, movieID string) error
	Remove(ctx context.Context, userID, movieID string) error
	Exists(ctx context.Context, userID, movieID string) (bool, error)
	List(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
}

// CatalogService browses the movie catalog.
type CatalogService interface {
	Popular(ctx context.Context, page int) ([]models.Movie, error)
	Trending(ctx context.Context, window models.TrendingWindow) ([]models.Movie, error)
	TopRated(ctx context.Context, page int) ([]models.Movie, error)
	NowPlaying(ctx context.Context, page int) ([]models.Movie, error)
	// Details reports InWatchlist only when userID is not empty.
	Details(ctx context.Context, movieID, userID string) (models.MovieDetailsResponse, error)
	Similar(ctx context.Context, movieID string) ([]models.Movie, error)
	Search(ctx context.Context, query string) ([]models.Movie, error)
}

// PlaybackService resolves the stream of a movie.
type PlaybackService interface {
	Watch(ctx context.Context, movieID string) (models.PlaybackResponse, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
