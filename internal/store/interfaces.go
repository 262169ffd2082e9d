package store

import (
	"context"

	"github.com/MKhiriev/go-screenly/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists user accounts.
type UserRepository interface {
	// CreateUser inserts user and returns it with its generated id and
	// creation time. A taken email yields ErrEmailAlreadyExists.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// FindUserByEmail yields ErrNoUserWasFound when absent.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	// FindUserByID yields ErrNoUserWasFound when absent.
	FindUserByID(ctx context.Context, userID string) (models.User, error)
}

// ResetTokenRepository persists password reset tokens. Tokens are looked up
// by the digest stored in TokenHash, never by the raw value.
type ResetTokenRepository interface {
	// ReplaceToken deletes every token of token.UserID and inserts token,
	// atomically.
	ReplaceToken(ctx context.Context, token models.PasswordResetToken) (models.PasswordResetToken, error)
	// FindTokenByHash yields ErrResetTokenNotFound when absent.
	FindTokenByHash(ctx context.Context, tokenHash string) (models.PasswordResetToken, error)
	// DeleteToken removes a single token. Deleting an absent token is not
	// an error.
	DeleteToken(ctx context.Context, tokenID string) error
	// ConsumeToken sets the user's password hash and marks the token used
	// in one transaction. If the token is already used nothing changes and
	// ErrResetTokenAlreadyUsed is returned.
	ConsumeToken(ctx context.Context, token models.PasswordResetToken, passwordHash string) error
}

// WatchlistRepository persists (user, movie) watchlist membership.
type WatchlistRepository interface {
	// AddEntry is a no-op when the pair already exists.
	AddEntry(ctx context.Context, entry models.WatchlistEntry) error
	// RemoveEntry is a no-op when the pair does not exist.
	RemoveEntry(ctx context.Context, userID, movieID string) error
	EntryExists(ctx context.Context, userID, movieID string) (bool, error)
	// ListEntries returns the user's entries, most recently added first.
	ListEntries(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
}

// MovieRepository reads the local movie catalog.
type MovieRepository interface {
	// SearchMovies matches query case-insensitively against title,
	// description and genre, best rated first.
	SearchMovies(ctx context.Context, query string, limit uint64) ([]models.Movie, error)
	// FindMovieByID yields ErrMovieNotFound when absent.
	FindMovieByID(ctx context.Context, movieID string) (models.Movie, error)
}
