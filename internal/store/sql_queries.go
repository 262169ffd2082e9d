package store

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-screenly/models"
)

var (
	userColumns       = []string{"id", "email", "name", "password_hash", "created_at"}
	resetTokenColumns = []string{"id", "token", "user_id", "expires_at", "used", "created_at"}
	watchlistColumns  = []string{"user_id", "movie_id", "added_at"}
	movieColumns      = []string{
		"id", "title", "description", "poster", "backdrop", "trailer",
		"video_url", "genre", "year", "rating", "duration", "featured",
	}
)

// likeEscaper escapes LIKE wildcards so user input is matched literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// users

func buildInsertUserQuery(sb sq.StatementBuilderType, user models.User) (string, []any, error) {
	return sb.Insert(user.TableName()).
		Columns(userColumns...).
		Values(user.UserID, user.Email, user.Name, user.PasswordHash, user.CreatedAt).
		ToSql()
}

func buildSelectUserQuery(sb sq.StatementBuilderType, where sq.Eq) (string, []any, error) {
	return sb.Select(userColumns...).
		From(models.User{}.TableName()).
		Where(where).
		Limit(1).
		ToSql()
}

func buildUpdateUserPasswordQuery(sb sq.StatementBuilderType, userID, passwordHash string) (string, []any, error) {
	return sb.Update(models.User{}.TableName()).
		Set("password_hash", passwordHash).
		Where(sq.Eq{"id": userID}).
		ToSql()
}

// password reset tokens

func buildDeleteUserResetTokensQuery(sb sq.StatementBuilderType, userID string) (string, []any, error) {
	return sb.Delete(models.PasswordResetToken{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

func buildInsertResetTokenQuery(sb sq.StatementBuilderType, token models.PasswordResetToken) (string, []any, error) {
	return sb.Insert(token.TableName()).
		Columns(resetTokenColumns...).
		Values(token.ID, token.TokenHash, token.UserID, token.ExpiresAt, token.Used, token.CreatedAt).
		ToSql()
}

func buildSelectResetTokenByHashQuery(sb sq.StatementBuilderType, tokenHash string) (string, []any, error) {
	return sb.Select(resetTokenColumns...).
		From(models.PasswordResetToken{}.TableName()).
		Where(sq.Eq{"token": tokenHash}).
		Limit(1).
		ToSql()
}

func buildDeleteResetTokenQuery(sb sq.StatementBuilderType, tokenID string) (string, []any, error) {
	return sb.Delete(models.PasswordResetToken{}.TableName()).
		Where(sq.Eq{"id": tokenID}).
		ToSql()
}

// buildMarkResetTokenUsedQuery only matches an unused token so two
// concurrent confirmations cannot both succeed.
func buildMarkResetTokenUsedQuery(sb sq.StatementBuilderType, tokenID string) (string, []any, error) {
	return sb.Update(models.PasswordResetToken{}.TableName()).
		Set("used", true).
		Where(sq.Eq{"id": tokenID, "used": false}).
		ToSql()
}

// watchlist

func buildInsertWatchlistEntryQuery(sb sq.StatementBuilderType, entry models.WatchlistEntry) (string, []any, error) {
	return sb.Insert(entry.TableName()).
		Columns(watchlistColumns...).
		Values(entry.UserID, entry.MovieID, entry.AddedAt).
		Suffix("ON CONFLICT (user_id, movie_id) DO NOTHING").
		ToSql()
}

func buildDeleteWatchlistEntryQuery(sb sq.StatementBuilderType, userID, movieID string) (string, []any, error) {
	return sb.Delete(models.WatchlistEntry{}.TableName()).
		Where(sq.Eq{"user_id": userID, "movie_id": movieID}).
		ToSql()
}

func buildWatchlistEntryExistsQuery(sb sq.StatementBuilderType, userID, movieID string) (string, []any, error) {
	return sb.Select("1").
		From(models.WatchlistEntry{}.TableName()).
		Where(sq.Eq{"user_id": userID, "movie_id": movieID}).
		Limit(1).
		ToSql()
}

func buildListWatchlistQuery(sb sq.StatementBuilderType, userID string) (string, []any, error) {
	return sb.Select(watchlistColumns...).
		From(models.WatchlistEntry{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("added_at DESC", "movie_id").
		ToSql()
}

// movies

func buildSearchMoviesQuery(sb sq.StatementBuilderType, query string, limit uint64) (string, []any, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"

	return sb.Select(movieColumns...).
		From(models.Movie{}.TableName()).
		Where(sq.Or{
			sq.Expr(`LOWER(title) LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`LOWER(description) LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`LOWER(genre) LIKE ? ESCAPE '\'`, pattern),
		}).
		OrderBy("rating DESC", "title").
		Limit(limit).
		ToSql()
}

func buildSelectMovieByIDQuery(sb sq.StatementBuilderType, movieID string) (string, []any, error) {
	return sb.Select(movieColumns...).
		From(models.Movie{}.TableName()).
		Where(sq.Eq{"id": movieID}).
		Limit(1).
		ToSql()
}

// utcNow is the clock used for server-assigned timestamps. Stored times are
// always UTC so SQLite's text timestamps order correctly.
var utcNow = func() time.Time {
	return time.Now().UTC()
}
