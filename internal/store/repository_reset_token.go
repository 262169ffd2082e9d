package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/utils"
	"github.com/MKhiriev/go-screenly/models"
)

type resetTokenRepository struct {
	logger *logger.Logger
	db     *DB
	ids    *utils.UUIDGenerator
}

func NewResetTokenRepository(db *DB, logger *logger.Logger) ResetTokenRepository {
	logger.Debug().Msg("creating reset token repository")
	return &resetTokenRepository{
		db:     db,
		logger: logger,
		ids:    utils.NewUUIDGenerator(),
	}
}

// ReplaceToken removes all tokens of the user and stores the new one in a
// single transaction, so a user never has more than one live token.
func (r *resetTokenRepository) ReplaceToken(ctx context.Context, token models.PasswordResetToken) (models.PasswordResetToken, error) {
	log := logger.FromContext(ctx).With().Str("user_id", token.UserID).Logger()

	token.ID = r.ids.Generate()
	token.Used = false
	token.CreatedAt = utcNow()
	token.ExpiresAt = token.ExpiresAt.UTC()

	sb := r.db.builder()
	deleteQuery, deleteArgs, err := buildDeleteUserResetTokensQuery(sb, token.UserID)
	if err != nil {
		return models.PasswordResetToken{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	insertQuery, insertArgs, err := buildInsertResetTokenQuery(sb, token)
	if err != nil {
		return models.PasswordResetToken{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
			log.Err(err).Str("func", "*resetTokenRepository.ReplaceToken").Msg("error deleting previous tokens")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			log.Err(err).Str("func", "*resetTokenRepository.ReplaceToken").Msg("error inserting token")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	})
	if err != nil {
		return models.PasswordResetToken{}, err
	}

	return token, nil
}

func (r *resetTokenRepository) FindTokenByHash(ctx context.Context, tokenHash string) (models.PasswordResetToken, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectResetTokenByHashQuery(r.db.builder(), tokenHash)
	if err != nil {
		return models.PasswordResetToken{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var token models.PasswordResetToken
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&token.ID,
		&token.TokenHash,
		&token.UserID,
		&token.ExpiresAt,
		&token.Used,
		&token.CreatedAt,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.PasswordResetToken{}, ErrResetTokenNotFound
	case err != nil:
		log.Err(err).Str("func", "*resetTokenRepository.FindTokenByHash").Msg("error selecting token")
		return models.PasswordResetToken{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return token, nil
}

func (r *resetTokenRepository) DeleteToken(ctx context.Context, tokenID string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteResetTokenQuery(r.db.builder(), tokenID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*resetTokenRepository.DeleteToken").Str("token_id", tokenID).Msg("error deleting token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// ConsumeToken marks the token used first; only when that update hits a row
// is the password changed. Both writes share one transaction.
func (r *resetTokenRepository) ConsumeToken(ctx context.Context, token models.PasswordResetToken, passwordHash string) error {
	log := logger.FromContext(ctx).With().
		Str("user_id", token.UserID).
		Str("token_id", token.ID).
		Logger()

	sb := r.db.builder()
	markQuery, markArgs, err := buildMarkResetTokenUsedQuery(sb, token.ID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	updateQuery, updateArgs, err := buildUpdateUserPasswordQuery(sb, token.UserID, passwordHash)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, markQuery, markArgs...)
		if err != nil {
			log.Err(err).Str("func", "*resetTokenRepository.ConsumeToken").Msg("error marking token used")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		marked, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if marked == 0 {
			return ErrResetTokenAlreadyUsed
		}

		result, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
		if err != nil {
			log.Err(err).Str("func", "*resetTokenRepository.ConsumeToken").Msg("error updating password")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		updated, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if updated == 0 {
			return ErrNoUserWasFound
		}

		return nil
	})
}
