package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-screenly/internal/config"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/metrics"
	"github.com/MKhiriev/go-screenly/internal/notify"
	"github.com/MKhiriev/go-screenly/internal/store"
	"github.com/MKhiriev/go-screenly/internal/utils"
	"github.com/MKhiriev/go-screenly/models"
)

const (
	// ResetRequestedMessage is returned for every forgot-password request so
	// that callers cannot tell registered emails apart.
	ResetRequestedMessage = "If an account with that email exists, we sent a reset link."
	// PasswordResetMessage is returned after a successful reset.
	PasswordResetMessage = "Password has been reset successfully"

	resetPasswordPath  = "/auth/reset-password"
	minPasswordLength  = 8
	defaultMailTimeout = 15 * time.Second
)

// passwordResetService implements PasswordResetService on top of the user
// and reset token repositories.
type passwordResetService struct {
	userRepository  store.UserRepository
	tokenRepository store.ResetTokenRepository

	// notifier delivers the reset email. Dispatch happens after the token
	// writes, in its own goroutine.
	notifier notify.Notifier

	// metrics counts requests and confirmations. May be nil.
	metrics *metrics.Metrics

	// hashKey keys the digest stored instead of the raw token.
	hashKey string
	// ttl is the lifetime of an issued token.
	ttl time.Duration
	// publicURL prefixes the link sent by email.
	publicURL string
	// development echoes the reset link back to the caller.
	development bool
	// mailTimeout bounds one dispatch across all providers.
	mailTimeout time.Duration

	now func() time.Time

	// inflight tracks running dispatches for graceful shutdown.
	inflight sync.WaitGroup

	logger *logger.Logger
}

func NewPasswordResetService(userRepository store.UserRepository, tokenRepository store.ResetTokenRepository,
	notifier notify.Notifier, m *metrics.Metrics, cfg config.StructuredConfig, logger *logger.Logger) PasswordResetService {
	return &passwordResetService{
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		notifier:        notifier,
		metrics:         m,
		hashKey:         cfg.App.ResetTokenHashKey,
		ttl:             cfg.App.ResetTokenTTL,
		publicURL:       strings.TrimRight(cfg.App.PublicURL, "/"),
		development:     cfg.App.IsDevelopment(),
		mailTimeout:     cmp.Or(cfg.Mail.Timeout, defaultMailTimeout),
		now:             time.Now,
		logger:          logger,
	}
}

// RequestReset issues a new reset token for email, replacing any previous
// one, and schedules the reset email.
//
// Unknown emails produce the same response as known ones and touch nothing.
// The link is part of the response only in development mode.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) (result models.ResetRequestResult, err error) {
	log := logger.FromContext(ctx)
	defer func() { s.metrics.ObserveResetRequest(err) }()

	email = strings.TrimSpace(email)
	if email == "" {
		return models.ResetRequestResult{}, invalidField("email", "required", "Email is required")
	}

	result = models.ResetRequestResult{Message: ResetRequestedMessage}

	user, err := s.userRepository.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNoUserWasFound) {
		log.Info().Msg("password reset requested for unknown email")
		return result, nil
	}
	if err != nil {
		log.Err(err).Msg("user search by email failed")
		return models.ResetRequestResult{}, fmt.Errorf("user search by email failed: %w", err)
	}

	rawToken, err := utils.GenerateRandomToken(utils.ResetTokenBytes)
	if err != nil {
		log.Err(err).Msg("reset token generation failed")
		return models.ResetRequestResult{}, fmt.Errorf("reset token generation failed: %w", err)
	}

	_, err = s.tokenRepository.ReplaceToken(ctx, models.PasswordResetToken{
		TokenHash: utils.HashString(rawToken, s.hashKey),
		UserID:    user.UserID,
		ExpiresAt: s.now().Add(s.ttl),
	})
	if err != nil {
		log.Err(err).Str("user_id", user.UserID).Msg("storing reset token failed")
		return models.ResetRequestResult{}, fmt.Errorf("storing reset token failed: %w", err)
	}

	link := resetPasswordPath + "?token=" + url.QueryEscape(rawToken)
	s.dispatch(ctx, user.Email, s.publicURL+link)

	if s.development {
		log.Debug().Str("user_id", user.UserID).Str("reset_link", link).Msg("reset link issued")
		result.ResetLink = link
	}

	return result, nil
}

// ConfirmReset sets a new password using a reset token.
//
// Expired tokens are deleted on the way out. Used tokens stay in place so
// the caller keeps getting ErrResetTokenAlreadyUsed.
func (s *passwordResetService) ConfirmReset(ctx context.Context, rawToken, password string) (resp models.MessageResponse, err error) {
	log := logger.FromContext(ctx)
	defer func() { s.metrics.ObserveResetConfirmation(err) }()

	if rawToken == "" || password == "" {
		return models.MessageResponse{}, invalidField("token", "required", "Token and password are required")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return models.MessageResponse{}, invalidField("password", "min", "Password must be at least 8 characters")
	}

	token, err := s.tokenRepository.FindTokenByHash(ctx, utils.HashString(rawToken, s.hashKey))
	if errors.Is(err, store.ErrResetTokenNotFound) {
		log.Info().Msg("unknown reset token")
		return models.MessageResponse{}, ErrResetTokenNotFound
	}
	if err != nil {
		log.Err(err).Msg("reset token lookup failed")
		return models.MessageResponse{}, fmt.Errorf("reset token lookup failed: %w", err)
	}

	if token.IsExpired(s.now()) {
		if delErr := s.tokenRepository.DeleteToken(ctx, token.ID); delErr != nil {
			log.Err(delErr).Str("token_id", token.ID).Msg("deleting expired reset token failed")
		}
		log.Info().Str("user_id", token.UserID).Msg("expired reset token")
		return models.MessageResponse{}, ErrResetTokenExpired
	}
	if token.Used {
		log.Info().Str("user_id", token.UserID).Msg("reset token reused")
		return models.MessageResponse{}, ErrResetTokenAlreadyUsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.MessageResponse{}, fmt.Errorf("password hashing failed: %w", err)
	}

	err = s.tokenRepository.ConsumeToken(ctx, token, string(hash))
	switch {
	case errors.Is(err, store.ErrResetTokenAlreadyUsed):
		log.Info().Str("user_id", token.UserID).Msg("reset token consumed concurrently")
		return models.MessageResponse{}, ErrResetTokenAlreadyUsed
	case errors.Is(err, store.ErrNoUserWasFound):
		log.Warn().Str("user_id", token.UserID).Msg("reset token owner no longer exists")
		return models.MessageResponse{}, ErrResetTokenNotFound
	case err != nil:
		log.Err(err).Str("user_id", token.UserID).Msg("consuming reset token failed")
		return models.MessageResponse{}, fmt.Errorf("consuming reset token failed: %w", err)
	}

	log.Info().Str("user_id", token.UserID).Msg("password reset")
	return models.MessageResponse{Message: PasswordResetMessage}, nil
}

// Wait blocks until all dispatches started by RequestReset are finished or
// ctx is done.
func (s *passwordResetService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// dispatch renders and sends the reset email in the background. The send
// outlives the request but is bounded by mailTimeout.
func (s *passwordResetService) dispatch(ctx context.Context, to, resetURL string) {
	log := logger.FromContext(ctx)

	msg, err := notify.PasswordResetEmail(to, resetURL, s.ttl)
	if err != nil {
		log.Err(err).Msg("rendering reset email failed")
		return
	}

	sendCtx := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		sendCtx, cancel := context.WithTimeout(sendCtx, s.mailTimeout)
		defer cancel()

		if err := s.notifier.Send(sendCtx, msg); err != nil {
			log.Err(err).Msg("reset email was not delivered")
			return
		}
		log.Debug().Msg("reset email handed to provider")
	}()
}
