package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-screenly/internal/config"
	"github.com/MKhiriev/go-screenly/internal/events"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/metrics"
	"github.com/MKhiriev/go-screenly/internal/store"
	"github.com/MKhiriev/go-screenly/internal/utils"
	"github.com/MKhiriev/go-screenly/internal/validators"
	"github.com/MKhiriev/go-screenly/models"
)

// dummyPasswordHash is compared against when the email is unknown so that
// sign-in takes the same time whether or not the account exists.
var dummyPasswordHash, _ = bcrypt.GenerateFromPassword([]byte("screenly-dummy-password"), bcrypt.DefaultCost)

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification, and JWT token
// lifecycle using a UserRepository for persistence and bcrypt for password
// hashing.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// publisher announces new accounts to the welcome mail worker.
	publisher events.Publisher

	// validator checks inbound registration and sign-in requests.
	validator validators.Validator

	// metrics counts registrations and sign-ins. May be nil.
	metrics *metrics.Metrics

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given UserRepository
// and populated with session token parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, publisher events.Publisher, validator validators.Validator,
	m *metrics.Metrics, cfg config.App, logger *logger.Logger) AuthService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &authService{
		userRepository: userRepository,
		publisher:      publisher,
		validator:      validator,
		metrics:        m,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		logger:         logger,
	}
}

// RegisterUser creates a new user account.
//
// It validates the request (email format, password of at least 8
// characters), hashes the password with bcrypt, and delegates persistence to
// the UserRepository. A user.registered event is published afterwards;
// publishing failures are logged and do not fail the registration.
//
// Returns the persisted user or:
//   - ErrValidation if the request is malformed.
//   - ErrEmailAlreadyRegistered if the email is taken.
//   - A wrapped storage error otherwise.
func (a *authService) RegisterUser(ctx context.Context, req models.RegisterRequest) (user models.User, err error) {
	log := logger.FromContext(ctx)
	defer func() { a.metrics.ObserveRegistration(err) }()

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err = a.validator.Validate(ctx, req); err != nil {
		log.Debug().Err(err).Str("email", req.Email).Msg("invalid registration request")
		return models.User{}, validationFailed(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	})
	if errors.Is(err, store.ErrEmailAlreadyExists) {
		log.Info().Str("email", req.Email).Msg("email already registered")
		return models.User{}, ErrEmailAlreadyRegistered
	}
	if err != nil {
		log.Err(err).Str("email", req.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	event := models.UserRegisteredEvent{
		UserID:       registeredUser.UserID,
		Email:        registeredUser.Email,
		Name:         registeredUser.Name,
		RegisteredAt: registeredUser.CreatedAt,
	}
	if pubErr := a.publisher.PublishUserRegistered(ctx, event); pubErr != nil {
		log.Err(pubErr).Str("user_id", registeredUser.UserID).Msg("publishing user.registered failed")
	}

	return registeredUser, nil
}

// Login authenticates an existing user.
//
// Unknown emails and wrong passwords both yield ErrInvalidCredentials, and
// both pay for one bcrypt comparison.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (user models.User, err error) {
	log := logger.FromContext(ctx)
	defer func() { a.metrics.ObserveLogin(err) }()

	if err = a.validator.Validate(ctx, req); err != nil {
		log.Debug().Err(err).Msg("invalid login request")
		return models.User{}, validationFailed(err)
	}

	foundUser, err := a.userRepository.FindUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNoUserWasFound) {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(req.Password))
		log.Info().Msg("sign-in with unknown email")
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(foundUser.PasswordHash), []byte(req.Password)); err != nil {
		log.Info().Str("user_id", foundUser.UserID).Msg("wrong password")
		return models.User{}, ErrInvalidCredentials
	}

	return foundUser, nil
}

// CreateToken issues a signed JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim, and expires after tokenDuration.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// Any validation failure (expired, wrong issuer, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid so that callers do not need to inspect
// low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("session token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
