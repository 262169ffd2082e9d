// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

const (
	defaultDBDriver              = "pgx"
	defaultHTTPAddress           = ":8080"
	defaultRequestTimeout        = 30 * time.Second
	defaultShutdownTimeout       = 10 * time.Second
	defaultRequestsPerMinute     = 120
	defaultForgotPasswordPerHour = 5
	defaultTokenIssuer           = "screenly"
	defaultTokenDuration         = 24 * time.Hour
	defaultResetTokenTTL         = 24 * time.Hour
	defaultPublicURL             = "http://localhost:3000"
	defaultMailFromName          = "Screenly - Movie Streaming"
	defaultMailTimeout           = 15 * time.Second
	defaultSendGridBaseURL       = "https://api.sendgrid.com"
	defaultTMDBBaseURL           = "https://api.themoviedb.org/3"
	defaultTMDBTimeout           = 10 * time.Second
	defaultBrokerQueue           = "user.registered"
)

// applyDefaults fills every field that is still zero after all sources have
// been merged.
func (cfg *StructuredConfig) applyDefaults() {
	setIfEmpty(&cfg.Storage.DB.Driver, defaultDBDriver)

	setIfEmpty(&cfg.Server.HTTPAddress, defaultHTTPAddress)
	setIfZero(&cfg.Server.RequestTimeout, defaultRequestTimeout)
	setIfZero(&cfg.Server.ShutdownTimeout, defaultShutdownTimeout)
	setIfZero(&cfg.Server.RateLimit.RequestsPerMinute, defaultRequestsPerMinute)
	setIfZero(&cfg.Server.RateLimit.ForgotPasswordPerHour, defaultForgotPasswordPerHour)

	setIfEmpty(&cfg.App.Environment, EnvironmentProduction)
	setIfEmpty(&cfg.App.TokenIssuer, defaultTokenIssuer)
	setIfZero(&cfg.App.TokenDuration, defaultTokenDuration)
	setIfZero(&cfg.App.ResetTokenTTL, defaultResetTokenTTL)
	setIfEmpty(&cfg.App.PublicURL, defaultPublicURL)

	setIfEmpty(&cfg.Mail.FromName, defaultMailFromName)
	setIfEmpty(&cfg.Mail.SendGridBaseURL, defaultSendGridBaseURL)
	setIfZero(&cfg.Mail.Timeout, defaultMailTimeout)
	if cfg.Mail.SMTPPort == 0 && cfg.Mail.SMTPHost != "" {
		cfg.Mail.SMTPPort = 587
	}
	setIfEmpty(&cfg.Mail.SMTPFrom, cfg.Mail.SMTPUsername)

	setIfEmpty(&cfg.TMDB.BaseURL, defaultTMDBBaseURL)
	setIfZero(&cfg.TMDB.Timeout, defaultTMDBTimeout)

	setIfEmpty(&cfg.Broker.Queue, defaultBrokerQueue)
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

func setIfZero[T int | time.Duration](dst *T, value T) {
	if *dst == 0 {
		*dst = value
	}
}
