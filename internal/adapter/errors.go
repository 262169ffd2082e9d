package adapter

import "errors"

var (
	ErrNotConfigured = errors.New("catalog api key is not configured")
	ErrBadRequest    = errors.New("catalog rejected the request")
	ErrUnauthorized  = errors.New("catalog unauthorized")
	ErrNotFound      = errors.New("catalog resource not found")
	ErrRateLimited   = errors.New("catalog rate limit exceeded")
	ErrUpstream      = errors.New("catalog upstream error")
)
