package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client used by the
// outbound adapters (TMDB, SendGrid).
//
// Example usage:
//
//	client := utils.NewHTTPClient("https://api.themoviedb.org/3", 10*time.Second)
//	resp, err := client.R().Get("/movie/popular")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates a new HTTPClient with the given base URL and
// per-request timeout. Each call returns an independent client with its own
// connection pool. A zero timeout leaves the resty default in place.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client}
}
