package utils

import (
	"github.com/go-resty/resty/v2"
)

const userAgent = "go-news-sync"

// HTTPClient embeds *resty.Client so call sites use the resty request API
// directly.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client with resty's own retries
// switched off: retry policy belongs to the caller.
func NewHTTPClient() *HTTPClient {
	client := resty.New().
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent)

	return &HTTPClient{Client: client}
}
