// Package httputil fetches remote document JSON with retries and hook
// instrumentation. Hierarchy documents can live behind plain HTTP
// endpoints; this client is the only network surface of the module.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mhersch/treeline/pkg/errors"
	"github.com/mhersch/treeline/pkg/observability"
)

const (
	// DefaultTimeout bounds a single fetch attempt.
	DefaultTimeout = 15 * time.Second

	// DefaultAttempts is the number of tries for transient failures.
	DefaultAttempts = 3

	// DefaultRetryDelay is the initial backoff, doubling per retry.
	DefaultRetryDelay = time.Second

	// MaxBodySize caps a fetched document at 8 MiB. Larger responses
	// indicate a wrong URL rather than a real document.
	MaxBodySize = 8 << 20
)

// Client fetches documents over HTTP with retry on transient failures.
// The zero value is not usable; construct with NewClient.
type Client struct {
	http     *http.Client
	attempts int
	delay    time.Duration
}

// NewClient returns a client with default timeout and retry settings.
func NewClient() *Client {
	return &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		attempts: DefaultAttempts,
		delay:    DefaultRetryDelay,
	}
}

// Fetch retrieves the raw document bytes at url. Network errors and 5xx
// responses are retried with exponential backoff; 4xx responses fail
// immediately.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}

	var body []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var attemptErr error
		body, attemptErr = c.fetchOnce(ctx, url)
		return attemptErr
	})
	return body, err
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	observability.Fetch().OnRequest(ctx, url)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", url)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		observability.Fetch().OnError(ctx, url, err)
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)}
	}
	defer resp.Body.Close()
	observability.Fetch().OnResponse(ctx, url, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode >= 500:
		return nil, &RetryableError{Err: errors.New(errors.ErrCodeNetwork,
			"server error %d fetching %s", resp.StatusCode, url)}
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "document not found at %s", url)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.New(errors.ErrCodeNetwork,
			"unexpected status %d fetching %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		observability.Fetch().OnError(ctx, url, err)
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read body from %s", url)}
	}
	if len(body) > MaxBodySize {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"document at %s exceeds %s", url, byteSize(MaxBodySize))
	}
	return body, nil
}

func byteSize(n int) string {
	return fmt.Sprintf("%d MiB", n>>20)
}
