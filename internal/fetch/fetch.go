// Package fetch provides the shared HTTP GET helper used by all sources:
// User-Agent tagging, status checking and retry with exponential backoff on
// transient failures.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultUserAgent = "oberfranken-events/1.0 (github.com/mbergner/oberfranken-events)"
	DefaultTimeout   = 30 * time.Second

	maxRetries = 3
)

// NewClient returns the HTTP client sources share.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
	}
}

// Get fetches a URL and returns the response body. Network errors and 5xx
// responses are retried with exponential backoff; other non-200 statuses
// fail immediately.
func Get(client *http.Client, url, userAgent string) ([]byte, error) {
	if client == nil {
		client = NewClient()
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	var body []byte
	op := func() error {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching page: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	return body, nil
}
