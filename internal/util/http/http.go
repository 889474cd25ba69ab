// Package http fetches remote images.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jmylchreest/dominant/internal/version"
)

const (
	// UserAgentName is the application name used in the User-Agent header.
	UserAgentName = "dominant"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBytes caps a response body.
	DefaultMaxBytes = 64 * 1024 * 1024
)

// ErrTooLarge is returned when a response body exceeds the size cap.
var ErrTooLarge = errors.New("response body too large")

// FetchOptions configures HTTP fetch behavior.
type FetchOptions struct {
	// Timeout is the whole-request timeout. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxBytes caps the body size. Zero means DefaultMaxBytes.
	MaxBytes int64

	// Headers are sent in addition to User-Agent.
	Headers map[string]string
}

// UserAgent returns the User-Agent header value.
func UserAgent() string {
	return fmt.Sprintf("%s/%s", UserAgentName, version.Version)
}

// Fetch retrieves the body at url. Non-200 responses and oversized bodies
// are errors.
func Fetch(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxBytes
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent())
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}
	return data, nil
}
