// Package fetcher performs the single outbound GET a check consists of.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrConnectionFailed is returned when the target could not be reached at
// all (DNS failure, refused connection, timeout) and no response exists.
var ErrConnectionFailed = errors.New("connection failed")

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (compatible; PageAnalyzer/1.0)"

	// Bodies are read through a limit so a pathological page cannot
	// exhaust memory; 1 MiB is plenty for the head-of-document fields
	// the extractor looks at.
	maxBodySize = 1 << 20
)

// Result is the outcome of a fetch that received a response. Any status
// code counts, error-range ones included.
type Result struct {
	StatusCode int
	Body       []byte
}

// Fetcher issues bounded single-attempt GET requests.
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher whose requests time out after the given duration.
// A non-positive timeout falls back to the 10s default.
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch performs one GET against target. Transport-level failures are
// reported as ErrConnectionFailed; any received response, 2xx through 5xx,
// is returned as a Result. No retries are attempted.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*Result, error) {
	const op = "fetcher.Fetcher.Fetch"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		// A transport failure mid-body (slow server, dropped connection)
		// leaves no usable response, same as never connecting.
		return nil, fmt.Errorf("%s: %w: %w", op, ErrConnectionFailed, err)
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
