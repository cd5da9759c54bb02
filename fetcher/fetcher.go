package fetcher

import (
	"context"
	"fmt"
)

// Page is the raw result of fetching one URL
type Page struct {
	URL        string // URL as requested
	StatusCode int
	Body       []byte
}

// Fetcher interface defines the contract for fetching implementations
type Fetcher interface {
	// Fetch retrieves the page at the absolute URL. Connection failures,
	// timeouts and non-success statuses are reported as *NetworkError.
	Fetch(ctx context.Context, url string) (*Page, error)
}

// NetworkError is returned when a page cannot be fetched
type NetworkError struct {
	URL        string
	StatusCode int // Zero when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the request could succeed
func (e *NetworkError) Temporary() bool {
	return e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500
}

// checkStatus reports a non-2xx response status as a *NetworkError
func checkStatus(url string, status int) error {
	if status < 200 || status > 299 {
		return &NetworkError{URL: url, StatusCode: status, Err: fmt.Errorf("unexpected status %d", status)}
	}
	return nil
}
