package fetcher

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/rs/zerolog/log"
)

// Retrying wraps a Fetcher with a bounded exponential backoff. Only temporary
// network errors (no response, 429, 5xx) are retried.
type Retrying struct {
	next            Fetcher
	maxRetries      int
	initialInterval time.Duration
}

// NewRetrying creates a retrying fetcher. With maxRetries <= 0 it returns next unchanged.
func NewRetrying(next Fetcher, maxRetries int, initialInterval time.Duration) Fetcher {
	if maxRetries <= 0 {
		return next
	}
	return &Retrying{
		next:            next,
		maxRetries:      maxRetries,
		initialInterval: initialInterval,
	}
}

// Fetch implements the Fetcher interface
func (r *Retrying) Fetch(ctx context.Context, url string) (*Page, error) {
	var page *Page
	var finalErr error

	op := func() error {
		p, err := r.next.Fetch(ctx, url)
		if err == nil {
			page = p
			finalErr = nil
			return nil
		}
		finalErr = err

		var netErr *NetworkError
		if errors.As(err, &netErr) && netErr.Temporary() && ctx.Err() == nil {
			return err
		}
		// Not worth retrying; stop with finalErr set
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("url", url).Dur("retry_in", wait).Msg("Fetch failed, retrying")
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.maxRetries)), ctx), notify); err != nil {
		return nil, err
	}
	if finalErr != nil {
		return nil, finalErr
	}
	return page, nil
}
