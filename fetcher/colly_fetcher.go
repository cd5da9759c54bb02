package fetcher

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog/log"
)

const (
	ctxKeyBody   = "body"
	ctxKeyStatus = "status"
)

// CollyFetcher implements the Fetcher interface using colly
type CollyFetcher struct {
	collector *colly.Collector
	headers   http.Header
}

// NewCollyFetcher creates a new CollyFetcher instance. Extra headers are sent
// with every request; the user agent is always set.
func NewCollyFetcher(userAgent string, timeout time.Duration, headers map[string]string) *CollyFetcher {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		// Listing pages are walked once per crawl and there are two crawls per run
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(timeout)

	c.OnResponse(func(r *colly.Response) {
		r.Ctx.Put(ctxKeyBody, r.Body)
		r.Ctx.Put(ctxKeyStatus, r.StatusCode)
	})

	c.OnError(func(r *colly.Response, err error) {
		r.Ctx.Put(ctxKeyStatus, r.StatusCode)
		log.Debug().Str("url", r.Request.URL.String()).Int("status", r.StatusCode).Err(err).Msg("Error fetching page")
	})

	hdr := http.Header{}
	for k, v := range headers {
		hdr.Set(k, v)
	}
	hdr.Set("User-Agent", userAgent)

	return &CollyFetcher{
		collector: c,
		headers:   hdr,
	}
}

// Fetch implements the Fetcher interface
func (cf *CollyFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	reqCtx := colly.NewContext()
	err := cf.collector.Request(http.MethodGet, url, nil, reqCtx, cf.headers.Clone())
	status, _ := reqCtx.GetAny(ctxKeyStatus).(int)
	if err != nil {
		return nil, &NetworkError{URL: url, StatusCode: status, Err: err}
	}

	body, ok := reqCtx.GetAny(ctxKeyBody).([]byte)
	if !ok {
		return nil, &NetworkError{URL: url, StatusCode: status, Err: errors.New("no response body")}
	}

	return &Page{
		URL:        url,
		StatusCode: status,
		Body:       body,
	}, nil
}
