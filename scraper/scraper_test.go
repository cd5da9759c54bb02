package scraper

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"quotes-scraper/fetcher"
	"quotes-scraper/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFetcher() fetcher.Fetcher {
	return fetcher.NewCollyFetcher("quotes-scraper-test", 5*time.Second, nil)
}

func noSleep(calls *int) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		*calls++
		return nil
	}
}

func TestWalk_FollowsNextUntilNone(t *testing.T) {
	site := newTestSite(t)

	var visited []string
	pages, err := Walk(context.Background(), newFetcher(), site.URL, "/", func(ctx context.Context, doc *goquery.Document, pageURL string) error {
		visited = append(visited, pageURL)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	assert.Equal(t, []string{site.URL + "/", site.URL + "/page/2/", site.URL + "/page/3/"}, visited)
}

func TestWalk_StopsOnPageWithoutNext(t *testing.T) {
	site := newTestSite(t)

	pages, err := Walk(context.Background(), newFetcher(), site.URL, "/page/3/", func(ctx context.Context, doc *goquery.Document, pageURL string) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, pages)
	assert.Zero(t, site.hitCount("/"))
}

func TestWalk_PaginationLoop(t *testing.T) {
	site := newTestSite(t)
	site.pages["/loop/"] = listing("/loop/", quoteBlock("q", "A", "/author/A"))

	pages, err := Walk(context.Background(), newFetcher(), site.URL, "/loop/", func(ctx context.Context, doc *goquery.Document, pageURL string) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, pages)
	assert.Equal(t, 1, site.hitCount("/loop/"))
}

func TestQuoteCrawler_Crawl(t *testing.T) {
	site := newTestSite(t)

	result, err := NewQuoteCrawler(newFetcher(), site.URL, "/").Crawl(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Pages)
	require.Len(t, result.Quotes, 5)
	assert.Equal(t, models.Quote{
		Author:    "Albert Einstein",
		Text:      "“Q1”",
		Tags:      []string{"physics", "change"},
		SourceURL: site.URL + "/",
	}, result.Quotes[0])
	assert.Equal(t, []string{"humor"}, result.Quotes[1].Tags)
	assert.Equal(t, []string{}, result.Quotes[3].Tags)
	assert.Equal(t, site.URL+"/page/3/", result.Quotes[4].SourceURL)
}

func TestQuoteCrawler_ListingFailureStopsCrawl(t *testing.T) {
	site := newTestSite(t)
	site.breakPath("/page/2/", http.StatusInternalServerError)

	result, err := NewQuoteCrawler(newFetcher(), site.URL, "/").Crawl(context.Background())

	var netErr *fetcher.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusInternalServerError, netErr.StatusCode)
	assert.Equal(t, 1, result.Pages)
	assert.Len(t, result.Quotes, 2)
	assert.Zero(t, site.hitCount("/page/3/"))
}

func TestAuthorCrawler_Crawl(t *testing.T) {
	site := newTestSite(t)
	sleeps := 0

	result, err := NewAuthorCrawler(newFetcher(), site.URL, "/", WithSleep(noSleep(&sleeps))).Crawl(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Pages)
	require.Len(t, result.Authors, 3)
	assert.Equal(t, "Albert Einstein", result.Authors[0].Name)
	assert.Equal(t, "Mark Twain", result.Authors[1].Name)
	assert.Equal(t, "Jane Austen", result.Authors[2].Name)
	assert.Equal(t, "Writer of Tom Sawyer", result.Authors[1].Biography)
	assert.Equal(t, "Physicist thinker", result.Authors[0].Biography)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, 3, result.Visited)

	// Shared authors appear on several listing pages but are fetched once
	assert.Equal(t, 1, site.hitCount("/author/Albert-Einstein"))
	assert.Equal(t, 1, site.hitCount("/author/Mark-Twain"))
	assert.Equal(t, 1, site.hitCount("/author/Jane-Austen"))
	assert.Equal(t, 3, sleeps)
}

func TestAuthorCrawler_NoDuplicateURLs(t *testing.T) {
	site := newTestSite(t)
	sleeps := 0

	result, err := NewAuthorCrawler(newFetcher(), site.URL, "/", WithSleep(noSleep(&sleeps))).Crawl(context.Background())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, a := range result.Authors {
		assert.False(t, seen[a.URL], "duplicate author url %s", a.URL)
		seen[a.URL] = true
	}
}

func TestAuthorCrawler_SkipsFailedAuthorPage(t *testing.T) {
	site := newTestSite(t)
	site.breakPath("/author/Mark-Twain", http.StatusNotFound)
	sleeps := 0

	result, err := NewAuthorCrawler(newFetcher(), site.URL, "/", WithSleep(noSleep(&sleeps))).Crawl(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Authors, 2)
	assert.Equal(t, "Albert Einstein", result.Authors[0].Name)
	assert.Equal(t, "Jane Austen", result.Authors[1].Name)
	assert.Equal(t, []string{site.URL + "/author/Mark-Twain"}, result.Skipped)
	assert.Equal(t, 3, result.Visited)
	// A failed author stays visited and is not retried from page 3
	assert.Equal(t, 1, site.hitCount("/author/Mark-Twain"))
	assert.Equal(t, 3, result.Pages)
}

func TestAuthorCrawler_ListingFailureStopsCrawl(t *testing.T) {
	site := newTestSite(t)
	site.breakPath("/page/3/", http.StatusServiceUnavailable)
	sleeps := 0

	result, err := NewAuthorCrawler(newFetcher(), site.URL, "/", WithSleep(noSleep(&sleeps))).Crawl(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, result.Pages)
	assert.Len(t, result.Authors, 3)
}

func TestAuthorCrawler_DelayIsApplied(t *testing.T) {
	site := newTestSite(t)
	var delays []time.Duration

	crawler := NewAuthorCrawler(newFetcher(), site.URL, "/page/3/",
		WithDelay(250*time.Millisecond),
		WithSleep(func(ctx context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		}),
	)

	result, err := crawler.Crawl(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Authors, 1)
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, delays)
}

func TestAuthorCrawler_CanceledDuringDelay(t *testing.T) {
	site := newTestSite(t)
	ctx, cancel := context.WithCancel(context.Background())

	crawler := NewAuthorCrawler(newFetcher(), site.URL, "/",
		WithSleep(func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		}),
	)

	result, err := crawler.Crawl(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, result.Authors, 1)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}

func TestFrontier(t *testing.T) {
	f := NewFrontier()
	assert.True(t, f.Claim("a"))
	assert.True(t, f.Claim("b"))
	assert.False(t, f.Claim("a"))
	assert.False(t, f.Claim("b"))
	assert.Equal(t, 2, f.Len())
}
