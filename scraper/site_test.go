package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// testSite serves a small paginated quote site and counts requests per path
type testSite struct {
	*httptest.Server
	mu     sync.Mutex
	hits   map[string]int
	pages  map[string]string
	broken map[string]int // path -> status to return
}

func quoteBlock(text, author, authorPath string, tags ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="quote"><span class="text">%s</span>`, text)
	fmt.Fprintf(&b, `<span>by <small class="author">%s</small> <a href="%s">(about)</a></span>`, author, authorPath)
	b.WriteString(`<div class="tags">Tags:`)
	for _, tag := range tags {
		fmt.Fprintf(&b, `<a class="tag" href="/tag/%s/">%s</a>`, tag, tag)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func listing(next string, blocks ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, block := range blocks {
		b.WriteString(block)
	}
	if next != "" {
		fmt.Fprintf(&b, `<ul class="pager"><li class="next"><a href="%s">Next</a></li></ul>`, next)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func authorDetail(name, born, location, description string) string {
	return fmt.Sprintf(`<html><body><div class="author-details"><h3 class="author-title">%s</h3>
<p><span class="author-born-date">%s</span> <span class="author-born-location">%s</span></p>
<div class="author-description">%s</div></div></body></html>`, name, born, location, description)
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	s := &testSite{
		hits:   make(map[string]int),
		broken: make(map[string]int),
		pages: map[string]string{
			"/": listing("/page/2/",
				quoteBlock("“Q1”", "Albert Einstein", "/author/Albert-Einstein", "physics", "change"),
				quoteBlock("“Q2”", "Mark Twain", "/author/Mark-Twain", "humor"),
			),
			"/page/2/": listing("/page/3/",
				quoteBlock("“Q3”", "Albert Einstein", "/author/Albert-Einstein", "life"),
				quoteBlock("“Q4”", "Jane Austen", "/author/Jane-Austen"),
			),
			"/page/3/": listing("",
				quoteBlock("“Q5”", "Mark Twain", "/author/Mark-Twain", "books"),
			),
			"/author/Albert-Einstein": authorDetail("Albert Einstein", "March 14, 1879", "in Ulm, Germany", "Physicist, thinker."),
			"/author/Mark-Twain":      authorDetail("Mark Twain", "November 30, 1835", "in Florida, Missouri", `Writer of "Tom Sawyer".`),
			"/author/Jane-Austen":     authorDetail("Jane Austen", "December 16, 1775", "in Steventon Rectory", "Novelist."),
		},
	}

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		status, broken := s.broken[r.URL.Path]
		body, ok := s.pages[r.URL.Path]
		s.mu.Unlock()

		if broken {
			w.WriteHeader(status)
			return
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *testSite) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *testSite) breakPath(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broken[path] = status
}
