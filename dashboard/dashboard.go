// Package dashboard computes per-author statistics over the quotes CSV.
package dashboard

import (
	"errors"
	"fmt"
	"sort"

	"quotes-scraper/csvio"
	"quotes-scraper/filter"
	"quotes-scraper/models"
)

// NoAuthorSelected is shown when no author is chosen
const NoAuthorSelected = "Nenhum autor selecionado."

var (
	// ErrNoAuthor is returned for an empty author selection
	ErrNoAuthor = errors.New(NoAuthorSelected)
	// ErrUnknownAuthor is returned for an author with no quotes
	ErrUnknownAuthor = errors.New("dashboard: unknown author")
)

// TagCount is the number of quotes of an author carrying a tag
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// AuthorStats summarizes the quotes of one author
type AuthorStats struct {
	Author      string         `json:"author"`
	TotalQuotes int            `json:"total_quotes"`
	Summary     string         `json:"summary"`
	Tags        []TagCount     `json:"tags"`
	Tag         string         `json:"tag,omitempty"` // Tag the quote list is narrowed to
	Quotes      []models.Quote `json:"quotes"`
}

// Data is the quote table the dashboard is served from. It is read once and
// never modified, so it is safe for concurrent use.
type Data struct {
	quotes  []models.Quote
	authors []string
}

// Load reads the quotes CSV at path
func Load(path string) (*Data, error) {
	quotes, err := csvio.ReadQuotes(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard data: %w", err)
	}
	return New(quotes), nil
}

// New builds dashboard data from quotes
func New(quotes []models.Quote) *Data {
	d := &Data{quotes: quotes, authors: []string{}}

	seen := make(map[string]struct{})
	for _, q := range quotes {
		if _, ok := seen[q.Author]; ok {
			continue
		}
		seen[q.Author] = struct{}{}
		d.authors = append(d.authors, q.Author)
	}
	return d
}

// Authors returns the distinct authors in order of first appearance
func (d *Data) Authors() []string {
	return d.authors
}

// Quotes returns every quote
func (d *Data) Quotes() []models.Quote {
	return d.quotes
}

// Stats computes the statistics of author. A non-empty tag narrows the quote
// list to the quotes carrying it; totals and tag counts still cover all of
// the author's quotes.
func (d *Data) Stats(author, tag string) (*AuthorStats, error) {
	if author == "" {
		return nil, ErrNoAuthor
	}

	quotes := filter.ByAuthor(d.quotes, author)
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAuthor, author)
	}

	return &AuthorStats{
		Author:      author,
		TotalQuotes: len(quotes),
		Summary:     fmt.Sprintf("Total de citações de %s: %d", author, len(quotes)),
		Tags:        TagFrequency(quotes),
		Tag:         tag,
		Quotes:      filter.NewFilter(filter.Criteria{Tag: tag}).Apply(quotes),
	}, nil
}

// TagFrequency counts tags across quotes, most frequent first and ties broken
// alphabetically
func TagFrequency(quotes []models.Quote) []TagCount {
	counts := make(map[string]int)
	for _, q := range quotes {
		for _, tag := range q.Tags {
			if tag == "" {
				continue
			}
			counts[tag]++
		}
	}

	freq := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		freq = append(freq, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(freq, func(i, j int) bool {
		if freq[i].Count != freq[j].Count {
			return freq[i].Count > freq[j].Count
		}
		return freq[i].Tag < freq[j].Tag
	})
	return freq
}
