// Package scraper walks the paginated quote listing and collects quote and
// author records. Both crawls are strictly sequential: one request in flight.
package scraper

import (
	"context"
	"fmt"

	"quotes-scraper/fetcher"
	"quotes-scraper/parser"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// PageVisitor is called once per listing page, in pagination order
type PageVisitor func(ctx context.Context, doc *goquery.Document, pageURL string) error

// Walk fetches startPath resolved against baseURL, hands it to visit, then
// follows "next" links until a page has none. A failure fetching or parsing a
// listing page stops the walk and is returned along with the number of pages
// already visited.
func Walk(ctx context.Context, f fetcher.Fetcher, baseURL, startPath string, visit PageVisitor) (int, error) {
	pageURL, err := parser.Resolve(baseURL, startPath)
	if err != nil {
		return 0, err
	}

	walked := make(map[string]struct{})
	pages := 0

	for {
		if _, seen := walked[pageURL]; seen {
			log.Warn().Str("url", pageURL).Msg("Pagination points back to a visited page, stopping")
			return pages, nil
		}
		walked[pageURL] = struct{}{}

		log.Info().Str("url", pageURL).Msg("Scraping page")
		page, err := f.Fetch(ctx, pageURL)
		if err != nil {
			return pages, fmt.Errorf("listing page %s: %w", pageURL, err)
		}

		doc, err := parser.NewDocument(page.Body)
		if err != nil {
			return pages, fmt.Errorf("listing page %s: %w", pageURL, err)
		}
		pages++

		if err := visit(ctx, doc, pageURL); err != nil {
			return pages, err
		}

		next, ok := parser.NextPage(doc, baseURL)
		if !ok {
			log.Debug().Int("pages", pages).Msg("No next page, pagination finished")
			return pages, nil
		}
		pageURL = next
	}
}
