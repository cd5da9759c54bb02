package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"quotes-scraper/models"

	"github.com/PuerkitoBio/goquery"
)

// Field is an extracted text value together with whether its element was found.
// A missing element yields an empty Value and Present == false.
type Field struct {
	Value   string
	Present bool
}

// textField extracts the text of the first element matched by sel
func textField(s *goquery.Selection, selector string) Field {
	found := s.Find(selector).First()
	if found.Length() == 0 {
		return Field{}
	}
	return Field{Value: found.Text(), Present: true}
}

// NewDocument parses raw HTML into a goquery document
func NewDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Resolve resolves href against base, the way a browser would
func Resolve(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

// QuoteFields holds the raw extraction result of one quote block
type QuoteFields struct {
	Author      Field
	Text        Field
	Tags        []string
	TagsPresent bool // The block has a tags container, even if it is empty
}

// Parser extracts quote records from listing pages
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ExtractQuote extracts the fields of one div.quote block
func (p *Parser) ExtractQuote(s *goquery.Selection) QuoteFields {
	fields := QuoteFields{
		Author: textField(s, "small.author"),
		Text:   textField(s, "span.text"),
		Tags:   []string{},
	}

	fields.TagsPresent = s.Find("div.tags").Length() > 0 || s.Find("a.tag").Length() > 0
	s.Find("a.tag").Each(func(i int, t *goquery.Selection) {
		fields.Tags = append(fields.Tags, strings.TrimSpace(t.Text()))
	})

	return fields
}

// ParseQuotes extracts one Quote per quote block on the page, tagged with pageURL.
// Missing fields are recorded as empty values; a block is never dropped.
func (p *Parser) ParseQuotes(doc *goquery.Document, pageURL string) []models.Quote {
	quotes := []models.Quote{}

	doc.Find("div.quote").Each(func(i int, s *goquery.Selection) {
		fields := p.ExtractQuote(s)
		quotes = append(quotes, models.Quote{
			Author:    fields.Author.Value,
			Text:      fields.Text.Value,
			Tags:      fields.Tags,
			SourceURL: pageURL,
		})
	})

	return quotes
}
