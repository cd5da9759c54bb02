package parser

import (
	"strings"

	"quotes-scraper/models"

	"github.com/PuerkitoBio/goquery"
)

// aboutLinkText marks the anchor that points to an author detail page
const aboutLinkText = "(about)"

// biographyReplacer strips quote characters and the punctuation removed from biographies
var biographyReplacer = strings.NewReplacer(
	",", "",
	".", "",
	`"`, "",
	"“", "",
	"”", "",
)

// AuthorFields holds the raw extraction result of an author detail page
type AuthorFields struct {
	Name          Field
	BirthDate     Field
	BirthLocation Field
	Description   Field
}

// DetailParser extracts author information from author detail pages
type DetailParser struct{}

// NewDetailParser creates a new DetailParser instance
func NewDetailParser() *DetailParser {
	return &DetailParser{}
}

// AuthorLinks returns the resolved detail-page URLs of every "(about)" anchor
// on a listing page, in document order. Duplicates are kept; the caller owns
// deduplication.
func (dp *DetailParser) AuthorLinks(doc *goquery.Document, baseURL string) []string {
	var links []string

	doc.Find("a").Each(func(i int, a *goquery.Selection) {
		if strings.TrimSpace(a.Text()) != aboutLinkText {
			return
		}
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		link, err := Resolve(baseURL, href)
		if err != nil {
			return
		}
		links = append(links, link)
	})

	return links
}

// ExtractAuthor extracts the raw fields of an author detail page
func (dp *DetailParser) ExtractAuthor(doc *goquery.Document) AuthorFields {
	root := doc.Selection
	return AuthorFields{
		Name:          textField(root, "h3.author-title"),
		BirthDate:     textField(root, "span.author-born-date"),
		BirthLocation: textField(root, "span.author-born-location"),
		Description:   textField(root, "div.author-description"),
	}
}

// ParseAuthorPage builds the Author record of a detail page. Missing fields
// are recorded as empty values.
func (dp *DetailParser) ParseAuthorPage(doc *goquery.Document, pageURL string) models.Author {
	fields := dp.ExtractAuthor(doc)
	return models.Author{
		Name:          strings.TrimSpace(fields.Name.Value),
		BirthDate:     strings.TrimSpace(fields.BirthDate.Value),
		BirthLocation: strings.ReplaceAll(strings.TrimSpace(fields.BirthLocation.Value), `"`, ""),
		Biography:     SanitizeBiography(fields.Description.Value),
		URL:           pageURL,
	}
}

// SanitizeBiography trims the text and removes commas, periods and quote characters
func SanitizeBiography(text string) string {
	return biographyReplacer.Replace(strings.TrimSpace(text))
}
