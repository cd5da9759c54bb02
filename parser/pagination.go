package parser

import (
	"github.com/PuerkitoBio/goquery"
)

// NextPage returns the absolute URL of the next listing page, resolved against
// baseURL, and false when the page has no "next" link.
func NextPage(doc *goquery.Document, baseURL string) (string, bool) {
	href, ok := doc.Find("li.next a").First().Attr("href")
	if !ok || href == "" {
		return "", false
	}

	next, err := Resolve(baseURL, href)
	if err != nil {
		return "", false
	}
	return next, true
}
