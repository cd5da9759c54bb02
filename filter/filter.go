package filter

import (
	"quotes-scraper/models"
)

// Criteria selects quotes. Empty fields match everything.
type Criteria struct {
	Author string
	Tag    string
}

// Filter applies filter criteria to quotes
type Filter struct {
	criteria Criteria
}

// NewFilter creates a new Filter instance
func NewFilter(criteria Criteria) *Filter {
	return &Filter{
		criteria: criteria,
	}
}

// Apply returns the matching quotes in their original order
func (f *Filter) Apply(quotes []models.Quote) []models.Quote {
	filtered := []models.Quote{}

	for _, q := range quotes {
		if f.matches(q) {
			filtered = append(filtered, q)
		}
	}

	return filtered
}

// matches checks if a quote matches all filter criteria
func (f *Filter) matches(q models.Quote) bool {
	// Author names are compared exactly, the same way duplicates are detected
	if f.criteria.Author != "" && q.Author != f.criteria.Author {
		return false
	}

	if f.criteria.Tag != "" && !hasTag(q, f.criteria.Tag) {
		return false
	}

	return true
}

func hasTag(q models.Quote, tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ByAuthor returns the quotes attributed to author
func ByAuthor(quotes []models.Quote, author string) []models.Quote {
	return NewFilter(Criteria{Author: author}).Apply(quotes)
}
