package filter

import (
	"testing"

	"quotes-scraper/models"

	"github.com/stretchr/testify/assert"
)

var quotes = []models.Quote{
	{Author: "Albert Einstein", Text: "Q1", Tags: []string{"change", "world"}},
	{Author: "Mark Twain", Text: "Q2", Tags: []string{"humor"}},
	{Author: "Albert Einstein", Text: "Q3", Tags: []string{"life"}},
	{Author: "albert einstein", Text: "Q4", Tags: []string{}},
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"no criteria", Criteria{}, []string{"Q1", "Q2", "Q3", "Q4"}},
		{"author", Criteria{Author: "Albert Einstein"}, []string{"Q1", "Q3"}},
		{"tag", Criteria{Tag: "humor"}, []string{"Q2"}},
		{"author and tag", Criteria{Author: "Albert Einstein", Tag: "life"}, []string{"Q3"}},
		{"no match", Criteria{Author: "Nobody"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewFilter(tt.criteria).Apply(quotes)
			texts := []string{}
			for _, q := range got {
				texts = append(texts, q.Text)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestByAuthor(t *testing.T) {
	got := ByAuthor(quotes, "Mark Twain")
	assert.Len(t, got, 1)
	assert.Equal(t, "Q2", got[0].Text)

	assert.Empty(t, ByAuthor(quotes, "Jane Austen"))
	assert.NotNil(t, ByAuthor(nil, "Jane Austen"))
}
