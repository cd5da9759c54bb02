package rag

import (
	"fmt"

	"quotes-scraper/csvio"
	"quotes-scraper/models"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// Chunking parameters for author documents
const (
	ChunkSize    = 1000
	ChunkOverlap = 100
)

// AuthorDocument renders one author as a retrievable document. The four CSV
// fields are kept as metadata under their column names.
func AuthorDocument(a models.Author) schema.Document {
	content := fmt.Sprintf("%s: %s\n %s: %s\n %s: %s \n %s: %s",
		models.ColumnAuthorName, a.Name,
		models.ColumnAuthorBirthDate, a.BirthDate,
		models.ColumnAuthorBirthLocation, a.BirthLocation,
		models.ColumnAuthorDescription, a.Biography,
	)

	return schema.Document{
		PageContent: content,
		Metadata: map[string]any{
			models.ColumnAuthorName:          a.Name,
			models.ColumnAuthorBirthDate:     a.BirthDate,
			models.ColumnAuthorBirthLocation: a.BirthLocation,
			models.ColumnAuthorDescription:   a.Biography,
		},
	}
}

// LoadAuthorDocuments reads an authors CSV, normally the deduplicated one,
// and returns one document per row
func LoadAuthorDocuments(path string) ([]schema.Document, error) {
	authors, err := csvio.ReadAuthors(path)
	if err != nil {
		return nil, err
	}

	docs := make([]schema.Document, 0, len(authors))
	for _, a := range authors {
		docs = append(docs, AuthorDocument(a))
	}
	return docs, nil
}

// NewSplitter returns the recursive character splitter used for author documents
func NewSplitter() textsplitter.TextSplitter {
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(ChunkSize),
		textsplitter.WithChunkOverlap(ChunkOverlap),
	)
}

// SplitDocuments chunks documents, copying their metadata to every chunk
func SplitDocuments(docs []schema.Document) ([]schema.Document, error) {
	chunks, err := textsplitter.SplitDocuments(NewSplitter(), docs)
	if err != nil {
		return nil, fmt.Errorf("failed to split documents: %w", err)
	}
	return chunks, nil
}
