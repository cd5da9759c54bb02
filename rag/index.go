package rag

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
	"github.com/tmc/langchaingo/vectorstores/chroma"
)

// Gemini models used for answering and embedding
const (
	DefaultChatModel      = "gemini-2.0-flash-001"
	DefaultEmbeddingModel = "text-embedding-004"
)

// Config selects the model provider and vector store
type Config struct {
	GoogleAPIKey   string
	ChromaURL      string
	Collection     string
	ChatModel      string
	EmbeddingModel string
	TopK           int
}

// DocumentStore is the write side of a vector store
type DocumentStore interface {
	AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error)
}

// CollectionStore is a DocumentStore whose whole collection can be dropped
type CollectionStore interface {
	DocumentStore
	RemoveCollection() error
}

// Rebuild drops the collection opened by open and indexes docs into a fresh
// one, so a restart does not stack copies of the same chunks.
func Rebuild[S CollectionStore](ctx context.Context, open func() (S, error), docs []schema.Document) (S, int, error) {
	var zero S

	stale, err := open()
	if err != nil {
		return zero, 0, err
	}
	if err := stale.RemoveCollection(); err != nil {
		return zero, 0, fmt.Errorf("failed to reset vector store collection: %w", err)
	}

	store, err := open()
	if err != nil {
		return zero, 0, err
	}
	n, err := Index(ctx, store, docs)
	if err != nil {
		return zero, 0, err
	}
	return store, n, nil
}

// Index splits docs into chunks and adds them to store. It returns the
// number of chunks stored.
func Index(ctx context.Context, store DocumentStore, docs []schema.Document) (int, error) {
	chunks, err := SplitDocuments(docs)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no documents to index")
	}

	if _, err := store.AddDocuments(ctx, chunks); err != nil {
		return 0, fmt.Errorf("failed to add documents to vector store: %w", err)
	}

	log.Info().Int("documents", len(docs)).Int("chunks", len(chunks)).Msg("Indexed author documents")
	return len(chunks), nil
}

// Build loads the authors CSV at path, embeds it into Chroma with Gemini
// embeddings and returns a Service answering with the Gemini chat model
func Build(ctx context.Context, cfg Config, path string) (*Service, error) {
	if cfg.GoogleAPIKey == "" {
		return nil, fmt.Errorf("google API key is required")
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}

	docs, err := LoadAuthorDocuments(path)
	if err != nil {
		return nil, err
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.GoogleAPIKey),
		googleai.WithDefaultModel(cfg.ChatModel),
		googleai.WithDefaultEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	openStore := func() (chroma.Store, error) {
		store, err := chroma.New(
			chroma.WithChromaURL(cfg.ChromaURL),
			chroma.WithEmbedder(embedder),
			chroma.WithNameSpace(cfg.Collection),
		)
		if err != nil {
			return store, fmt.Errorf("failed to create Chroma store: %w", err)
		}
		return store, nil
	}

	store, _, err := Rebuild(ctx, openStore, docs)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("chat_model", cfg.ChatModel).
		Str("embedding_model", cfg.EmbeddingModel).
		Int("top_k", cfg.TopK).
		Msg("RAG pipeline ready")
	return NewService(llm, vectorstores.ToRetriever(store, cfg.TopK)), nil
}
