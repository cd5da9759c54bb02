// Package rag answers questions about the scraped authors with
// retrieval-augmented generation over the deduplicated authors CSV.
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/schema"
)

// DefaultTopK is the number of chunks retrieved per question
const DefaultTopK = 3

// DefaultTemperature is the sampling temperature used for answers
const DefaultTemperature = 0.7

// ErrEmptyQuestion is returned by Ask for a blank question
var ErrEmptyQuestion = errors.New("rag: question must not be empty")

const answerTemplate = `
Você é um especialista em informações sobre autores.
Sua tarefa é responder perguntas do usuário usando apenas o contexto fornecido.
Se a resposta não estiver no contexto, diga que a informação não está disponível.

## Contexto

{{.contexto_recuperado}}

## Pergunta

{{.pergunta_do_usuario}}

## Instruções para a Resposta

1.  Identifique o autor, a data de nascimento, o local de nascimento, a descrição no contexto.
2.  Combine as informações relevantes para responder à pergunta do usuário de forma clara e concisa.
3.  Se a pergunta for sobre um autor, apresente os dados em um texto com linguagem simples de forma clara.
4.  Mantenha a resposta direta, sem adicionar informações extras ou fazer suposições.
`

// Retriever returns the documents most relevant to a query
type Retriever interface {
	GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error)
}

// Service answers questions from retrieved author chunks
type Service struct {
	llm         llms.Model
	retriever   Retriever
	prompt      prompts.PromptTemplate
	temperature float64
}

// NewService creates a Service
func NewService(llm llms.Model, retriever Retriever) *Service {
	return &Service{
		llm:         llm,
		retriever:   retriever,
		prompt:      prompts.NewPromptTemplate(answerTemplate, []string{"contexto_recuperado", "pergunta_do_usuario"}),
		temperature: DefaultTemperature,
	}
}

// Ask retrieves the chunks relevant to question and has the model answer
// from them only
func (s *Service) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	docs, err := s.retriever.GetRelevantDocuments(ctx, question)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve context: %w", err)
	}
	log.Debug().Str("question", question).Int("chunks", len(docs)).Msg("Retrieved context")

	prompt, err := s.prompt.Format(map[string]any{
		"contexto_recuperado": JoinDocuments(docs),
		"pergunta_do_usuario": question,
	})
	if err != nil {
		return "", fmt.Errorf("failed to format prompt: %w", err)
	}

	answer, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(s.temperature))
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	log.Info().Str("question", question).Int("answer_len", len(answer)).Msg("Answered question")
	return answer, nil
}

// JoinDocuments concatenates the page content of docs, separated by blank lines
func JoinDocuments(docs []schema.Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, d.PageContent)
	}
	return strings.Join(parts, "\n\n")
}
