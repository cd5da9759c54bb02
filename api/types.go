package api

import (
	"context"
	"time"

	"quotes-scraper/dashboard"
	"quotes-scraper/rag"
)

// Answerer answers free-form questions about the authors
type Answerer interface {
	Ask(ctx context.Context, question string) (string, error)
}

var _ Answerer = (*rag.Service)(nil)

// Handler serves the question endpoint and the dashboard. Either dependency
// may be nil, which disables its routes.
type Handler struct {
	answerer  Answerer
	dashboard *dashboard.Data
	started   time.Time
}

// QuestionRequest is the body of POST /responder
type QuestionRequest struct {
	Pergunta string `json:"pergunta"`
}

// AnswerResponse is the reply of POST /responder
type AnswerResponse struct {
	Resposta string `json:"resposta"`
}

// ErrorResponse is returned with every non-2xx status
type ErrorResponse struct {
	Error string `json:"error"`
}
