package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"quotes-scraper/dashboard"
	"quotes-scraper/rag"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// MissingQuestion is the error message for an empty question
const MissingQuestion = "Pergunta é obrigatória"

// NewHandler creates a Handler
func NewHandler(answerer Answerer, data *dashboard.Data) *Handler {
	return &Handler{
		answerer:  answerer,
		dashboard: data,
		started:   time.Now(),
	}
}

// Answer handles POST /responder
func (h *Handler) Answer(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Pergunta) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MissingQuestion})
		return
	}

	log.Info().Str("pergunta", req.Pergunta).Msg("Received question")
	answer, err := h.answerer.Ask(c.Request.Context(), req.Pergunta)
	if errors.Is(err, rag.ErrEmptyQuestion) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MissingQuestion})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("pergunta", req.Pergunta).Msg("Failed to answer question")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Não foi possível gerar a resposta"})
		return
	}

	c.JSON(http.StatusOK, AnswerResponse{Resposta: answer})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"rag":       h.answerer != nil,
		"dashboard": h.dashboard != nil,
	})
}

// DashboardPage handles GET /dashboard. Without an "autor" query parameter the
// first author is selected; an explicitly empty one selects nobody.
func (h *Handler) DashboardPage(c *gin.Context) {
	author, ok := c.GetQuery("autor")
	if !ok {
		if authors := h.dashboard.Authors(); len(authors) > 0 {
			author = authors[0]
		}
	}

	c.HTML(http.StatusOK, "dashboard", h.dashboard.NewPage(strings.TrimSpace(author)))
}

// ListAuthors handles GET /dashboard/authors
func (h *Handler) ListAuthors(c *gin.Context) {
	authors := h.dashboard.Authors()
	c.JSON(http.StatusOK, gin.H{
		"authors": authors,
		"total":   len(authors),
	})
}

// AuthorStats handles GET /dashboard/authors/:name with an optional ?tag=
func (h *Handler) AuthorStats(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	tag := strings.TrimSpace(c.Query("tag"))

	stats, err := h.dashboard.Stats(name, tag)
	switch {
	case errors.Is(err, dashboard.ErrNoAuthor):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: dashboard.NoAuthorSelected})
	case errors.Is(err, dashboard.ErrUnknownAuthor):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Autor não encontrado: " + name})
	case err != nil:
		log.Error().Err(err).Str("author", name).Msg("Failed to compute author stats")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusOK, stats)
	}
}
