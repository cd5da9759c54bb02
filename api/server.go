// Package api serves the question-answering endpoint and the quotes dashboard.
package api

import (
	"fmt"
	"net/http"
	"time"

	"quotes-scraper/dashboard"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	setupRoutes(r, handler)
	return r
}

// corsMiddleware allows the chat frontend to call the API from another origin
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/health", handler.HealthCheck)

	endpoints := map[string]string{"health": "/health"}

	if handler.answerer != nil {
		r.POST("/responder", handler.Answer)
		endpoints["responder"] = "POST /responder {\"pergunta\": \"...\"}"
	} else {
		log.Warn().Msg("Question endpoint disabled (no RAG service configured)")
	}

	if handler.dashboard != nil {
		r.SetHTMLTemplate(dashboard.Template)
		r.GET("/dashboard", handler.DashboardPage)
		r.GET("/dashboard/authors", handler.ListAuthors)
		r.GET("/dashboard/authors/:name", handler.AuthorStats)
		endpoints["dashboard"] = "/dashboard?autor=<name>"
		endpoints["authors"] = "/dashboard/authors"
		endpoints["author"] = "/dashboard/authors/<name>"
	} else {
		log.Warn().Msg("Dashboard disabled (no quotes data loaded)")
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     "quotes-scraper",
			"description": "Perguntas sobre os autores de https://quotes.toscrape.com e dashboard de citações",
			"endpoints":   endpoints,
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}
