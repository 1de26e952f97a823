package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/javagraph/docgen/internal/service/codegraph"
	"github.com/javagraph/docgen/internal/service/vector"
)

// APIController exposes graph questions and documentation search over HTTP
type APIController struct {
	graphQuery *codegraph.GraphQuery
	docIndex   *vector.DocIndex
	logger     *zap.Logger
}

// NewAPIController creates the HTTP controller
func NewAPIController(graphQuery *codegraph.GraphQuery, docIndex *vector.DocIndex, logger *zap.Logger) *APIController {
	return &APIController{
		graphQuery: graphQuery,
		docIndex:   docIndex,
		logger:     logger,
	}
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

type AskResponse struct {
	Question string           `json:"question"`
	Cypher   string           `json:"cypher"`
	Records  []map[string]any `json:"records"`
}

// Ask answers a natural language question about the code graph
func (ac *APIController) Ask(c *gin.Context) {
	var request AskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		ac.logger.Error("Invalid request payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	result, err := ac.graphQuery.Run(c.Request.Context(), request.Question)
	if err != nil {
		ac.logger.Error("Graph query failed",
			zap.String("question", request.Question),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Query failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, AskResponse{
		Question: request.Question,
		Cypher:   result.Cypher,
		Records:  result.Records,
	})
}

type SearchDocsRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
	Kind  string `json:"kind"` // "class", "method" or empty for both
}

type DocSearchResult struct {
	Key   string  `json:"key"`
	Kind  string  `json:"kind"`
	Text  string  `json:"text"`
	Score float32 `json:"score"`
}

type SearchDocsResponse struct {
	Query   string            `json:"query"`
	Results []DocSearchResult `json:"results"`
}

// SearchDocs finds documentation entries similar to the query text
func (ac *APIController) SearchDocs(c *gin.Context) {
	var request SearchDocsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		ac.logger.Error("Invalid request payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	limit := request.Limit
	if limit <= 0 {
		limit = 10
	}

	entries, scores, err := ac.docIndex.Search(c.Request.Context(), request.Query, limit, vector.EntryKind(request.Kind))
	if err != nil {
		ac.logger.Error("Documentation search failed",
			zap.String("query", request.Query),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Search failed",
			"details": err.Error(),
		})
		return
	}

	results := make([]DocSearchResult, 0, len(entries))
	for i, entry := range entries {
		results = append(results, DocSearchResult{
			Key:   entry.Key,
			Kind:  string(entry.Kind),
			Text:  entry.Text,
			Score: scores[i],
		})
	}

	c.JSON(http.StatusOK, SearchDocsResponse{
		Query:   request.Query,
		Results: results,
	})
}
