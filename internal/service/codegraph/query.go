package codegraph

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/javagraph/docgen/internal/service/llm"
)

// ErrInvalidQuerySyntax is returned when the generated Cypher is still
// syntactically invalid after the healing retry
var ErrInvalidQuerySyntax = errors.New("invalid Cypher syntax")

// chatClient is the slice of the LLM client the query loop needs
type chatClient interface {
	ChatCompletion(ctx context.Context, messages []llm.ChatMessage, opts llm.ChatOptions) (string, error)
}

// QueryResult holds the outcome of a natural language graph query
type QueryResult struct {
	// Cypher is the final query that was executed
	Cypher string
	// Records are the raw result rows
	Records []map[string]any
}

// GraphQuery answers natural language questions about the code graph by
// generating Cypher with an LLM and executing it. A syntactically invalid
// query is healed once by feeding the exact database error back to the
// model; a second syntax failure aborts with ErrInvalidQuerySyntax.
type GraphQuery struct {
	llm    chatClient
	db     GraphDatabase
	logger *zap.Logger
}

// NewGraphQuery creates a graph query service
func NewGraphQuery(client chatClient, db GraphDatabase, logger *zap.Logger) *GraphQuery {
	return &GraphQuery{llm: client, db: db, logger: logger}
}

// Run answers a natural language question against the graph
func (q *GraphQuery) Run(ctx context.Context, question string) (*QueryResult, error) {
	return q.run(ctx, question, nil, true)
}

func (q *GraphQuery) run(ctx context.Context, question string, history []llm.ChatMessage, retry bool) (*QueryResult, error) {
	cypher, err := q.constructCypher(ctx, question, history)
	if err != nil {
		return nil, fmt.Errorf("failed to construct Cypher: %w", err)
	}
	q.logger.Info("Generated Cypher query", zap.String("cypher", cypher))

	records, err := q.db.ExecuteRead(ctx, cypher, nil)
	if err == nil {
		return &QueryResult{Cypher: cypher, Records: records}, nil
	}

	if !IsSyntaxError(err) {
		return nil, err
	}
	if !retry {
		return nil, ErrInvalidQuerySyntax
	}

	q.logger.Info("Retrying with healing context", zap.Error(err))
	healing := []llm.ChatMessage{
		{Role: llm.ChatRoleAssistant, Content: cypher},
		{
			Role: llm.ChatRoleUser,
			Content: fmt.Sprintf("This query returns an error: %s "+
				"Give me a improved query that works without any explanations or apologies", err),
		},
	}
	return q.run(ctx, question, healing, false)
}

// constructCypher asks the model for a Cypher statement. The healing
// history, when present, follows the original question.
func (q *GraphQuery) constructCypher(ctx context.Context, question string, history []llm.ChatMessage) (string, error) {
	messages := []llm.ChatMessage{
		{Role: llm.ChatRoleSystem, Content: SystemMessage()},
		{Role: llm.ChatRoleUser, Content: question},
	}
	messages = append(messages, history...)

	return q.llm.ChatCompletion(ctx, messages, llm.ChatOptions{Temperature: 0.0})
}
