package codegraph

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/javagraph/docgen/internal/service/llm"
)

// fakeChat replays canned completions and records the message history of
// each call
type fakeChat struct {
	completions []string
	calls       [][]llm.ChatMessage
}

func (f *fakeChat) ChatCompletion(ctx context.Context, messages []llm.ChatMessage, opts llm.ChatOptions) (string, error) {
	f.calls = append(f.calls, messages)
	if opts.Temperature != 0.0 {
		return "", errors.New("query generation must be deterministic")
	}
	response := f.completions[0]
	if len(f.completions) > 1 {
		f.completions = f.completions[1:]
	}
	return response, nil
}

// fakeGraphDB fails reads with errs in order, then succeeds
type fakeGraphDB struct {
	errs    []error
	queries []string
	records []map[string]any
}

func (f *fakeGraphDB) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	f.queries = append(f.queries, query)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return f.records, nil
}

func (f *fakeGraphDB) ExecuteWrite(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGraphDB) Close(ctx context.Context) error              { return nil }
func (f *fakeGraphDB) VerifyConnectivity(ctx context.Context) error { return nil }

func syntaxErr(msg string) error {
	return &neo4j.Neo4jError{Code: "Neo.ClientError.Statement.SyntaxError", Msg: msg}
}

func TestGraphQueryRun(t *testing.T) {
	chat := &fakeChat{completions: []string{"MATCH (c:Class) RETURN c.name"}}
	db := &fakeGraphDB{records: []map[string]any{{"c.name": "com.example.Foo"}}}
	query := NewGraphQuery(chat, db, zap.NewNop())

	result, err := query.Run(context.Background(), "List all classes")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Cypher != "MATCH (c:Class) RETURN c.name" {
		t.Errorf("result cypher = %q", result.Cypher)
	}
	if len(result.Records) != 1 || result.Records[0]["c.name"] != "com.example.Foo" {
		t.Errorf("result records = %v", result.Records)
	}

	if len(chat.calls) != 1 {
		t.Fatalf("chat called %d times, want 1", len(chat.calls))
	}
	messages := chat.calls[0]
	if messages[0].Role != llm.ChatRoleSystem || !strings.Contains(messages[0].Content, "HAS_METHOD") {
		t.Error("system message missing schema")
	}
	if messages[1].Role != llm.ChatRoleUser || messages[1].Content != "List all classes" {
		t.Errorf("user message = %+v", messages[1])
	}
}

func TestGraphQueryHealsSyntaxError(t *testing.T) {
	chat := &fakeChat{completions: []string{"MATCH (c:Clazz RETURN", "MATCH (c:Class) RETURN c.name"}}
	db := &fakeGraphDB{
		errs:    []error{syntaxErr("Invalid input 'RETURN'")},
		records: []map[string]any{{"c.name": "com.example.Foo"}},
	}
	query := NewGraphQuery(chat, db, zap.NewNop())

	result, err := query.Run(context.Background(), "List all classes")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Cypher != "MATCH (c:Class) RETURN c.name" {
		t.Errorf("healed cypher = %q", result.Cypher)
	}

	if len(chat.calls) != 2 {
		t.Fatalf("chat called %d times, want 2", len(chat.calls))
	}

	// the healing turn carries the failed query and the exact error
	healing := chat.calls[1]
	if len(healing) != 4 {
		t.Fatalf("healing call has %d messages, want 4", len(healing))
	}
	if healing[2].Role != llm.ChatRoleAssistant || healing[2].Content != "MATCH (c:Clazz RETURN" {
		t.Errorf("assistant message = %+v", healing[2])
	}
	if healing[3].Role != llm.ChatRoleUser ||
		!strings.Contains(healing[3].Content, "Invalid input 'RETURN'") ||
		!strings.Contains(healing[3].Content, "Give me a improved query") {
		t.Errorf("healing user message = %+v", healing[3])
	}
}

func TestGraphQueryGivesUpAfterOneHeal(t *testing.T) {
	chat := &fakeChat{completions: []string{"bad one", "bad two", "never asked"}}
	db := &fakeGraphDB{errs: []error{syntaxErr("first"), syntaxErr("second")}}
	query := NewGraphQuery(chat, db, zap.NewNop())

	_, err := query.Run(context.Background(), "List all classes")
	if !errors.Is(err, ErrInvalidQuerySyntax) {
		t.Fatalf("Run() error = %v, want ErrInvalidQuerySyntax", err)
	}
	if len(chat.calls) != 2 {
		t.Errorf("chat called %d times, want exactly 2", len(chat.calls))
	}
	if len(db.queries) != 2 {
		t.Errorf("database queried %d times, want exactly 2", len(db.queries))
	}
}

func TestGraphQueryNonSyntaxErrorNotHealed(t *testing.T) {
	chat := &fakeChat{completions: []string{"MATCH (c:Class) RETURN c.name"}}
	dbErr := errors.New("connection refused")
	db := &fakeGraphDB{errs: []error{dbErr}}
	query := NewGraphQuery(chat, db, zap.NewNop())

	_, err := query.Run(context.Background(), "List all classes")
	if !errors.Is(err, dbErr) {
		t.Fatalf("Run() error = %v, want underlying database error", err)
	}
	if len(chat.calls) != 1 {
		t.Errorf("chat called %d times, want 1", len(chat.calls))
	}
}

func TestIsSyntaxError(t *testing.T) {
	if !IsSyntaxError(syntaxErr("boom")) {
		t.Error("IsSyntaxError() = false for a syntax error")
	}
	wrapped := errors.Join(errors.New("outer"), syntaxErr("inner"))
	if !IsSyntaxError(wrapped) {
		t.Error("IsSyntaxError() = false for a wrapped syntax error")
	}
	other := &neo4j.Neo4jError{Code: "Neo.ClientError.Security.Unauthorized", Msg: "no"}
	if IsSyntaxError(other) {
		t.Error("IsSyntaxError() = true for a non-syntax error")
	}
	if IsSyntaxError(errors.New("plain")) {
		t.Error("IsSyntaxError() = true for a plain error")
	}
}
