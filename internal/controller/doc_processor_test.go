package controller

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/javagraph/docgen/internal/model"
	"github.com/javagraph/docgen/internal/service/doc"
	"github.com/javagraph/docgen/internal/service/llm"
)

type stubLLM struct {
	available bool
	response  string
}

func (s *stubLLM) IsServiceAvailable(ctx context.Context) bool             { return s.available }
func (s *stubLLM) IsModelAvailable(ctx context.Context, name string) bool  { return s.available }
func (s *stubLLM) PullModel(ctx context.Context, name string) bool         { return s.available }
func (s *stubLLM) ListAvailableModels(ctx context.Context) []string        { return nil }
func (s *stubLLM) GetModelInfo(ctx context.Context, name string) *llm.ModelInfo { return nil }
func (s *stubLLM) ModelName() string                                       { return "qwen3:8b" }

func (s *stubLLM) GenerateResponse(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	return s.response, nil
}

func (s *stubLLM) ChatCompletion(ctx context.Context, messages []llm.ChatMessage, opts llm.ChatOptions) (string, error) {
	return s.response, nil
}

func newProcessor(t *testing.T, client llm.Client, baseDir string) *DocProcessor {
	t.Helper()
	logger := zap.NewNop()
	javadoc := doc.NewJavadocGenerator(client, logger)
	methods, err := doc.NewMethodDocGenerator(javadoc, filepath.Join(baseDir, "methods"), 1, logger)
	if err != nil {
		t.Fatal(err)
	}
	classes, err := doc.NewClassDocGenerator(javadoc, filepath.Join(baseDir, "classes"), logger)
	if err != nil {
		t.Fatal(err)
	}
	return NewDocProcessor(methods, classes, logger)
}

func processorDataset(t *testing.T) *model.CodeDataset {
	t.Helper()
	foo, err := model.NewClassEntity("com.example.Foo", "", "public class Foo {}")
	if err != nil {
		t.Fatal(err)
	}
	bar, err := model.NewMethodEntity(
		model.MethodKey{ClassName: "com.example.Foo", MethodName: "bar"},
		"", "public void bar() {}", nil)
	if err != nil {
		t.Fatal(err)
	}
	return model.NewCodeDataset([]*model.ClassEntity{foo}, []*model.MethodEntity{bar})
}

func TestDocProcessorRun(t *testing.T) {
	baseDir := t.TempDir()
	proc := newProcessor(t, &stubLLM{available: true, response: "/** Does bar. */"}, baseDir)
	ds := processorDataset(t)

	stats, err := proc.Run(context.Background(), ds, true)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.Methods.Generated != 1 || stats.Classes.Generated != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if rate := stats.SuccessRate(); rate != 100.0 {
		t.Errorf("SuccessRate() = %v, want 100", rate)
	}

	methodFiles, _ := filepath.Glob(filepath.Join(baseDir, "methods", "*.json"))
	classFiles, _ := filepath.Glob(filepath.Join(baseDir, "classes", "*.json"))
	if len(methodFiles) != 1 || len(classFiles) != 1 {
		t.Errorf("transfer files = %d methods, %d classes, want 1 each",
			len(methodFiles), len(classFiles))
	}
}

func TestDocProcessorRunMethodsOnly(t *testing.T) {
	baseDir := t.TempDir()
	proc := newProcessor(t, &stubLLM{available: true, response: "/** Does bar. */"}, baseDir)

	stats, err := proc.Run(context.Background(), processorDataset(t), false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Methods.Generated != 1 {
		t.Errorf("method stats = %+v", stats.Methods)
	}
	if stats.Classes.Candidates != 0 {
		t.Errorf("class stats = %+v, want untouched", stats.Classes)
	}
}

func TestDocProcessorRunNotReady(t *testing.T) {
	proc := newProcessor(t, &stubLLM{available: false}, t.TempDir())

	if _, err := proc.Run(context.Background(), processorDataset(t), true); err == nil {
		t.Fatal("Run() error = nil, want error when LLM backend is unavailable")
	}
}

func TestRunStatsSuccessRateEmpty(t *testing.T) {
	var stats RunStats
	if rate := stats.SuccessRate(); rate != 100.0 {
		t.Errorf("SuccessRate() = %v, want 100 for empty run", rate)
	}
}
