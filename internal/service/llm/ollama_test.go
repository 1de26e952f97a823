package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, baseURL string) *OllamaClient {
	t.Helper()
	client, err := NewOllamaClient(Config{
		BaseURL:    baseURL,
		Model:      "qwen3:8b",
		Timeout:    5 * time.Second,
		MaxRetries: 3,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOllamaClient() error = %v", err)
	}
	return client
}

func tagsHandler(models ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos := make([]ModelInfo, 0, len(models))
		for _, m := range models {
			infos = append(infos, ModelInfo{Name: m, Model: m})
		}
		json.NewEncoder(w).Encode(ollamaTagsResponse{Models: infos})
	}
}

func TestIsServiceAvailable(t *testing.T) {
	server := httptest.NewServer(tagsHandler("qwen3:8b"))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if !client.IsServiceAvailable(context.Background()) {
		t.Error("IsServiceAvailable() = false, want true")
	}

	server.Close()
	if client.IsServiceAvailable(context.Background()) {
		t.Error("IsServiceAvailable() = true after shutdown, want false")
	}
}

func TestIsModelAvailable(t *testing.T) {
	server := httptest.NewServer(tagsHandler("qwen3:8b-q4_K_M", "llama3:latest"))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	tests := []struct {
		name  string
		model string
		want  bool
	}{
		{"exact prefix match", "qwen3:8b", true},
		{"substring match", "llama3", true},
		{"default model when empty", "", true},
		{"missing model", "mistral:7b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := client.IsModelAvailable(ctx, tt.model); got != tt.want {
				t.Errorf("IsModelAvailable(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestGenerateResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", tagsHandler("qwen3:8b"))
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Stream {
			t.Error("generate request has stream=true, want false")
		}
		json.NewEncoder(w).Encode(ollamaGenerateResponse{
			Model:    req.Model,
			Response: "  /** Does things. */  ",
			Done:     true,
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	got, err := client.GenerateResponse(context.Background(), "describe foo", GenerateOptions{})
	if err != nil {
		t.Fatalf("GenerateResponse() error = %v", err)
	}
	if want := "/** Does things. */"; got != want {
		t.Errorf("GenerateResponse() = %q, want %q", got, want)
	}
}

func TestGenerateResponseRetriesOnEmpty(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", tagsHandler("qwen3:8b"))
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		resp := ollamaGenerateResponse{Done: true}
		if n >= 2 {
			resp.Response = "second try"
		}
		json.NewEncoder(w).Encode(resp)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	got, err := client.GenerateResponse(context.Background(), "prompt", GenerateOptions{})
	if err != nil {
		t.Fatalf("GenerateResponse() error = %v", err)
	}
	if got != "second try" {
		t.Errorf("GenerateResponse() = %q, want %q", got, "second try")
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("generate calls = %d, want 2", n)
	}
}

func TestGenerateResponseExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", tagsHandler("qwen3:8b"))
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Done: true})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.GenerateResponse(context.Background(), "prompt", GenerateOptions{MaxRetries: 2})
	if err == nil {
		t.Fatal("GenerateResponse() error = nil, want error after exhausted attempts")
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("generate calls = %d, want 2", n)
	}
}

func TestGenerateResponseFailsFastOnMissingModel(t *testing.T) {
	var generateCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", tagsHandler("llama3:latest"))
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		generateCalls.Add(1)
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "x", Done: true})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.GenerateResponse(context.Background(), "prompt", GenerateOptions{})
	if err == nil {
		t.Fatal("GenerateResponse() error = nil, want error for missing model")
	}
	if n := generateCalls.Load(); n != 0 {
		t.Errorf("generate calls = %d, want 0", n)
	}
}

func TestChatCompletion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Messages) != 2 {
			t.Errorf("chat messages = %d, want 2", len(req.Messages))
		}
		if req.Options == nil || req.Options.Temperature != 0 {
			t.Error("chat options temperature should pass through as given")
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ChatMessage{Role: ChatRoleAssistant, Content: "MATCH (c:Class) RETURN c.name\n"},
			Done:    true,
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	got, err := client.ChatCompletion(context.Background(), []ChatMessage{
		{Role: ChatRoleSystem, Content: "You generate Cypher."},
		{Role: ChatRoleUser, Content: "List all classes."},
	}, ChatOptions{Temperature: 0.0})
	if err != nil {
		t.Fatalf("ChatCompletion() error = %v", err)
	}
	if want := "MATCH (c:Class) RETURN c.name"; got != want {
		t.Errorf("ChatCompletion() = %q, want %q", got, want)
	}
}

func TestListAvailableModels(t *testing.T) {
	server := httptest.NewServer(tagsHandler("qwen3:8b", "llama3:latest"))
	defer server.Close()

	client := newTestClient(t, server.URL)
	models := client.ListAvailableModels(context.Background())
	if len(models) != 2 {
		t.Fatalf("ListAvailableModels() returned %d models, want 2", len(models))
	}
	if models[0] != "qwen3:8b" || models[1] != "llama3:latest" {
		t.Errorf("ListAvailableModels() = %v", models)
	}
}
