package llm

import (
	"context"
	"time"
)

// Client is the technical access layer for a generative model service.
// Availability probes and auxiliary operations degrade to false/empty on
// failure; only generation itself surfaces errors, and callers are expected
// to treat those as "no output produced" rather than as a crash.
type Client interface {
	// IsServiceAvailable checks whether the model service is reachable
	IsServiceAvailable(ctx context.Context) bool

	// IsModelAvailable checks whether the named model (or the configured
	// default when empty) is served, matching by prefix or substring
	IsModelAvailable(ctx context.Context, modelName string) bool

	// GenerateResponse submits a prompt and returns the trimmed response,
	// retrying up to the configured attempt count
	GenerateResponse(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ChatCompletion submits a chat conversation and returns the trimmed
	// assistant content; a single attempt, no retries
	ChatCompletion(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// PullModel pulls the named model if it is not already available
	PullModel(ctx context.Context, modelName string) bool

	// ListAvailableModels returns the names of all served models
	ListAvailableModels(ctx context.Context) []string

	// GetModelInfo returns the service's record for the named model, or
	// nil if it is not served
	GetModelInfo(ctx context.Context, modelName string) *ModelInfo

	// ModelName returns the configured default model
	ModelName() string
}

// Chat message roles
const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one turn of a chat conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateOptions contains per-call options for text generation.
// Zero values fall back to the client configuration.
type GenerateOptions struct {
	Model         string   // Optional model override
	Temperature   float64  // Sampling temperature (0.0-1.0)
	TopP          float64  // Top-p sampling
	StopSequences []string // Stop sequences passed through to the service
	MaxRetries    int      // Maximum attempts before giving up
}

// ChatOptions contains per-call options for chat completions. Unlike
// GenerateOptions the sampling values are literal, so a zero temperature
// means deterministic decoding.
type ChatOptions struct {
	Model       string
	Temperature float64
	TopP        float64
}

// ModelInfo is the service's record for one served model
type ModelInfo struct {
	Name       string `json:"name"`
	Model      string `json:"model"`
	ModifiedAt string `json:"modified_at,omitempty"`
	Size       int64  `json:"size,omitempty"`
	Digest     string `json:"digest,omitempty"`
}

// Config holds configuration for the model client
type Config struct {
	BaseURL     string        // e.g., "http://localhost:11434"
	Model       string        // e.g., "qwen3:8b"
	Timeout     time.Duration // Per-request timeout
	MaxRetries  int           // Default attempt count for GenerateResponse
	Temperature float64       // Default sampling temperature
	TopP        float64       // Default top-p
}

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:     "http://localhost:11434",
		Model:       "qwen3:8b",
		Timeout:     60 * time.Second,
		MaxRetries:  3,
		Temperature: 0.3,
		TopP:        0.9,
	}
}
