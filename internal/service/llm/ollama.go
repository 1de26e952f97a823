package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// OllamaClient implements Client against the Ollama HTTP API
type OllamaClient struct {
	config Config
	logger *zap.Logger
	client *http.Client
}

// NewOllamaClient creates a new Ollama client, filling unset config fields
// with the documented defaults
func NewOllamaClient(config Config, logger *zap.Logger) (*OllamaClient, error) {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.Temperature == 0 {
		config.Temperature = defaults.Temperature
	}
	if config.TopP == 0 {
		config.TopP = defaults.TopP
	}

	return &OllamaClient{
		config: config,
		logger: logger,
		client: &http.Client{Timeout: config.Timeout},
	}, nil
}

// ollamaOptions mirrors the "options" object of the Ollama API
type ollamaOptions struct {
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	Stop        []string `json:"stop,omitempty"`
}

// ollamaGenerateRequest represents the request body for the generate API
type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options *ollamaOptions `json:"options,omitempty"`
}

// ollamaGenerateResponse represents the response from the generate API
type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// ollamaChatRequest represents the request body for the chat API
type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []ChatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  *ollamaOptions `json:"options,omitempty"`
}

// ollamaChatResponse represents the response from the chat API
type ollamaChatResponse struct {
	Message ChatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// ollamaTagsResponse represents the response from the tags (list) API
type ollamaTagsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ollamaPullRequest represents the request body for the pull API
type ollamaPullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

// IsServiceAvailable checks whether the Ollama service is reachable.
// Any failure is treated as unavailable, never propagated.
func (o *OllamaClient) IsServiceAvailable(ctx context.Context) bool {
	if _, err := o.listModels(ctx); err != nil {
		o.logger.Debug("Ollama service check failed", zap.Error(err))
		return false
	}
	return true
}

// IsModelAvailable checks whether the named model is served. An empty name
// checks the configured default. Matching accepts the target as a prefix
// of, or a substring of, any reported model name.
func (o *OllamaClient) IsModelAvailable(ctx context.Context, modelName string) bool {
	target := modelName
	if target == "" {
		target = o.config.Model
	}

	models, err := o.listModels(ctx)
	if err != nil {
		o.logger.Error("Failed to check model availability", zap.Error(err))
		return false
	}

	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Model)
		if strings.Contains(m.Model, target) || strings.HasPrefix(m.Model, target) {
			return true
		}
	}

	o.logger.Warn("Model not found",
		zap.String("model", target),
		zap.Strings("available_models", names))
	return false
}

// GenerateResponse submits a prompt and returns the trimmed response.
// The model is verified first and the call fails fast if it is absent.
// Each attempt is independent; the first non-empty response wins.
func (o *OllamaClient) GenerateResponse(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = o.config.Model
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = o.config.Temperature
	}
	topP := opts.TopP
	if topP == 0 {
		topP = o.config.TopP
	}
	retries := opts.MaxRetries
	if retries <= 0 {
		retries = o.config.MaxRetries
	}

	if !o.IsModelAvailable(ctx, model) {
		o.logger.Error("Model is not available", zap.String("model", model))
		return "", fmt.Errorf("model %q is not available", model)
	}

	reqBody := ollamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: &ollamaOptions{
			Temperature: temperature,
			TopP:        topP,
			Stop:        opts.StopSequences,
		},
	}

	for attempt := 1; attempt <= retries; attempt++ {
		o.logger.Debug("Making LLM request",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", retries),
			zap.Int("prompt_length", len(prompt)))

		var genResp ollamaGenerateResponse
		if err := o.post(ctx, "/api/generate", reqBody, &genResp); err != nil {
			o.logger.Warn("Request failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}

		if result := strings.TrimSpace(genResp.Response); result != "" {
			o.logger.Debug("Successfully generated LLM response")
			return result, nil
		}
	}

	o.logger.Error("All attempts failed to generate response",
		zap.String("model", model),
		zap.Int("attempts", retries))
	return "", fmt.Errorf("no response from model %q after %d attempts", model, retries)
}

// ChatCompletion submits a chat conversation and returns the trimmed
// assistant content. Single attempt; callers layer their own retry policy.
func (o *OllamaClient) ChatCompletion(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = o.config.Model
	}

	reqBody := ollamaChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options: &ollamaOptions{
			Temperature: opts.Temperature,
			TopP:        opts.TopP,
		},
	}

	var chatResp ollamaChatResponse
	if err := o.post(ctx, "/api/chat", reqBody, &chatResp); err != nil {
		o.logger.Error("Chat completion failed", zap.Error(err))
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	return strings.TrimSpace(chatResp.Message.Content), nil
}

// PullModel pulls the named model if it is not already available.
// Returns true when the model is available afterwards.
func (o *OllamaClient) PullModel(ctx context.Context, modelName string) bool {
	target := modelName
	if target == "" {
		target = o.config.Model
	}

	if o.IsModelAvailable(ctx, target) {
		o.logger.Info("Model is already available", zap.String("model", target))
		return true
	}

	o.logger.Info("Pulling model", zap.String("model", target))
	if err := o.post(ctx, "/api/pull", ollamaPullRequest{Name: target, Stream: false}, nil); err != nil {
		o.logger.Error("Failed to pull model", zap.String("model", target), zap.Error(err))
		return false
	}

	o.logger.Info("Successfully pulled model", zap.String("model", target))
	return true
}

// ListAvailableModels returns the names of all served models, or an empty
// list on failure
func (o *OllamaClient) ListAvailableModels(ctx context.Context) []string {
	models, err := o.listModels(ctx)
	if err != nil {
		o.logger.Error("Failed to list models", zap.Error(err))
		return nil
	}

	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Model)
	}
	return names
}

// GetModelInfo returns the service's record for the named model (matched
// the same way as IsModelAvailable), or nil if it is not served
func (o *OllamaClient) GetModelInfo(ctx context.Context, modelName string) *ModelInfo {
	target := modelName
	if target == "" {
		target = o.config.Model
	}

	models, err := o.listModels(ctx)
	if err != nil {
		o.logger.Error("Failed to get model info", zap.Error(err))
		return nil
	}

	for i := range models {
		if strings.Contains(models[i].Model, target) || strings.HasPrefix(models[i].Model, target) {
			return &models[i]
		}
	}
	return nil
}

// ModelName returns the configured default model
func (o *OllamaClient) ModelName() string {
	return o.config.Model
}

// listModels fetches the served model list from the tags API
func (o *OllamaClient) listModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return tags.Models, nil
}

// post sends a JSON request body and decodes the JSON response into out
// (which may be nil when the response body is irrelevant)
func (o *OllamaClient) post(ctx context.Context, path string, body any, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.config.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
