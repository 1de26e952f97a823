package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// NomicEmbedText is the default 768-dimensional embedding model
const NomicEmbedText = "nomic-embed-text"

var modelDimensions = map[string]int{
	NomicEmbedText:      768,
	"all-minilm":        384,
	"mxbai-embed-large": 1024,
}

// OllamaEmbedding implements EmbeddingModel using the Ollama embeddings API
type OllamaEmbedding struct {
	apiURL    string
	model     string
	dimension int
	logger    *zap.Logger
	client    *http.Client
}

// OllamaEmbeddingConfig holds configuration for the Ollama embedding model
type OllamaEmbeddingConfig struct {
	APIURL    string
	Model     string
	Dimension int
}

// NewOllamaEmbedding creates a new Ollama embedding model client
func NewOllamaEmbedding(config OllamaEmbeddingConfig, logger *zap.Logger) (*OllamaEmbedding, error) {
	if config.APIURL == "" {
		config.APIURL = "http://localhost:11434"
	}
	if config.Model == "" {
		config.Model = NomicEmbedText
	}

	dimension := config.Dimension
	if dimension == 0 {
		if knownDim, ok := modelDimensions[config.Model]; ok {
			dimension = knownDim
		} else {
			dimension = 768
		}
	}

	return &OllamaEmbedding{
		apiURL:    config.APIURL,
		model:     config.Model,
		dimension: dimension,
		logger:    logger,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// GenerateEmbedding generates a vector embedding for the given text
func (o *OllamaEmbedding) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	jsonData, err := json.Marshal(ollamaEmbeddingRequest{Model: o.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.apiURL+"/api/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var embeddingResp ollamaEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embeddingResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	embedding := make([]float32, len(embeddingResp.Embedding))
	for i, v := range embeddingResp.Embedding {
		embedding[i] = float32(v)
	}
	return embedding, nil
}

// GetDimension returns the dimension of the embedding vectors
func (o *OllamaEmbedding) GetDimension() int {
	return o.dimension
}

// GetModelName returns the name of the embedding model being used
func (o *OllamaEmbedding) GetModelName() string {
	return o.model
}
