package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v2"
)

// DatasetConfig locates the structural extraction files and the transfer
// directories for generated documentation
type DatasetConfig struct {
	BasePath     string `yaml:"base_path"`
	ClassesFile  string `yaml:"classes_file"`
	MethodsFile  string `yaml:"methods_file"`
	OutputDir    string `yaml:"output_dir"`
	Name         string `yaml:"name,omitempty"` // identifies the dataset in caches and indexes
}

// GetDefaults returns DatasetConfig with default values applied
func (c *DatasetConfig) GetDefaults() DatasetConfig {
	result := *c
	if result.BasePath == "" {
		result.BasePath = "."
	}
	if result.ClassesFile == "" {
		result.ClassesFile = "java_classes.json"
	}
	if result.MethodsFile == "" {
		result.MethodsFile = "java_methods.json"
	}
	if result.OutputDir == "" {
		result.OutputDir = "generated"
	}
	if result.Name == "" {
		result.Name = "default"
	}
	return result
}

// ClassesPath returns the full path to the classes file
func (c DatasetConfig) ClassesPath() string {
	return filepath.Join(c.BasePath, c.ClassesFile)
}

// MethodsPath returns the full path to the methods file
func (c DatasetConfig) MethodsPath() string {
	return filepath.Join(c.BasePath, c.MethodsFile)
}

// ClassesOutputDir returns the transfer directory for class records
func (c DatasetConfig) ClassesOutputDir() string {
	return filepath.Join(c.BasePath, c.OutputDir, "classes")
}

// MethodsOutputDir returns the transfer directory for method records
func (c DatasetConfig) MethodsOutputDir() string {
	return filepath.Join(c.BasePath, c.OutputDir, "methods")
}

type OllamaConfig struct {
	URL            string  `yaml:"url"`
	Model          string  `yaml:"model"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxRetries     int     `yaml:"max_retries"`
	Temperature    float64 `yaml:"temperature"`
	TopP           float64 `yaml:"top_p"`
	QueryModel     string  `yaml:"query_model,omitempty"`     // model for Cypher generation
	EmbeddingModel string  `yaml:"embedding_model,omitempty"` // model for doc embeddings
	Dimension      int     `yaml:"dimension,omitempty"`
}

// Timeout returns the request timeout as a duration
func (c OllamaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetDefaults returns OllamaConfig with default values applied
func (c *OllamaConfig) GetDefaults() OllamaConfig {
	result := *c
	if result.URL == "" {
		result.URL = "http://localhost:11434"
	}
	if result.Model == "" {
		result.Model = "qwen3:8b"
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = 60
	}
	if result.MaxRetries == 0 {
		result.MaxRetries = 3
	}
	if result.Temperature == 0 {
		result.Temperature = 0.3
	}
	if result.TopP == 0 {
		result.TopP = 0.9
	}
	if result.QueryModel == "" {
		result.QueryModel = "qwen3:14b"
	}
	return result
}

type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	APIKey     string `yaml:"apikey"`
	Collection string `yaml:"collection,omitempty"`
}

// GetDefaults returns QdrantConfig with default values applied
func (c *QdrantConfig) GetDefaults() QdrantConfig {
	result := *c
	if result.Host == "" {
		result.Host = "localhost"
	}
	if result.Port == 0 {
		result.Port = 6334
	}
	if result.Collection == "" {
		result.Collection = "javadoc"
	}
	return result
}

type BloomFilterConfig struct {
	Enabled           bool    `yaml:"enabled"`
	StorageDir        string  `yaml:"storage_dir"`
	ExpectedItems     uint    `yaml:"expected_items"`
	FalsePositiveRate float64 `yaml:"false_positive_rate"`
}

type App struct {
	Port           int    `yaml:"port"`
	LogLevel       string `yaml:"log_level,omitempty"`  // debug, info, warn, error (default: info)
	DebugHTTP      bool   `yaml:"debug_http,omitempty"` // log full request/response bodies
	IncludeClasses *bool  `yaml:"include_classes"`      // generate class docs too (default: true)
	Workers        int    `yaml:"workers,omitempty"`    // concurrent generation workers (default: 1)
}

// GetDefaults returns the app config with default values filled in.
// include_classes is tri-state so that an explicit false survives.
func (c *App) GetDefaults() App {
	cfg := *c
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.IncludeClasses == nil {
		includeClasses := true
		cfg.IncludeClasses = &includeClasses
	}
	return cfg
}

type Config struct {
	Dataset     DatasetConfig     `yaml:"dataset"`
	Ollama      OllamaConfig      `yaml:"ollama"`
	Neo4j       Neo4jConfig       `yaml:"neo4j"`
	Qdrant      QdrantConfig      `yaml:"qdrant"`
	BloomFilter BloomFilterConfig `yaml:"bloom_filter"`
	App         App               `yaml:"app"`
}

// expandEnvVars expands environment variables in the given string
// Supports formats: ${VAR}, $VAR, ${VAR:-default}
func expandEnvVars(s string) string {
	// Pattern for ${VAR:-default} or ${VAR}
	reBraces := regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)
	s = reBraces.ReplaceAllStringFunc(s, func(match string) string {
		parts := reBraces.FindStringSubmatch(match)
		if len(parts) >= 2 {
			varName := parts[1]
			defaultValue := ""
			if len(parts) >= 4 {
				defaultValue = parts[3]
			}
			if val, ok := os.LookupEnv(varName); ok {
				return val
			}
			return defaultValue
		}
		return match
	})

	// Pattern for $VAR (without braces)
	reSimple := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = reSimple.ReplaceAllStringFunc(s, func(match string) string {
		parts := reSimple.FindStringSubmatch(match)
		if len(parts) >= 2 {
			varName := parts[1]
			if val, ok := os.LookupEnv(varName); ok {
				return val
			}
			return match
		}
		return match
	})

	return s
}

// LoadConfig reads and parses the YAML config file, expanding environment
// variables and filling defaults
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	data = []byte(expandEnvVars(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Dataset = cfg.Dataset.GetDefaults()
	cfg.Ollama = cfg.Ollama.GetDefaults()
	cfg.Qdrant = cfg.Qdrant.GetDefaults()
	cfg.App = cfg.App.GetDefaults()

	return &cfg, nil
}

// DefaultConfig returns a config with all defaults applied, used when no
// config file is given
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Dataset = cfg.Dataset.GetDefaults()
	cfg.Ollama = cfg.Ollama.GetDefaults()
	cfg.Qdrant = cfg.Qdrant.GetDefaults()
	cfg.App = cfg.App.GetDefaults()
	return cfg
}
