package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
dataset:
  base_path: /data/project
  name: project
ollama:
  url: http://ollama:11434
  model: llama3:8b
  timeout_seconds: 30
neo4j:
  uri: bolt://neo4j:7687
  username: neo4j
  password: secret
app:
  port: 8080
  include_classes: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Dataset.BasePath != "/data/project" {
		t.Errorf("dataset base path = %q", cfg.Dataset.BasePath)
	}
	if got := cfg.Dataset.ClassesPath(); got != filepath.Join("/data/project", "java_classes.json") {
		t.Errorf("classes path = %q", got)
	}
	if got := cfg.Dataset.MethodsOutputDir(); got != filepath.Join("/data/project", "generated", "methods") {
		t.Errorf("methods output dir = %q", got)
	}
	if cfg.Ollama.Model != "llama3:8b" || cfg.Ollama.Timeout() != 30*time.Second {
		t.Errorf("ollama config = %+v", cfg.Ollama)
	}
	if cfg.Neo4j.URI != "bolt://neo4j:7687" {
		t.Errorf("neo4j uri = %q", cfg.Neo4j.URI)
	}
	if cfg.App.IncludeClasses == nil || !*cfg.App.IncludeClasses || cfg.App.Port != 8080 {
		t.Errorf("app config = %+v", cfg.App)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "app:\n  port: 9000\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Ollama.URL != "http://localhost:11434" {
		t.Errorf("default ollama url = %q", cfg.Ollama.URL)
	}
	if cfg.Ollama.Model != "qwen3:8b" {
		t.Errorf("default model = %q", cfg.Ollama.Model)
	}
	if cfg.Ollama.Timeout() != 60*time.Second {
		t.Errorf("default timeout = %v", cfg.Ollama.Timeout())
	}
	if cfg.Ollama.MaxRetries != 3 {
		t.Errorf("default max retries = %d", cfg.Ollama.MaxRetries)
	}
	if cfg.Ollama.Temperature != 0.3 || cfg.Ollama.TopP != 0.9 {
		t.Errorf("default sampling = %+v", cfg.Ollama)
	}
	if cfg.Dataset.ClassesFile != "java_classes.json" || cfg.Dataset.MethodsFile != "java_methods.json" {
		t.Errorf("default dataset files = %+v", cfg.Dataset)
	}
	if cfg.Qdrant.Port != 6334 || cfg.Qdrant.Collection != "javadoc" {
		t.Errorf("default qdrant = %+v", cfg.Qdrant)
	}
	if cfg.App.IncludeClasses == nil || !*cfg.App.IncludeClasses {
		t.Error("class generation should be on when include_classes is absent")
	}
	if cfg.App.LogLevel != "info" {
		t.Errorf("default log level = %q", cfg.App.LogLevel)
	}
}

func TestIncludeClassesDefaultsOn(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.App.IncludeClasses == nil || !*cfg.App.IncludeClasses {
		t.Error("DefaultConfig() should enable class generation")
	}
}

func TestIncludeClassesExplicitFalse(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "app:\n  include_classes: false\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.App.IncludeClasses == nil || *cfg.App.IncludeClasses {
		t.Error("explicit include_classes: false should be honored")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadConfig() error = nil, want error for missing file")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DOCGEN_TEST_PASSWORD", "hunter2")
	os.Unsetenv("DOCGEN_TEST_UNSET")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"braces", "password: ${DOCGEN_TEST_PASSWORD}", "password: hunter2"},
		{"braces with default, set", "x: ${DOCGEN_TEST_PASSWORD:-fallback}", "x: hunter2"},
		{"braces with default, unset", "x: ${DOCGEN_TEST_UNSET:-fallback}", "x: fallback"},
		{"bare name", "p: $DOCGEN_TEST_PASSWORD", "p: hunter2"},
		{"bare unset stays", "p: $DOCGEN_TEST_UNSET", "p: $DOCGEN_TEST_UNSET"},
		{"no variables", "plain: text", "plain: text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandEnvVars(tt.input); got != tt.want {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("DOCGEN_TEST_NEO4J_PASS", "s3cret")
	cfg, err := LoadConfig(writeConfig(t, `
neo4j:
  uri: bolt://localhost:7687
  username: neo4j
  password: ${DOCGEN_TEST_NEO4J_PASS}
`))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Neo4j.Password != "s3cret" {
		t.Errorf("neo4j password = %q, want expanded env value", cfg.Neo4j.Password)
	}
}
