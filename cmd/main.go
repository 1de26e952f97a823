package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/javagraph/docgen/internal/config"
	"github.com/javagraph/docgen/internal/controller"
	"github.com/javagraph/docgen/internal/dataset"
	"github.com/javagraph/docgen/internal/handler"
	"github.com/javagraph/docgen/internal/service/codegraph"
	"github.com/javagraph/docgen/internal/service/doc"
	"github.com/javagraph/docgen/internal/service/llm"
	"github.com/javagraph/docgen/internal/service/vector"
	"github.com/javagraph/docgen/internal/util"
)

// parseLogLevel converts a string log level to zapcore.Level
func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func main() {
	var configPath = flag.String("config", "config.yaml", "Path to configuration file")
	var generate = flag.Bool("generate", false, "Generate missing documentation")
	var merge = flag.Bool("merge", false, "Merge generated documentation back into the dataset and report counts")
	var graph = flag.Bool("graph", false, "Load the dataset into the Neo4j code graph")
	var index = flag.Bool("index", false, "Index documentation into the vector store")
	var ask = flag.String("ask", "", "Ask a natural language question about the code graph")
	flag.Parse()

	var cfg *config.Config
	var err error
	if _, statErr := os.Stat(*configPath); statErr == nil {
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Fatal("Failed to load configuration:", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	cfgZap := zap.NewProductionConfig()
	cfgZap.Level.SetLevel(parseLogLevel(cfg.App.LogLevel))
	logger, err := cfgZap.Build()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	switch {
	case *generate:
		GenerateCommand(ctx, cfg, logger)
	case *merge:
		MergeCommand(cfg, logger)
	case *graph:
		GraphCommand(ctx, cfg, logger)
	case *index:
		IndexCommand(ctx, cfg, logger)
	case *ask != "":
		AskCommand(ctx, cfg, logger, *ask)
	default:
		ServeCommand(cfg, logger)
	}
}

// newLLMClient builds the Ollama client from config
func newLLMClient(cfg *config.Config, logger *zap.Logger) llm.Client {
	client, err := llm.NewOllamaClient(llm.Config{
		BaseURL:     cfg.Ollama.URL,
		Model:       cfg.Ollama.Model,
		Timeout:     cfg.Ollama.Timeout(),
		MaxRetries:  cfg.Ollama.MaxRetries,
		Temperature: cfg.Ollama.Temperature,
		TopP:        cfg.Ollama.TopP,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	return client
}

// newDatasetLoader builds the loader that reads the dataset with all
// persisted updates applied
func newDatasetLoader(cfg *config.Config, logger *zap.Logger) *controller.DatasetLoader {
	reader := dataset.NewReader(logger)
	merger := controller.NewUpdateMerger(logger)
	return controller.NewDatasetLoader(reader, merger, logger)
}

func GenerateCommand(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	logger.Info("Generate command started")

	loader := newDatasetLoader(cfg, logger)
	ds, err := loader.Load(
		cfg.Dataset.ClassesPath(),
		cfg.Dataset.MethodsPath(),
		cfg.Dataset.ClassesOutputDir(),
		cfg.Dataset.MethodsOutputDir(),
	)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.Error(err))
	}

	javadoc := doc.NewJavadocGenerator(newLLMClient(cfg, logger), logger)
	methods, err := doc.NewMethodDocGenerator(javadoc, cfg.Dataset.MethodsOutputDir(), cfg.App.Workers, logger)
	if err != nil {
		logger.Fatal("Failed to create method generator", zap.Error(err))
	}
	classes, err := doc.NewClassDocGenerator(javadoc, cfg.Dataset.ClassesOutputDir(), logger)
	if err != nil {
		logger.Fatal("Failed to create class generator", zap.Error(err))
	}

	processor := controller.NewDocProcessor(methods, classes, logger)
	stats, err := processor.Run(ctx, ds, *cfg.App.IncludeClasses)
	if err != nil {
		logger.Fatal("Documentation generation failed", zap.Error(err))
	}

	fmt.Printf("Methods: %d/%d generated\n", stats.Methods.Generated, stats.Methods.Candidates)
	fmt.Printf("Classes: %d/%d generated\n", stats.Classes.Generated, stats.Classes.Candidates)
	fmt.Printf("Success rate: %.1f%%\n", stats.SuccessRate())
}

func MergeCommand(cfg *config.Config, logger *zap.Logger) {
	logger.Info("Merge command started")

	reader := dataset.NewReader(logger)
	ds, err := reader.ReadDataset(cfg.Dataset.ClassesPath(), cfg.Dataset.MethodsPath())
	if err != nil {
		logger.Fatal("Failed to read dataset", zap.Error(err))
	}

	merger := controller.NewUpdateMerger(logger)
	classUpdates, err := merger.ReadClassUpdates(cfg.Dataset.ClassesOutputDir())
	if err != nil {
		logger.Fatal("Failed to read class updates", zap.Error(err))
	}
	methodUpdates, err := merger.ReadMethodUpdates(cfg.Dataset.MethodsOutputDir())
	if err != nil {
		logger.Fatal("Failed to read method updates", zap.Error(err))
	}

	classCount := merger.ApplyClassUpdates(ds, classUpdates)
	methodCount := merger.ApplyMethodUpdates(ds, methodUpdates)

	fmt.Printf("Applied %d class updates (%d records read)\n", classCount, len(classUpdates))
	fmt.Printf("Applied %d method updates (%d records read)\n", methodCount, len(methodUpdates))
}

func GraphCommand(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	logger.Info("Graph command started")

	loader := newDatasetLoader(cfg, logger)
	ds, err := loader.Load(
		cfg.Dataset.ClassesPath(),
		cfg.Dataset.MethodsPath(),
		cfg.Dataset.ClassesOutputDir(),
		cfg.Dataset.MethodsOutputDir(),
	)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.Error(err))
	}

	db, err := codegraph.NewNeo4jDatabase(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer db.Close(ctx)

	if err := db.VerifyConnectivity(ctx); err != nil {
		logger.Fatal("Neo4j is not reachable", zap.Error(err))
	}

	builder := codegraph.NewRepositoryBuilder(db, logger)
	if err := builder.SaveCodeData(ctx, ds); err != nil {
		logger.Fatal("Failed to save code data", zap.Error(err))
	}

	fmt.Println("Code data saved successfully to Neo4j")
}

func IndexCommand(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	logger.Info("Index command started")

	loader := newDatasetLoader(cfg, logger)
	ds, err := loader.Load(
		cfg.Dataset.ClassesPath(),
		cfg.Dataset.MethodsPath(),
		cfg.Dataset.ClassesOutputDir(),
		cfg.Dataset.MethodsOutputDir(),
	)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.Error(err))
	}

	docIndex, cleanup, err := newDocIndex(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create doc index", zap.Error(err))
	}
	defer cleanup()

	stats, err := docIndex.IndexDataset(ctx, ds)
	if err != nil {
		logger.Fatal("Indexing failed", zap.Error(err))
	}

	fmt.Printf("Indexed %d entries (%d skipped, %d failed)\n", stats.Indexed, stats.Skipped, stats.Failed)
}

func AskCommand(ctx context.Context, cfg *config.Config, logger *zap.Logger, question string) {
	db, err := codegraph.NewNeo4jDatabase(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer db.Close(ctx)

	query := codegraph.NewGraphQuery(newQueryClient(cfg, logger), db, logger)
	result, err := query.Run(ctx, question)
	if err != nil {
		logger.Fatal("Query failed", zap.Error(err))
	}

	fmt.Println(result.Cypher)
	for _, record := range result.Records {
		fmt.Println(record)
	}
}

func ServeCommand(cfg *config.Config, logger *zap.Logger) {
	ctx := context.Background()

	db, err := codegraph.NewNeo4jDatabase(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer db.Close(ctx)

	graphQuery := codegraph.NewGraphQuery(newQueryClient(cfg, logger), db, logger)

	docIndex, cleanup, err := newDocIndex(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create doc index", zap.Error(err))
	}
	defer cleanup()

	apiController := controller.NewAPIController(graphQuery, docIndex, logger)
	router := handler.SetupRouter(apiController, cfg, logger)

	logger.Info("Starting server", zap.Int("port", cfg.App.Port))
	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), router); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// newQueryClient builds the LLM client used for Cypher generation, which
// may run a larger model than doc generation
func newQueryClient(cfg *config.Config, logger *zap.Logger) llm.Client {
	client, err := llm.NewOllamaClient(llm.Config{
		BaseURL: cfg.Ollama.URL,
		Model:   cfg.Ollama.QueryModel,
		Timeout: cfg.Ollama.Timeout(),
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create query LLM client", zap.Error(err))
	}
	return client
}

// newDocIndex wires the embedding model, Qdrant and the bloom filter into
// a doc index. The returned cleanup closes the vector database.
func newDocIndex(cfg *config.Config, logger *zap.Logger) (*vector.DocIndex, func(), error) {
	embedding, err := vector.NewOllamaEmbedding(vector.OllamaEmbeddingConfig{
		APIURL:    cfg.Ollama.URL,
		Model:     cfg.Ollama.EmbeddingModel,
		Dimension: cfg.Ollama.Dimension,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	qdrantDB, err := vector.NewQdrantDatabase(cfg.Qdrant.Host, cfg.Qdrant.Port, cfg.Qdrant.APIKey, logger)
	if err != nil {
		return nil, nil, err
	}

	// without the bloom filter every documented entity is re-embedded
	// on each run
	var bloomManager *util.BloomFilterManager
	if cfg.BloomFilter.Enabled {
		bloomManager, err = util.NewBloomFilterManager(cfg.BloomFilter, logger)
		if err != nil {
			qdrantDB.Close()
			return nil, nil, err
		}
	}

	docIndex := vector.NewDocIndex(embedding, qdrantDB, bloomManager, cfg.Qdrant.Collection, cfg.Dataset.Name, logger)
	cleanup := func() {
		if err := qdrantDB.Close(); err != nil {
			logger.Warn("Failed to close Qdrant connection", zap.Error(err))
		}
	}
	return docIndex, cleanup, nil
}
