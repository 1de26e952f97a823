package doc

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/javagraph/docgen/internal/model"
	"github.com/javagraph/docgen/internal/util"
)

// GenerationStats summarizes one generation pass over a set of entities
type GenerationStats struct {
	Candidates int
	Generated  int
	Failed     int
}

// SuccessRate returns the generated fraction as a percentage. A pass with
// no candidates counts as fully successful.
func (s GenerationStats) SuccessRate() float64 {
	if s.Candidates == 0 {
		return 100.0
	}
	return float64(s.Generated) / float64(s.Candidates) * 100.0
}

// transferStore writes one update record per file into an output directory.
// File names are random UUIDs so concurrent runs never collide.
type transferStore struct {
	outputDir string
	logger    *zap.Logger
}

func newTransferStore(outputDir string, logger *zap.Logger) (*transferStore, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	return &transferStore{outputDir: outputDir, logger: logger}, nil
}

func (t *transferStore) save(record any, entityName string) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record for %s: %w", entityName, err)
	}

	filename := filepath.Join(t.outputDir, uuid.NewString()+".json")
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	t.logger.Debug("Saved documentation record",
		zap.String("entity", entityName),
		zap.String("file", filename))
	return nil
}

// MethodDocGenerator fills in missing javadoc for methods. Every generated
// comment is written to its own transfer file immediately so completed work
// survives a crash mid-run.
type MethodDocGenerator struct {
	javadoc *JavadocGenerator
	store   *transferStore
	workers int
	logger  *zap.Logger
}

// NewMethodDocGenerator creates a method documentation generator writing
// transfer files into outputDir. workers bounds how many methods are
// documented concurrently; values below 1 mean sequential.
func NewMethodDocGenerator(javadoc *JavadocGenerator, outputDir string, workers int, logger *zap.Logger) (*MethodDocGenerator, error) {
	store, err := newTransferStore(outputDir, logger)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	return &MethodDocGenerator{javadoc: javadoc, store: store, workers: workers, logger: logger}, nil
}

// IsReady reports whether the backing LLM is usable
func (g *MethodDocGenerator) IsReady(ctx context.Context) bool {
	return g.javadoc.IsReady(ctx)
}

// Generate fills in documentation for every undocumented, documentable
// method in the dataset. Generated comments are assigned in memory and
// persisted as update records; per-method failures are logged and skipped.
func (g *MethodDocGenerator) Generate(ctx context.Context, ds *model.CodeDataset) ([]*model.MethodUpdate, GenerationStats, error) {
	g.logger.Info("Starting method documentation generation")

	if !g.IsReady(ctx) {
		g.logger.Error("Method documentation generator is not ready")
		return nil, GenerationStats{}, fmt.Errorf("method documentation generator not ready")
	}

	var candidates []*model.MethodEntity
	for _, method := range ds.Methods {
		if !method.HasDoc() && model.IsValidMethod(method) {
			candidates = append(candidates, method)
		}
	}
	g.logger.Info("Found methods without documentation", zap.Int("count", len(candidates)))

	stats := GenerationStats{Candidates: len(candidates)}

	// Workers persist each record as soon as it is generated. Results are
	// collected by method key and applied in dataset order afterwards so
	// the in-memory assignment stays deterministic.
	results := util.NewSafeMap[*model.MethodUpdate]()
	pool := util.NewExecutorPool(g.workers, len(candidates), func(method *model.MethodEntity) {
		if ctx.Err() != nil {
			return
		}

		g.logger.Info("Processing method",
			zap.Int("total", len(candidates)),
			zap.String("method", method.Src.String()))

		docContext := MethodContext(method, ds.ClassByName(method.Src.ClassName))
		javadoc, err := g.javadoc.GenerateMethodDoc(ctx, method.Code, docContext)
		if err != nil {
			g.logger.Warn("Failed to generate docs for method",
				zap.String("method", method.Src.String()),
				zap.Error(err))
			return
		}

		update := &model.MethodUpdate{Src: method.Src, JavaDoc: javadoc}
		if err := g.store.save(update, method.Src.String()); err != nil {
			g.logger.Error("Failed to save method record", zap.Error(err))
			return
		}
		results.Set(method.Src.String(), update)
	})

	for _, method := range candidates {
		pool.Submit(method)
	}
	pool.Close()

	var updates []*model.MethodUpdate
	for _, method := range candidates {
		update, ok := results.Get(method.Src.String())
		if !ok {
			stats.Failed++
			continue
		}
		method.JavaDoc = update.JavaDoc
		updates = append(updates, update)
		stats.Generated++
	}

	if err := ctx.Err(); err != nil {
		return updates, stats, err
	}

	g.logger.Info("Generated files saved", zap.String("output_dir", g.store.outputDir))
	return updates, stats, nil
}

// ClassDocGenerator fills in missing javadoc for classes, with the same
// persistence behavior as MethodDocGenerator
type ClassDocGenerator struct {
	javadoc *JavadocGenerator
	store   *transferStore
	logger  *zap.Logger
}

// NewClassDocGenerator creates a class documentation generator writing
// transfer files into outputDir
func NewClassDocGenerator(javadoc *JavadocGenerator, outputDir string, logger *zap.Logger) (*ClassDocGenerator, error) {
	store, err := newTransferStore(outputDir, logger)
	if err != nil {
		return nil, err
	}
	return &ClassDocGenerator{javadoc: javadoc, store: store, logger: logger}, nil
}

// IsReady reports whether the backing LLM is usable
func (g *ClassDocGenerator) IsReady(ctx context.Context) bool {
	return g.javadoc.IsReady(ctx)
}

// Generate fills in documentation for every undocumented class in the
// dataset
func (g *ClassDocGenerator) Generate(ctx context.Context, ds *model.CodeDataset) ([]*model.ClassUpdate, GenerationStats, error) {
	g.logger.Info("Starting class documentation generation")

	if !g.IsReady(ctx) {
		g.logger.Error("Class documentation generator is not ready")
		return nil, GenerationStats{}, fmt.Errorf("class documentation generator not ready")
	}

	var candidates []*model.ClassEntity
	for _, class := range ds.Classes {
		if !class.HasDoc() {
			candidates = append(candidates, class)
		}
	}
	g.logger.Info("Found classes without documentation", zap.Int("count", len(candidates)))

	stats := GenerationStats{Candidates: len(candidates)}
	var updates []*model.ClassUpdate

	for i, class := range candidates {
		if err := ctx.Err(); err != nil {
			return updates, stats, err
		}

		g.logger.Info("Processing class",
			zap.Int("index", i+1),
			zap.Int("total", len(candidates)),
			zap.String("class", class.ClassName))

		docContext := ClassContext(class, len(ds.MethodsByClass(class.ClassName)))
		javadoc, err := g.javadoc.GenerateClassDoc(ctx, class.Code, docContext)
		if err != nil {
			g.logger.Warn("Failed to generate docs for class",
				zap.String("class", class.ClassName),
				zap.Error(err))
			stats.Failed++
			continue
		}

		update := &model.ClassUpdate{ClassName: class.ClassName, JavaDoc: javadoc}
		if err := g.store.save(update, class.ClassName); err != nil {
			g.logger.Error("Failed to save class record", zap.Error(err))
			stats.Failed++
			continue
		}

		// assign only once the record is durable, so memory and the
		// transfer files agree
		class.JavaDoc = javadoc
		updates = append(updates, update)
		stats.Generated++
	}

	g.logger.Info("Generated files saved", zap.String("output_dir", g.store.outputDir))
	return updates, stats, nil
}
