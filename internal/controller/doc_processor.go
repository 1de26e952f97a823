package controller

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/javagraph/docgen/internal/model"
	"github.com/javagraph/docgen/internal/service/doc"
)

// DocProcessor runs the full documentation generation pass over a dataset:
// methods first, then classes, so class generation can draw on the freshly
// documented method bodies still held in memory.
type DocProcessor struct {
	methods *doc.MethodDocGenerator
	classes *doc.ClassDocGenerator
	logger  *zap.Logger
}

// RunStats aggregates the per-kind generation statistics of one run
type RunStats struct {
	Methods doc.GenerationStats
	Classes doc.GenerationStats
}

// SuccessRate returns the overall generated fraction as a percentage.
// A run with no candidates counts as fully successful.
func (s RunStats) SuccessRate() float64 {
	total := s.Methods.Candidates + s.Classes.Candidates
	if total == 0 {
		return 100.0
	}
	return float64(s.Methods.Generated+s.Classes.Generated) / float64(total) * 100.0
}

// NewDocProcessor creates a documentation processor from the two per-kind
// generators
func NewDocProcessor(methods *doc.MethodDocGenerator, classes *doc.ClassDocGenerator, logger *zap.Logger) *DocProcessor {
	return &DocProcessor{methods: methods, classes: classes, logger: logger}
}

// Run generates missing documentation for the whole dataset. It fails up
// front when the LLM backend is unreachable so a long run never starts
// against a dead service.
func (p *DocProcessor) Run(ctx context.Context, ds *model.CodeDataset, includeClasses bool) (RunStats, error) {
	p.logger.Info("Starting documentation generation process")

	if !p.methods.IsReady(ctx) {
		p.logger.Error("Documentation generator is not ready, ensure the LLM service is running and the model is available")
		return RunStats{}, fmt.Errorf("documentation generator not ready")
	}

	var stats RunStats

	_, methodStats, err := p.methods.Generate(ctx, ds)
	stats.Methods = methodStats
	if err != nil {
		return stats, fmt.Errorf("method documentation generation failed: %w", err)
	}

	if includeClasses {
		_, classStats, err := p.classes.Generate(ctx, ds)
		stats.Classes = classStats
		if err != nil {
			return stats, fmt.Errorf("class documentation generation failed: %w", err)
		}
	}

	p.logger.Info("Documentation generation complete",
		zap.Int("method_candidates", stats.Methods.Candidates),
		zap.Int("methods_generated", stats.Methods.Generated),
		zap.Int("class_candidates", stats.Classes.Candidates),
		zap.Int("classes_generated", stats.Classes.Generated),
		zap.Float64("success_rate", stats.SuccessRate()))

	return stats, nil
}
