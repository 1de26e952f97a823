package controller

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/javagraph/docgen/internal/model"
)

// UpdateMerger reads persisted update records back from their transfer
// directories and merges them into a dataset. Entities that already carry
// documentation are never overwritten, so replaying the same directory is
// harmless.
type UpdateMerger struct {
	logger *zap.Logger
}

// NewUpdateMerger creates an update merger
func NewUpdateMerger(logger *zap.Logger) *UpdateMerger {
	return &UpdateMerger{logger: logger}
}

// ReadMethodUpdates loads every readable method update record from the
// .json files in directory. Malformed files are logged and skipped.
func (m *UpdateMerger) ReadMethodUpdates(directory string) ([]model.MethodUpdate, error) {
	var updates []model.MethodUpdate
	err := m.readRecords(directory, func(data []byte, path string) error {
		var update model.MethodUpdate
		if err := json.Unmarshal(data, &update); err != nil {
			return err
		}
		if err := update.Validate(); err != nil {
			return err
		}
		updates = append(updates, update)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// ReadClassUpdates loads every readable class update record from the
// .json files in directory. Malformed files are logged and skipped.
func (m *UpdateMerger) ReadClassUpdates(directory string) ([]model.ClassUpdate, error) {
	var updates []model.ClassUpdate
	err := m.readRecords(directory, func(data []byte, path string) error {
		var update model.ClassUpdate
		if err := json.Unmarshal(data, &update); err != nil {
			return err
		}
		if err := update.Validate(); err != nil {
			return err
		}
		updates = append(updates, update)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// ApplyMethodUpdates merges method updates into the dataset and returns
// the number of methods that actually received documentation
func (m *UpdateMerger) ApplyMethodUpdates(ds *model.CodeDataset, updates []model.MethodUpdate) int {
	applied := 0
	for _, update := range updates {
		if update.Apply(ds) {
			applied++
		}
	}
	m.logger.Info("Updated documentation for methods", zap.Int("count", applied))
	return applied
}

// ApplyClassUpdates merges class updates into the dataset and returns the
// number of classes that actually received documentation
func (m *UpdateMerger) ApplyClassUpdates(ds *model.CodeDataset, updates []model.ClassUpdate) int {
	applied := 0
	for _, update := range updates {
		if update.Apply(ds) {
			applied++
		}
	}
	m.logger.Info("Updated documentation for classes", zap.Int("count", applied))
	return applied
}

// readRecords invokes decode on the contents of every .json file in
// directory. A directory that does not exist yields no records; decode
// failures are logged and skipped.
func (m *UpdateMerger) readRecords(directory string, decode func(data []byte, path string) error) error {
	entries, err := filepath.Glob(filepath.Join(directory, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", directory, err)
	}

	for _, path := range entries {
		data, err := os.ReadFile(path)
		if err != nil {
			m.logger.Error("Error reading file", zap.String("file", path), zap.Error(err))
			continue
		}
		if err := decode(data, path); err != nil {
			m.logger.Error("Error reading file", zap.String("file", path), zap.Error(err))
		}
	}
	return nil
}
