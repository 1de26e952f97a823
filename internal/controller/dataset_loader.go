package controller

import (
	"go.uber.org/zap"

	"github.com/javagraph/docgen/internal/dataset"
	"github.com/javagraph/docgen/internal/model"
)

// DatasetLoader assembles a working dataset: it reads the structural
// extraction files, replays any previously generated update records, and
// drops entities that are not documentation targets.
type DatasetLoader struct {
	reader *dataset.Reader
	merger *UpdateMerger
	logger *zap.Logger
}

// NewDatasetLoader creates a dataset loader
func NewDatasetLoader(reader *dataset.Reader, merger *UpdateMerger, logger *zap.Logger) *DatasetLoader {
	return &DatasetLoader{reader: reader, merger: merger, logger: logger}
}

// Load reads the dataset and brings it up to date with the transfer
// directories. Missing transfer directories are fine; unreadable dataset
// files are not.
func (l *DatasetLoader) Load(classesFile, methodsFile, classesOutputDir, methodsOutputDir string) (*model.CodeDataset, error) {
	ds, err := l.reader.ReadDataset(classesFile, methodsFile)
	if err != nil {
		return nil, err
	}

	classUpdates, err := l.merger.ReadClassUpdates(classesOutputDir)
	if err != nil {
		return nil, err
	}
	methodUpdates, err := l.merger.ReadMethodUpdates(methodsOutputDir)
	if err != nil {
		return nil, err
	}
	l.merger.ApplyClassUpdates(ds, classUpdates)
	l.merger.ApplyMethodUpdates(ds, methodUpdates)

	filtered := model.FilterInvalid(ds)
	l.logger.Info("Code data loaded",
		zap.Int("classes", len(filtered.Classes)),
		zap.Int("methods", len(filtered.Methods)))
	return filtered, nil
}
