package util

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"go.uber.org/zap"

	"github.com/javagraph/docgen/internal/config"
)

// BloomFilterManager tracks which entities have already been indexed,
// one filter per dataset, with disk persistence between runs
type BloomFilterManager struct {
	config     config.BloomFilterConfig
	filters    map[string]*bloom.BloomFilter
	mu         sync.RWMutex
	logger     *zap.Logger
	storageDir string
}

// NewBloomFilterManager creates a new bloom filter manager
func NewBloomFilterManager(cfg config.BloomFilterConfig, logger *zap.Logger) (*BloomFilterManager, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("bloom filter is disabled in config")
	}

	if cfg.ExpectedItems == 0 {
		cfg.ExpectedItems = 1000000
	}
	if cfg.FalsePositiveRate == 0 {
		cfg.FalsePositiveRate = 0.01
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = "./bloom_filters"
	}

	if err := os.MkdirAll(cfg.StorageDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create bloom filter storage directory: %w", err)
	}

	return &BloomFilterManager{
		config:     cfg,
		filters:    make(map[string]*bloom.BloomFilter),
		logger:     logger,
		storageDir: cfg.StorageDir,
	}, nil
}

// GetOrCreateFilter gets or creates the bloom filter for a dataset
func (bfm *BloomFilterManager) GetOrCreateFilter(datasetName string) (*bloom.BloomFilter, error) {
	bfm.mu.RLock()
	filter, exists := bfm.filters[datasetName]
	bfm.mu.RUnlock()

	if exists {
		return filter, nil
	}

	bfm.mu.Lock()
	defer bfm.mu.Unlock()

	// double-check after acquiring write lock
	if filter, exists := bfm.filters[datasetName]; exists {
		return filter, nil
	}

	filterPath := bfm.getFilterPath(datasetName)
	filter, err := bfm.loadFromDisk(filterPath)
	if err != nil {
		bfm.logger.Info("Creating new bloom filter for dataset",
			zap.String("dataset", datasetName),
			zap.Uint("expected_items", bfm.config.ExpectedItems),
			zap.Float64("false_positive_rate", bfm.config.FalsePositiveRate))

		filter = bloom.NewWithEstimates(bfm.config.ExpectedItems, bfm.config.FalsePositiveRate)
	} else {
		bfm.logger.Info("Loaded bloom filter from disk",
			zap.String("dataset", datasetName),
			zap.String("path", filterPath))
	}

	bfm.filters[datasetName] = filter
	return filter, nil
}

// Add adds a key to the bloom filter for a dataset
func (bfm *BloomFilterManager) Add(datasetName string, key string) error {
	filter, err := bfm.GetOrCreateFilter(datasetName)
	if err != nil {
		return err
	}

	filter.AddString(key)
	return nil
}

// Test checks whether a key might already be present. False means the
// key was definitely never added.
func (bfm *BloomFilterManager) Test(datasetName string, key string) (bool, error) {
	filter, err := bfm.GetOrCreateFilter(datasetName)
	if err != nil {
		return false, err
	}

	return filter.TestString(key), nil
}

// Save persists the bloom filter for a dataset to disk
func (bfm *BloomFilterManager) Save(datasetName string) error {
	bfm.mu.RLock()
	filter, exists := bfm.filters[datasetName]
	bfm.mu.RUnlock()

	if !exists {
		return fmt.Errorf("no bloom filter found for dataset: %s", datasetName)
	}

	filterPath := bfm.getFilterPath(datasetName)
	return bfm.saveToDisk(filter, filterPath)
}

// Clear removes the bloom filter for a dataset from memory
func (bfm *BloomFilterManager) Clear(datasetName string) {
	bfm.mu.Lock()
	defer bfm.mu.Unlock()

	delete(bfm.filters, datasetName)
	bfm.logger.Info("Cleared bloom filter from memory", zap.String("dataset", datasetName))
}

func (bfm *BloomFilterManager) getFilterPath(datasetName string) string {
	return filepath.Join(bfm.storageDir, fmt.Sprintf("%s.bloom", datasetName))
}

func (bfm *BloomFilterManager) saveToDisk(filter *bloom.BloomFilter, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create bloom filter file: %w", err)
	}
	defer file.Close()

	if _, err = filter.WriteTo(file); err != nil {
		return fmt.Errorf("failed to write bloom filter: %w", err)
	}

	return nil
}

func (bfm *BloomFilterManager) loadFromDisk(path string) (*bloom.BloomFilter, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bloom filter file: %w", err)
	}
	defer file.Close()

	filter := &bloom.BloomFilter{}
	if _, err = filter.ReadFrom(file); err != nil {
		return nil, fmt.Errorf("failed to read bloom filter: %w", err)
	}

	return filter, nil
}
