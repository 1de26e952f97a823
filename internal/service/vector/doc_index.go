package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/javagraph/docgen/internal/model"
	"github.com/javagraph/docgen/internal/util"
)

// DocIndex maintains a searchable vector index of generated and existing
// documentation. An optional bloom filter keyed by entity remembers what
// was already indexed so repeated runs only embed new entries; with a nil
// filter every documented entity is re-embedded each run.
type DocIndex struct {
	embedding   EmbeddingModel
	db          VectorDatabase
	bloom       *util.BloomFilterManager
	collection  string
	datasetName string
	logger      *zap.Logger
}

// IndexStats summarizes one indexing pass
type IndexStats struct {
	Indexed int
	Skipped int
	Failed  int
}

// NewDocIndex creates a documentation index over the given collection
func NewDocIndex(embedding EmbeddingModel, db VectorDatabase, bloom *util.BloomFilterManager,
	collection, datasetName string, logger *zap.Logger) *DocIndex {
	return &DocIndex{
		embedding:   embedding,
		db:          db,
		bloom:       bloom,
		collection:  collection,
		datasetName: datasetName,
		logger:      logger,
	}
}

// EnsureCollection creates the backing collection if it does not exist yet
func (idx *DocIndex) EnsureCollection(ctx context.Context) error {
	exists, err := idx.db.CollectionExists(ctx, idx.collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return idx.db.CreateCollection(ctx, idx.collection, idx.embedding.GetDimension(), DistanceMetricCosine)
}

// indexCandidate is one documented entity waiting to be embedded
type indexCandidate struct {
	kind EntryKind
	key  string
	text string
}

// IndexDataset indexes the documentation of every documented entity in the
// dataset. Entities already seen by the bloom filter are skipped;
// per-entity embedding failures are logged and counted, not fatal.
func (idx *DocIndex) IndexDataset(ctx context.Context, ds *model.CodeDataset) (IndexStats, error) {
	var stats IndexStats

	if err := idx.EnsureCollection(ctx); err != nil {
		return stats, fmt.Errorf("failed to ensure collection: %w", err)
	}

	var pending []indexCandidate

	for _, class := range ds.Classes {
		if !class.HasDoc() {
			continue
		}
		if idx.alreadyIndexed(class.ClassName) {
			stats.Skipped++
			continue
		}
		pending = append(pending, indexCandidate{EntryKindClass, class.ClassName, class.JavaDoc})
	}

	for _, method := range ds.Methods {
		if !method.HasDoc() {
			continue
		}
		if idx.alreadyIndexed(method.Src.String()) {
			stats.Skipped++
			continue
		}
		pending = append(pending, indexCandidate{EntryKindMethod, method.Src.String(), method.JavaDoc})
	}

	// embeddings are independent, so compute them in parallel
	embedded := util.DoWorkList(pending, func(c indexCandidate) *DocEntry {
		return idx.buildEntry(ctx, c)
	})

	var entries []*DocEntry
	for _, entry := range embedded {
		if entry == nil {
			stats.Failed++
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) > 0 {
		if err := idx.db.UpsertEntries(ctx, idx.collection, entries); err != nil {
			return stats, err
		}
		if idx.bloom != nil {
			for _, entry := range entries {
				if err := idx.bloom.Add(idx.datasetName, entry.Key); err != nil {
					return stats, err
				}
			}
		}
		stats.Indexed = len(entries)
	}

	if idx.bloom != nil {
		if err := idx.bloom.Save(idx.datasetName); err != nil {
			idx.logger.Warn("Failed to persist bloom filter", zap.Error(err))
		}
	}

	idx.logger.Info("Documentation indexing complete",
		zap.Int("indexed", stats.Indexed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

// alreadyIndexed consults the bloom filter for the given entity key
func (idx *DocIndex) alreadyIndexed(key string) bool {
	if idx.bloom == nil {
		return false
	}
	seen, err := idx.bloom.Test(idx.datasetName, key)
	return err == nil && seen
}

// buildEntry embeds one candidate into an index entry, returning nil when
// the embedding call fails
func (idx *DocIndex) buildEntry(ctx context.Context, c indexCandidate) *DocEntry {
	embedding, err := idx.embedding.GenerateEmbedding(ctx, c.text)
	if err != nil {
		idx.logger.Warn("Failed to embed documentation",
			zap.String("key", c.key),
			zap.Error(err))
		return nil
	}

	return &DocEntry{
		ID:        entryID(c.kind, c.key),
		Kind:      c.kind,
		Key:       c.key,
		Text:      c.text,
		Embedding: embedding,
	}
}

// Search finds the documentation entries most similar to the query text
func (idx *DocIndex) Search(ctx context.Context, query string, limit int, kind EntryKind) ([]*DocEntry, []float32, error) {
	queryVector, err := idx.embedding.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return idx.db.SearchSimilar(ctx, idx.collection, queryVector, limit, kind)
}

// entryID derives a stable point ID from the entity identity, so
// re-indexing an entity overwrites its previous entry
func entryID(kind EntryKind, key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(string(kind)+":"+key)).String()
}
