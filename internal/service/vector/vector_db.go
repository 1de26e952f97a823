package vector

import (
	"context"
)

// EntryKind distinguishes what kind of code entity a doc entry describes
type EntryKind string

const (
	EntryKindClass  EntryKind = "class"
	EntryKindMethod EntryKind = "method"
)

// DocEntry is one documented entity in the vector index. Key is the
// qualified class name, or "class.method" for methods; Text is the
// indexed documentation.
type DocEntry struct {
	ID        string
	Kind      EntryKind
	Key       string
	Text      string
	Embedding []float32
}

// VectorDatabase represents a generic vector database for doc entries
type VectorDatabase interface {
	// CreateCollection creates a new collection with the specified dimension and distance metric
	CreateCollection(ctx context.Context, collectionName string, vectorDim int, distance DistanceMetric) error

	// CollectionExists checks if a collection exists
	CollectionExists(ctx context.Context, collectionName string) (bool, error)

	// DeleteCollection deletes a collection
	DeleteCollection(ctx context.Context, collectionName string) error

	// UpsertEntries inserts or updates doc entries
	UpsertEntries(ctx context.Context, collectionName string, entries []*DocEntry) error

	// SearchSimilar finds doc entries by vector similarity, optionally
	// restricted to one entry kind
	SearchSimilar(ctx context.Context, collectionName string, queryVector []float32, limit int, kind EntryKind) ([]*DocEntry, []float32, error)

	// Close closes the database connection
	Close() error

	// Health checks the health of the vector database
	Health(ctx context.Context) error
}

// DistanceMetric represents the distance metric used for vector similarity
type DistanceMetric string

const (
	// DistanceMetricCosine uses cosine similarity (best for normalized embeddings)
	DistanceMetricCosine DistanceMetric = "cosine"

	// DistanceMetricDot uses dot product similarity
	DistanceMetricDot DistanceMetric = "dot"

	// DistanceMetricEuclidean uses Euclidean distance
	DistanceMetricEuclidean DistanceMetric = "euclidean"
)
