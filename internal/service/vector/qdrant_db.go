package vector

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// QdrantDatabase implements VectorDatabase interface using Qdrant
type QdrantDatabase struct {
	client *qdrant.Client
	logger *zap.Logger
}

// NewQdrantDatabase creates a new Qdrant database connection
func NewQdrantDatabase(host string, port int, apiKey string, logger *zap.Logger) (*QdrantDatabase, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantDatabase{
		client: client,
		logger: logger,
	}, nil
}

// CreateCollection creates a new collection with the specified dimension and distance metric
func (q *QdrantDatabase) CreateCollection(ctx context.Context, collectionName string, vectorDim int, distance DistanceMetric) error {
	var qdrantDistance qdrant.Distance
	switch distance {
	case DistanceMetricCosine:
		qdrantDistance = qdrant.Distance_Cosine
	case DistanceMetricDot:
		qdrantDistance = qdrant.Distance_Dot
	case DistanceMetricEuclidean:
		qdrantDistance = qdrant.Distance_Euclid
	default:
		qdrantDistance = qdrant.Distance_Cosine
	}

	err := q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vectorDim),
			Distance: qdrantDistance,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.logger.Info("Created Qdrant collection", zap.String("collection", collectionName), zap.Int("dim", vectorDim))
	return nil
}

// CollectionExists checks if a collection exists
func (q *QdrantDatabase) CollectionExists(ctx context.Context, collectionName string) (bool, error) {
	exists, err := q.client.CollectionExists(ctx, collectionName)
	if err != nil {
		return false, fmt.Errorf("failed to check collection existence: %w", err)
	}
	return exists, nil
}

// DeleteCollection deletes a collection
func (q *QdrantDatabase) DeleteCollection(ctx context.Context, collectionName string) error {
	if err := q.client.DeleteCollection(ctx, collectionName); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil
}

// UpsertEntries inserts or updates doc entries in the vector database
func (q *QdrantDatabase) UpsertEntries(ctx context.Context, collectionName string, entries []*DocEntry) error {
	if len(entries) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(entries))
	for _, entry := range entries {
		if len(entry.Embedding) == 0 {
			q.logger.Warn("Skipping entry without embedding", zap.String("key", entry.Key))
			continue
		}

		points = append(points, &qdrant.PointStruct{
			Id: qdrant.NewIDUUID(entry.ID),
			Vectors: qdrant.NewVectorsMap(map[string]*qdrant.Vector{
				"": qdrant.NewVector(entry.Embedding...),
			}),
			Payload: qdrant.NewValueMap(map[string]any{
				"kind": string(entry.Kind),
				"key":  entry.Key,
				"text": entry.Text,
			}),
		})
	}

	if len(points) == 0 {
		q.logger.Warn("No points to upsert after filtering", zap.String("collection", collectionName))
		return nil
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
	})
	if err != nil {
		q.logger.Error("Upsert failed",
			zap.String("collection", collectionName),
			zap.Error(err))
		return fmt.Errorf("failed to upsert entries: %w", err)
	}

	q.logger.Info("Upserted doc entries to Qdrant",
		zap.String("collection", collectionName),
		zap.Int("count", len(points)))
	return nil
}

// SearchSimilar finds doc entries by vector similarity
func (q *QdrantDatabase) SearchSimilar(ctx context.Context, collectionName string, queryVector []float32, limit int, kind EntryKind) ([]*DocEntry, []float32, error) {
	var qdrantFilter *qdrant.Filter
	if kind != "" {
		qdrantFilter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				{
					ConditionOneOf: &qdrant.Condition_Field{
						Field: &qdrant.FieldCondition{
							Key:   "kind",
							Match: &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: string(kind)}},
						},
					},
				},
			},
		}
	}

	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		Filter:         qdrantFilter,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search: %w", err)
	}

	entries := make([]*DocEntry, 0, len(searchResult))
	scores := make([]float32, 0, len(searchResult))
	for _, point := range searchResult {
		entry := pointToDocEntry(point)
		if entry != nil {
			entries = append(entries, entry)
			scores = append(scores, point.Score)
		}
	}

	return entries, scores, nil
}

// Close closes the database connection
func (q *QdrantDatabase) Close() error {
	return q.client.Close()
}

// Health checks the health of the vector database
func (q *QdrantDatabase) Health(ctx context.Context) error {
	if _, err := q.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant health check failed: %w", err)
	}
	return nil
}

// pointToDocEntry converts a Qdrant scored point back into a doc entry
func pointToDocEntry(point *qdrant.ScoredPoint) *DocEntry {
	payload := point.GetPayload()
	if payload == nil {
		return nil
	}

	entry := &DocEntry{}
	if id := point.GetId(); id != nil {
		entry.ID = id.GetUuid()
	}
	if v, ok := payload["kind"]; ok {
		entry.Kind = EntryKind(v.GetStringValue())
	}
	if v, ok := payload["key"]; ok {
		entry.Key = v.GetStringValue()
	}
	if v, ok := payload["text"]; ok {
		entry.Text = v.GetStringValue()
	}
	return entry
}
