package db

import (
	"context"
	"time"
)

// Store is the vector store facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces.
type Store interface {
	Pinger
	PointRetriever
	VectorQuerier
	CollectionChecker
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PointRetriever fetches a single point's payload by identifier.
type PointRetriever interface {
	RetrievePayload(ctx context.Context, collection, id string) (map[string]any, error)
}

// VectorQuerier runs candidate-generation queries against named vectors.
type VectorQuerier interface {
	QueryDense(
		ctx context.Context, collection string,
		vector []float32, filters map[string]string, limit int,
	) ([]PointHit, error)

	QuerySparse(
		ctx context.Context, collection string,
		indices []uint32, values []float32, filters map[string]string, limit int,
	) ([]PointHit, error)
}

// CollectionChecker inspects collection availability.
type CollectionChecker interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	ListCollections(ctx context.Context) ([]string, error)
}

// KVStore provides the key-value operations used by caches.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// PointHit is a single scored point returned by a query.
type PointHit struct {
	ID      string
	Score   float64
	Payload map[string]any
}
