package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"

	"github.com/MehrozAli/MetricTesting/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Named vectors configured on the knowledge-base collection by the
// ingestion pipeline.
const (
	denseVectorName  = "dense"
	sparseVectorName = "sparse"
)

// defaultTimeout bounds every store call when the config leaves it unset.
const defaultTimeout = 30 * time.Second

// maxRecvBytes allows points with large payloads and wide dense vectors.
const maxRecvBytes = 16 * 1024 * 1024

// Config holds connection parameters for a Qdrant store.
type Config struct {
	Host    string
	Port    int
	APIKey  string
	UseTLS  bool
	Timeout time.Duration
}

// Store implements db.Store via the Qdrant gRPC client.
type Store struct {
	client  *qdrant.Client
	timeout time.Duration
}

// NewStore creates a Qdrant store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
		GrpcOptions: []grpc.DialOption{
			grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(maxRecvBytes)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client, timeout: cfg.Timeout}, nil
}

// Ping checks connectivity via the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if _, err := s.client.HealthCheck(ctx); err != nil {
		return &db.Error{Op: db.OpHealthCheck, Err: err}
	}
	return nil
}

// Close shuts down the client connection.
func (s *Store) Close() {
	_ = s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for vector store: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// CollectionExists reports whether the named collection is present.
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return false, &db.Error{Op: db.OpCollectionExists, Err: err}
	}
	return exists, nil
}

// ListCollections returns all collection names.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	names, err := s.client.ListCollections(ctx)
	if err != nil {
		return nil, &db.Error{Op: db.OpListCollections, Err: err}
	}
	return names, nil
}

// bound applies the per-call request timeout.
func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}
