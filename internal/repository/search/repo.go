package search

import (
	"context"
	"fmt"

	"github.com/MehrozAli/MetricTesting/internal/db"
	"github.com/MehrozAli/MetricTesting/internal/domain/search/result"
	"github.com/MehrozAli/MetricTesting/internal/domain/sparse"
)

// store is the consumer interface for candidate generation (ISP).
type store interface {
	QueryDense(
		ctx context.Context, collection string,
		vector []float32, filters map[string]string, limit int,
	) ([]db.PointHit, error)

	QuerySparse(
		ctx context.Context, collection string,
		indices []uint32, values []float32, filters map[string]string, limit int,
	) ([]db.PointHit, error)
}

// Repo implements usecase/retrieval.Searcher over the vector store.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// QueryDense runs a dense similarity query and returns scored candidates.
func (r *Repo) QueryDense(
	ctx context.Context, collection string,
	vector []float32, filters map[string]string, limit int,
) ([]result.Result, error) {
	hits, err := r.store.QueryDense(ctx, collection, vector, filters, limit)
	if err != nil {
		return nil, fmt.Errorf("dense query %s: %w", collection, err)
	}
	return toResults(hits), nil
}

// QuerySparse runs a sparse term-match query and returns scored candidates.
// An empty sparse vector yields no candidates without touching the store.
func (r *Repo) QuerySparse(
	ctx context.Context, collection string,
	vec sparse.Vector, filters map[string]string, limit int,
) ([]result.Result, error) {
	if vec.IsEmpty() {
		return nil, nil
	}

	hits, err := r.store.QuerySparse(ctx, collection, vec.Indices, vec.Values, filters, limit)
	if err != nil {
		return nil, fmt.Errorf("sparse query %s: %w", collection, err)
	}
	return toResults(hits), nil
}

func toResults(hits []db.PointHit) []result.Result {
	if len(hits) == 0 {
		return nil
	}
	results := make([]result.Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, result.New(h.ID, h.Score, h.Payload))
	}
	return results
}
