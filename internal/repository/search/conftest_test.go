package search

import (
	"context"
	"testing"

	"github.com/MehrozAli/MetricTesting/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	queryDenseFn  func(ctx context.Context, collection string, vector []float32, filters map[string]string, limit int) ([]db.PointHit, error)
	querySparseFn func(ctx context.Context, collection string, indices []uint32, values []float32, filters map[string]string, limit int) ([]db.PointHit, error)
}

func (m *mockStore) QueryDense(
	ctx context.Context, collection string,
	vector []float32, filters map[string]string, limit int,
) ([]db.PointHit, error) {
	if m.queryDenseFn != nil {
		return m.queryDenseFn(ctx, collection, vector, filters, limit)
	}
	return nil, nil
}

func (m *mockStore) QuerySparse(
	ctx context.Context, collection string,
	indices []uint32, values []float32, filters map[string]string, limit int,
) ([]db.PointHit, error) {
	if m.querySparseFn != nil {
		return m.querySparseFn(ctx, collection, indices, values, filters, limit)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testVector() []float32 {
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = 0.1
	}
	return vec
}
