package qdrant

import (
	"context"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/MehrozAli/MetricTesting/internal/db"
)

// RetrievePayload fetches a single point's payload by identifier.
// Returns db.ErrPointNotFound when the point is absent.
func (s *Store) RetrievePayload(ctx context.Context, collection, id string) (map[string]any, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	points, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: collection,
		Ids:            []*qdrant.PointId{qdrant.NewID(id)},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpRetrieve, Err: err}
	}
	if len(points) == 0 {
		return nil, db.ErrPointNotFound
	}

	return fromPayload(points[0].Payload), nil
}

// QueryDense runs a similarity query against the dense named vector.
func (s *Store) QueryDense(
	ctx context.Context, collection string,
	vector []float32, filters map[string]string, limit int,
) ([]db.PointHit, error) {
	return s.query(ctx, collection, qdrant.NewQuery(vector...), denseVectorName, filters, limit)
}

// QuerySparse runs a similarity query against the sparse named vector.
func (s *Store) QuerySparse(
	ctx context.Context, collection string,
	indices []uint32, values []float32, filters map[string]string, limit int,
) ([]db.PointHit, error) {
	return s.query(ctx, collection, qdrant.NewQuerySparse(indices, values), sparseVectorName, filters, limit)
}

func (s *Store) query(
	ctx context.Context, collection string,
	q *qdrant.Query, using string, filters map[string]string, limit int,
) ([]db.PointHit, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	scored, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          q,
		Using:          qdrant.PtrOf(using),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         buildFilter(filters),
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}

	hits := make([]db.PointHit, len(scored))
	for i, p := range scored {
		hits[i] = db.PointHit{
			ID:      pointIDString(p.Id),
			Score:   float64(p.Score),
			Payload: fromPayload(p.Payload),
		}
	}
	return hits, nil
}

// buildFilter converts exact-match filters into a Qdrant must-filter.
func buildFilter(filters map[string]string) *qdrant.Filter {
	if len(filters) == 0 {
		return nil
	}
	conditions := make([]*qdrant.Condition, 0, len(filters))
	for k, v := range filters {
		conditions = append(conditions, qdrant.NewMatchKeyword(k, v))
	}
	return &qdrant.Filter{Must: conditions}
}

func pointIDString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if u := id.GetUuid(); u != "" {
		return u
	}
	return strconv.FormatUint(id.GetNum(), 10)
}
