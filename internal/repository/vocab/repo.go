package vocab

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/MehrozAli/MetricTesting/internal/db"
	"github.com/MehrozAli/MetricTesting/internal/domain/sparse"
)

// payloadField is the payload key on the sentinel point that carries the
// term-to-index map.
const payloadField = "vocabulary"

// store is the consumer interface for vocabulary lookups (ISP).
type store interface {
	RetrievePayload(ctx context.Context, collection, id string) (map[string]any, error)
}

// Repo loads the sparse-vector vocabulary from a sentinel point in the
// collection. Lookups fail open: any error yields an empty vocabulary so a
// query degrades to dense-only retrieval instead of failing outright.
type Repo struct {
	store   store
	pointID string
	logger  *zap.Logger
}

// New creates a vocabulary repository reading the sentinel point with the
// given identifier.
func New(s store, pointID string, logger *zap.Logger) *Repo {
	return &Repo{store: s, pointID: pointID, logger: logger}
}

// Fetch returns the collection's vocabulary, or an empty map when the
// sentinel point is missing or malformed. It never returns an error.
func (r *Repo) Fetch(ctx context.Context, collection string) sparse.Vocabulary {
	payload, err := r.store.RetrievePayload(ctx, collection, r.pointID)
	if err != nil {
		if errors.Is(err, db.ErrPointNotFound) {
			r.logger.Warn("Vocabulary point not found, sparse search disabled",
				zap.String("collection", collection),
				zap.String("point_id", r.pointID))
		} else {
			r.logger.Warn("Failed to fetch vocabulary",
				zap.String("collection", collection),
				zap.Error(err))
		}
		return sparse.Vocabulary{}
	}

	vocab, err := parseVocabulary(payload)
	if err != nil {
		r.logger.Warn("Malformed vocabulary payload",
			zap.String("collection", collection),
			zap.Error(err))
		return sparse.Vocabulary{}
	}

	return vocab
}

// parseVocabulary extracts the term->index map from the sentinel payload.
func parseVocabulary(payload map[string]any) (sparse.Vocabulary, error) {
	raw, ok := payload[payloadField]
	if !ok {
		return nil, fmt.Errorf("payload field %q missing", payloadField)
	}

	entries, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("payload field %q is %T, expected object", payloadField, raw)
	}

	vocab := make(sparse.Vocabulary, len(entries))
	for term, v := range entries {
		idx, err := toIndex(v)
		if err != nil {
			return nil, fmt.Errorf("term %q: %w", term, err)
		}
		vocab[term] = idx
	}

	return vocab, nil
}

func toIndex(v any) (uint32, error) {
	switch n := v.(type) {
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("negative index %d", n)
		}
		return uint32(n), nil
	case float64:
		if n < 0 {
			return 0, fmt.Errorf("negative index %v", n)
		}
		return uint32(n), nil
	default:
		return 0, fmt.Errorf("index is %T, expected number", v)
	}
}
