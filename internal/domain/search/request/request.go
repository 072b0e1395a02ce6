package request

import (
	"fmt"
	"strings"

	"github.com/MehrozAli/MetricTesting/internal/domain/search/fusion"
)

// Retrieval parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length.
	MaxQueryLength = 4096
	DefaultLimit   = 5
	MaxLimit       = 50
	// DefaultPrefetchLimit is the candidate-set size per sub-query before fusion.
	DefaultPrefetchLimit = 15
	MaxPrefetchLimit     = 100
	// DefaultScoreThreshold applies to normalized fused scores (top result = 1).
	DefaultScoreThreshold = 0.4
)

// DefaultWeights is the default (dense, sparse) fusion weight pair.
func DefaultWeights() [2]float64 { return [2]float64{0.8, 0.2} }

// Request is a validated retrieval query.
type Request struct {
	query          string
	limit          int
	prefetchLimit  int
	fusionMethod   fusion.Method
	weights        [2]float64
	scoreThreshold float64
	filters        map[string]string
}

// New validates and normalizes retrieval parameters.
// Defaults: limit=5, prefetch=15, fusion=rrf, weights=(0.8, 0.2).
// The query must be non-empty after trimming.
func New(
	query string,
	m fusion.Method,
	filters map[string]string,
	limit, prefetchLimit int,
	scoreThreshold float64,
	weights []float64,
) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if m == "" {
		m = fusion.RRF
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("invalid fusion type: %q", m)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if prefetchLimit <= 0 {
		prefetchLimit = DefaultPrefetchLimit
	}
	if prefetchLimit > MaxPrefetchLimit {
		prefetchLimit = MaxPrefetchLimit
	}
	if prefetchLimit < limit {
		prefetchLimit = limit
	}
	if scoreThreshold < 0 || scoreThreshold > 1 {
		return Request{}, fmt.Errorf("score_threshold must be between 0 and 1")
	}

	w := DefaultWeights()
	if len(weights) > 0 {
		if len(weights) != 2 {
			return Request{}, fmt.Errorf("weights must hold exactly two values (dense, sparse)")
		}
		if weights[0] < 0 || weights[1] < 0 {
			return Request{}, fmt.Errorf("weights must be non-negative")
		}
		if weights[0] == 0 && weights[1] == 0 {
			return Request{}, fmt.Errorf("weights must not both be zero")
		}
		w = [2]float64{weights[0], weights[1]}
	}

	return Request{
		query:          query,
		limit:          limit,
		prefetchLimit:  prefetchLimit,
		fusionMethod:   m,
		weights:        w,
		scoreThreshold: scoreThreshold,
		filters:        filters,
	}, nil
}

// Query returns the trimmed query text.
func (r *Request) Query() string { return r.query }

// Limit returns the maximum results to return after fusion.
func (r *Request) Limit() int { return r.limit }

// PrefetchLimit returns the candidate-set size per sub-query.
func (r *Request) PrefetchLimit() int { return r.prefetchLimit }

// Fusion returns the fusion method.
func (r *Request) Fusion() fusion.Method { return r.fusionMethod }

// Weights returns the (dense, sparse) fusion weight pair.
func (r *Request) Weights() [2]float64 { return r.weights }

// ScoreThreshold returns the minimum normalized fused score to retain.
func (r *Request) ScoreThreshold() float64 { return r.scoreThreshold }

// Filters returns the exact-match payload filters.
func (r *Request) Filters() map[string]string { return r.filters }
