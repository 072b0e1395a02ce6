package retrieval

import (
	"context"

	"github.com/MehrozAli/MetricTesting/internal/domain"
	"github.com/MehrozAli/MetricTesting/internal/domain/search/result"
	"github.com/MehrozAli/MetricTesting/internal/domain/sparse"
)

// Searcher defines the storage contract for candidate generation.
type Searcher interface {
	QueryDense(
		ctx context.Context, collection string,
		vector []float32, filters map[string]string, limit int,
	) ([]result.Result, error)

	QuerySparse(
		ctx context.Context, collection string,
		vec sparse.Vector, filters map[string]string, limit int,
	) ([]result.Result, error)
}

// VocabularyProvider loads the collection's sparse-vector vocabulary.
// Implementations fail open: an empty vocabulary disables the sparse leg.
type VocabularyProvider interface {
	Fetch(ctx context.Context, collection string) sparse.Vocabulary
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
