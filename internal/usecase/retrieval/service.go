package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MehrozAli/MetricTesting/internal/domain"
	"github.com/MehrozAli/MetricTesting/internal/domain/search/fusion"
	"github.com/MehrozAli/MetricTesting/internal/domain/search/request"
	"github.com/MehrozAli/MetricTesting/internal/domain/search/result"
	"github.com/MehrozAli/MetricTesting/internal/domain/sparse"
	"github.com/MehrozAli/MetricTesting/internal/metrics"
)

// Service runs hybrid retrieval: dense and sparse candidate generation
// fused into one ranked list.
type Service struct {
	searcher Searcher
	vocab    VocabularyProvider
	embed    Embedder
	logger   *zap.Logger
}

// New creates a retrieval service.
func New(searcher Searcher, vocab VocabularyProvider, embed Embedder, logger *zap.Logger) *Service {
	return &Service{searcher: searcher, vocab: vocab, embed: embed, logger: logger}
}

// Retrieve embeds the query, generates dense and sparse candidates, fuses
// them, and returns up to req.Limit() results at or above the score
// threshold. Fused scores are normalized so the best result scores 1.0.
func (s *Service) Retrieve(
	ctx context.Context, collection string, req *request.Request,
) ([]result.Result, error) {
	results, err := s.retrieve(ctx, collection, req)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RetrievalRequestsTotal.WithLabelValues(string(req.Fusion()), status).Inc()
	if err == nil {
		metrics.RetrievalResultCount.WithLabelValues(string(req.Fusion())).Observe(float64(len(results)))
	}

	return results, err
}

func (s *Service) retrieve(
	ctx context.Context, collection string, req *request.Request,
) ([]result.Result, error) {
	// The vocabulary lookup and the embedding call are independent round
	// trips; overlap them.
	vocabCh := make(chan sparse.Vocabulary, 1)
	go func() {
		vocabCh <- s.vocab.Fetch(ctx, collection)
	}()

	embResult, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	vocab := <-vocabCh
	sparseVec := sparse.Build(req.Query(), vocab)

	dense, err := s.searcher.QueryDense(
		ctx, collection, embResult.Embedding, req.Filters(), req.PrefetchLimit(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, err)
	}

	var sparseHits []result.Result
	if !sparseVec.IsEmpty() {
		sparseHits, err = s.searcher.QuerySparse(
			ctx, collection, sparseVec, req.Filters(), req.PrefetchLimit(),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, err)
		}
	} else {
		s.logger.Debug("Sparse leg skipped, empty sparse vector",
			zap.String("collection", collection))
	}

	weights := req.Weights()

	var fused []result.Result
	switch req.Fusion() {
	case fusion.DBSF:
		fused = fuseDBSF(dense, sparseHits, weights[0], weights[1])
	default:
		fused = fuseRRF(dense, sparseHits, weights[0], weights[1])
	}

	fused = normalizeTop(fused)

	filtered := fused[:0]
	for _, r := range fused {
		if r.Score() >= req.ScoreThreshold() {
			filtered = append(filtered, r)
		}
	}

	if len(filtered) > req.Limit() {
		filtered = filtered[:req.Limit()]
	}

	return filtered, nil
}
