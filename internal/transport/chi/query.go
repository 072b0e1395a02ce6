package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/MehrozAli/MetricTesting/internal/domain"
	domanswer "github.com/MehrozAli/MetricTesting/internal/domain/answer"
	"github.com/MehrozAli/MetricTesting/internal/domain/metric"
	"github.com/MehrozAli/MetricTesting/internal/domain/search/fusion"
	"github.com/MehrozAli/MetricTesting/internal/domain/search/request"
)

// searchType is the retrieval strategy label echoed in every response.
const searchType = "hybrid_native_fusion"

// queryRequest is the POST /api/query body.
type queryRequest struct {
	Query          string            `json:"query"`
	Limit          int               `json:"limit"`
	Filters        map[string]string `json:"filters"`
	Streaming      *bool             `json:"streaming"`
	ScoreThreshold *float64          `json:"score_threshold"`
	PrefetchLimit  int               `json:"prefetch_limit"`
	FusionType     string            `json:"fusion_type"`
	Weights        []float64         `json:"weights"`
}

// queryResponse is the non-streaming success body.
type queryResponse struct {
	Success          bool             `json:"success"`
	Query            string           `json:"query"`
	ResultCount      int              `json:"resultCount"`
	SearchType       string           `json:"searchType"`
	FusionType       string           `json:"fusionType"`
	Response         string           `json:"response"`
	RetrievedMetrics []metric.Summary `json:"retrievedMetrics"`
}

// directQueryResponse is the success body when the model answered with a
// structured record list instead of prose.
type directQueryResponse struct {
	Success          bool             `json:"success"`
	Query            string           `json:"query"`
	ResultCount      int              `json:"resultCount"`
	SearchType       string           `json:"searchType"`
	FusionType       string           `json:"fusionType"`
	DirectResponse   bool             `json:"directResponse"`
	Metrics          []map[string]any `json:"metrics"`
	RetrievedMetrics []metric.Summary `json:"retrievedMetrics"`
}

// Query handles POST /api/query: the full retrieve-then-answer pipeline.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var body queryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body", err.Error())
		return
	}

	req, err := buildRequest(&body)
	if err != nil {
		writeError(w, http.StatusBadRequest,
			"Query parameter is required and must be a non-empty string", err.Error())
		return
	}

	exists, err := s.collections.CollectionExists(r.Context(), s.collection)
	if err != nil {
		s.handleDomainError(w, fmt.Errorf("check collection: %w", err))
		return
	}
	if !exists {
		s.handleDomainError(w, domain.NewCollectionNotFound(s.collection))
		return
	}

	results, err := s.retriever.Retrieve(r.Context(), s.collection, req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	records := metric.Project(results)
	contextText := metric.ContextText(records)
	summaries := metric.Summaries(records)

	streaming := body.Streaming == nil || *body.Streaming

	outcome, err := s.answerer.Answer(r.Context(), req.Query(), contextText, streaming)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	switch {
	case outcome.Direct != nil:
		// Structured answers are delivered as one document even when the
		// client asked for a stream.
		writeJSON(w, http.StatusOK, directQueryResponse{
			Success:          true,
			Query:            req.Query(),
			ResultCount:      len(results),
			SearchType:       searchType,
			FusionType:       string(req.Fusion()),
			DirectResponse:   true,
			Metrics:          outcome.Direct.Metrics,
			RetrievedMetrics: summaries,
		})
	case streaming:
		s.streamAnswer(w, req, outcome.Stream, len(results), summaries)
	default:
		writeJSON(w, http.StatusOK, queryResponse{
			Success:          true,
			Query:            req.Query(),
			ResultCount:      len(results),
			SearchType:       searchType,
			FusionType:       string(req.Fusion()),
			Response:         outcome.Text,
			RetrievedMetrics: summaries,
		})
	}
}

// streamAnswer frames the live answer as server-sent events: one metadata
// event, content deltas, then a terminal done event with the record summary.
func (s *Server) streamAnswer(
	w http.ResponseWriter,
	req *request.Request,
	stream domanswer.Stream,
	resultCount int,
	summaries []metric.Summary,
) {
	defer stream.Close()

	sse, err := newSSEWriter(w)
	if err != nil {
		s.logger.Error("streaming unsupported", zap.Error(err))
		writeError(w, http.StatusInternalServerError,
			"An error occurred during processing", "streaming not supported")
		return
	}

	if err := sse.WriteEvent(map[string]any{
		"type":        "metadata",
		"query":       req.Query(),
		"resultCount": resultCount,
		"searchType":  searchType,
		"fusionType":  string(req.Fusion()),
	}); err != nil {
		s.logger.Warn("client gone before metadata", zap.Error(err))
		return
	}

	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Error("answer stream failed", zap.Error(err))
			// Headers are committed; surface the failure in-band.
			_ = sse.WriteEvent(map[string]any{
				"type":  "error",
				"error": "An error occurred during processing",
			})
			return
		}
		if err := sse.WriteEvent(map[string]any{
			"type":    "content",
			"content": delta,
		}); err != nil {
			s.logger.Warn("client disconnected mid-stream", zap.Error(err))
			return
		}
	}

	_ = sse.WriteEvent(map[string]any{
		"type":             "done",
		"retrievedMetrics": summaries,
	})
}

// buildRequest validates the body and applies the documented defaults.
func buildRequest(body *queryRequest) (*request.Request, error) {
	threshold := request.DefaultScoreThreshold
	if body.ScoreThreshold != nil {
		threshold = *body.ScoreThreshold
	}

	req, err := request.New(
		body.Query,
		fusion.Method(body.FusionType),
		body.Filters,
		body.Limit,
		body.PrefetchLimit,
		threshold,
		body.Weights,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return &req, nil
}
