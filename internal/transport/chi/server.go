package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/MehrozAli/MetricTesting/internal/domain"
	"github.com/MehrozAli/MetricTesting/internal/domain/search/request"
	"github.com/MehrozAli/MetricTesting/internal/domain/search/result"
	answeruc "github.com/MehrozAli/MetricTesting/internal/usecase/answer"
	healthuc "github.com/MehrozAli/MetricTesting/internal/usecase/health"
)

// Retriever runs hybrid retrieval for a query.
type Retriever interface {
	Retrieve(ctx context.Context, collection string, req *request.Request) ([]result.Result, error)
}

// Answerer generates a grounded answer from retrieved context.
type Answerer interface {
	Answer(ctx context.Context, query, contextText string, stream bool) (answeruc.Outcome, error)
}

// CollectionChecker verifies the knowledge-base collection is available.
type CollectionChecker interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
}

// HealthService aggregates component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server is the HTTP API for the metrics QA service.
type Server struct {
	retriever     Retriever
	answerer      Answerer
	collections   CollectionChecker
	health        HealthService
	collection    string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server answering over the named collection.
func NewServer(
	retriever Retriever,
	answerer Answerer,
	collections CollectionChecker,
	health HealthService,
	collection string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		retriever:   retriever,
		answerer:    answerer,
		collections: collections,
		health:      health,
		collection:  collection,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		collectionNotFoundHandler,
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, "Invalid request"),
	}
	return s
}

// Routes builds the route tree.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Post("/api/query", s.Query)
	r.Options("/api/query", preflightHandler)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	return r
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// errorEnvelope is the error response body shape.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errText, message string) {
	writeJSON(w, status, errorEnvelope{
		Success: false,
		Error:   errText,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, errText string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, errText, sentinel.Error())
		return true
	}
}

// collectionNotFoundHandler renders the 404 envelope with the collection name.
func collectionNotFoundHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrCollectionNotFound) {
		return false
	}
	var cnf *domain.CollectionNotFoundError
	if errors.As(err, &cnf) {
		writeError(w, http.StatusNotFound,
			"Collection '"+cnf.Collection+"' not found",
			"Please ensure the collection is created and populated first")
		return true
	}
	writeError(w, http.StatusNotFound,
		"Collection not found",
		"Please ensure the collection is created and populated first")
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError,
		"An error occurred during processing", safeMessage(err))
}

// safeMessage returns a sentinel error message without exposing internals.
func safeMessage(err error) string {
	sentinels := []error{
		domain.ErrEmbeddingProviderError,
		domain.ErrRetrievalFailed,
		domain.ErrGenerationFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}
