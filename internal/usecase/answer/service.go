package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domanswer "github.com/MehrozAli/MetricTesting/internal/domain/answer"
)

// Service turns a query plus retrieved context into an answer.
//
// The model may reply with a structured direct-response object instead of
// prose (list-style questions). Shape detection runs on a deterministic
// single-shot completion first; only when the probe comes back as prose does
// a streaming request need a second completion.
type Service struct {
	gen    Generator
	system string
	logger *zap.Logger
}

// Outcome is the result of answering a query. Exactly one of Direct, Text,
// or Stream is set.
type Outcome struct {
	Direct *domanswer.DirectResponse
	Text   string
	Stream domanswer.Stream
}

// New creates an answer service with the given system instruction.
func New(gen Generator, system string, logger *zap.Logger) *Service {
	return &Service{gen: gen, system: system, logger: logger}
}

// Answer generates a response grounded in contextText. With stream=false it
// returns the full text (or a direct response). With stream=true it returns
// either a direct response or a live token stream; the caller must Close
// the stream.
func (s *Service) Answer(
	ctx context.Context, query, contextText string, stream bool,
) (Outcome, error) {
	user := buildUserMessage(query, contextText)

	probe, err := s.gen.Generate(ctx, s.system, user)
	if err != nil {
		return Outcome{}, fmt.Errorf("generate answer: %w", err)
	}

	if direct, ok := domanswer.ParseDirect(probe); ok {
		s.logger.Debug("Direct response detected",
			zap.Int("metric_count", len(direct.Metrics)))
		return Outcome{Direct: direct}, nil
	}

	if !stream {
		return Outcome{Text: probe}, nil
	}

	liveStream, err := s.gen.GenerateStream(ctx, s.system, user)
	if err != nil {
		return Outcome{}, fmt.Errorf("start answer stream: %w", err)
	}
	return Outcome{Stream: liveStream}, nil
}

// buildUserMessage folds the retrieved context and the question into one
// user turn.
func buildUserMessage(query, contextText string) string {
	var b strings.Builder
	b.WriteString("User Query: \"")
	b.WriteString(query)
	b.WriteString("\"\n\nRetrieved Context:\n")
	if strings.TrimSpace(contextText) == "" {
		b.WriteString("(no matching metrics found)")
	} else {
		b.WriteString(contextText)
	}
	b.WriteString("\n\nBased on the query type and the retrieved context above, provide an appropriate response.")
	return b.String()
}
