package chi

import (
	"context"
	"io"
	"testing"

	"go.uber.org/zap"

	domanswer "github.com/MehrozAli/MetricTesting/internal/domain/answer"
	"github.com/MehrozAli/MetricTesting/internal/domain/search/request"
	"github.com/MehrozAli/MetricTesting/internal/domain/search/result"
	answeruc "github.com/MehrozAli/MetricTesting/internal/usecase/answer"
	healthuc "github.com/MehrozAli/MetricTesting/internal/usecase/health"
)

const testCollection = "HDB_METRIC_HYBRID"

// mockRetriever implements Retriever for tests.
type mockRetriever struct {
	retrieveFn func(ctx context.Context, collection string, req *request.Request) ([]result.Result, error)
	calls      int
}

func (m *mockRetriever) Retrieve(
	ctx context.Context, collection string, req *request.Request,
) ([]result.Result, error) {
	m.calls++
	if m.retrieveFn != nil {
		return m.retrieveFn(ctx, collection, req)
	}
	return nil, nil
}

// mockAnswerer implements Answerer for tests.
type mockAnswerer struct {
	answerFn func(ctx context.Context, query, contextText string, stream bool) (answeruc.Outcome, error)
	calls    int
}

func (m *mockAnswerer) Answer(
	ctx context.Context, query, contextText string, stream bool,
) (answeruc.Outcome, error) {
	m.calls++
	if m.answerFn != nil {
		return m.answerFn(ctx, query, contextText, stream)
	}
	return answeruc.Outcome{Text: "answer"}, nil
}

// mockCollections implements CollectionChecker for tests.
type mockCollections struct {
	exists bool
	err    error
	calls  int
}

func (m *mockCollections) CollectionExists(context.Context, string) (bool, error) {
	m.calls++
	return m.exists, m.err
}

// mockHealth implements HealthService for tests.
type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report {
	if m.report.Status == "" {
		return healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"vector_store": healthuc.CheckOK},
		}
	}
	return m.report
}

// fakeStream yields fixed chunks, then io.EOF.
type fakeStream struct {
	chunks []string
	pos    int
	closed bool
}

func (f *fakeStream) Recv() (string, error) {
	if f.pos >= len(f.chunks) {
		return "", io.EOF
	}
	c := f.chunks[f.pos]
	f.pos++
	return c, nil
}

func (f *fakeStream) Close() { f.closed = true }

var _ domanswer.Stream = (*fakeStream)(nil)

func newTestServer(t *testing.T) (*Server, *mockRetriever, *mockAnswerer, *mockCollections) {
	t.Helper()
	mr := &mockRetriever{}
	ma := &mockAnswerer{}
	mc := &mockCollections{exists: true}
	s := NewServer(mr, ma, mc, &mockHealth{}, testCollection, zap.NewNop())
	return s, mr, ma, mc
}

func metricPayload(uid, title string) map[string]any {
	return map[string]any{
		"UID":           uid,
		"Business Name": title,
		"m_Definition":  "Definition of " + title,
	}
}
