package request

import (
	"strings"
	"testing"

	"github.com/MehrozAli/MetricTesting/internal/domain/search/fusion"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("churn rate", "", nil, 0, 0, DefaultScoreThreshold, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("limit = %d, want %d", r.Limit(), DefaultLimit)
	}
	if r.PrefetchLimit() != DefaultPrefetchLimit {
		t.Errorf("prefetch = %d, want %d", r.PrefetchLimit(), DefaultPrefetchLimit)
	}
	if r.Fusion() != fusion.RRF {
		t.Errorf("fusion = %q, want rrf", r.Fusion())
	}
	if w := r.Weights(); w != DefaultWeights() {
		t.Errorf("weights = %v, want %v", w, DefaultWeights())
	}
}

func TestNew_EmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := New(q, "", nil, 0, 0, 0, nil); err == nil {
			t.Errorf("query %q: expected error", q)
		}
	}
}

func TestNew_TrimsQuery(t *testing.T) {
	r, err := New("  created leads  ", "", nil, 0, 0, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "created leads" {
		t.Errorf("query = %q", r.Query())
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	if _, err := New(strings.Repeat("x", MaxQueryLength+1), "", nil, 0, 0, 0, nil); err == nil {
		t.Error("expected error for oversized query")
	}
}

func TestNew_ClampsLimits(t *testing.T) {
	r, err := New("q", "", nil, 500, 500, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != MaxLimit {
		t.Errorf("limit = %d, want %d", r.Limit(), MaxLimit)
	}
	if r.PrefetchLimit() != MaxPrefetchLimit {
		t.Errorf("prefetch = %d, want %d", r.PrefetchLimit(), MaxPrefetchLimit)
	}
}

func TestNew_PrefetchAtLeastLimit(t *testing.T) {
	r, err := New("q", "", nil, 30, 10, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.PrefetchLimit() < r.Limit() {
		t.Errorf("prefetch %d < limit %d", r.PrefetchLimit(), r.Limit())
	}
}

func TestNew_InvalidFusion(t *testing.T) {
	if _, err := New("q", "cascade", nil, 0, 0, 0, nil); err == nil {
		t.Error("expected error for unknown fusion method")
	}
}

func TestNew_ThresholdBounds(t *testing.T) {
	for _, th := range []float64{-0.1, 1.1} {
		if _, err := New("q", "", nil, 0, 0, th, nil); err == nil {
			t.Errorf("threshold %f: expected error", th)
		}
	}
}

func TestNew_Weights(t *testing.T) {
	if _, err := New("q", "", nil, 0, 0, 0, []float64{0.5}); err == nil {
		t.Error("expected error for single weight")
	}
	if _, err := New("q", "", nil, 0, 0, 0, []float64{-1, 0.5}); err == nil {
		t.Error("expected error for negative weight")
	}
	if _, err := New("q", "", nil, 0, 0, 0, []float64{0, 0}); err == nil {
		t.Error("expected error for all-zero weights")
	}

	r, err := New("q", "", nil, 0, 0, 0, []float64{0.6, 0.4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w := r.Weights(); w[0] != 0.6 || w[1] != 0.4 {
		t.Errorf("weights = %v", w)
	}
}
