package retrieval

import (
	"math"
	"testing"
)

func TestFuseRRFWeightedOverlap(t *testing.T) {
	dense := resultsOf("a", 0.9, "b", 0.8, "c", 0.7)
	sparseHits := resultsOf("b", 1.5, "d", 1.2)

	fused := fuseRRF(dense, sparseHits, 0.8, 0.2)

	if len(fused) != 4 {
		t.Fatalf("fused %d results, want 4", len(fused))
	}
	// b appears in both lists: 0.8/62 + 0.2/61 > a's 0.8/61
	if fused[0].ID() != "b" {
		t.Errorf("top result = %s, want b", fused[0].ID())
	}
	wantB := 0.8/62.0 + 0.2/61.0
	if math.Abs(fused[0].Score()-wantB) > 1e-12 {
		t.Errorf("b score = %v, want %v", fused[0].Score(), wantB)
	}
	if fused[1].ID() != "a" {
		t.Errorf("second result = %s, want a", fused[1].ID())
	}
}

func TestFuseRRFDenseOnly(t *testing.T) {
	dense := resultsOf("a", 0.9, "b", 0.8)

	fused := fuseRRF(dense, nil, 0.8, 0.2)

	if got := ids(fused); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("ids = %v, want [a b]", got)
	}
	want := 0.8 / 61.0
	if math.Abs(fused[0].Score()-want) > 1e-12 {
		t.Errorf("a score = %v, want %v", fused[0].Score(), want)
	}
}

func TestFuseDBSF(t *testing.T) {
	dense := resultsOf("a", 0.9, "b", 0.5, "c", 0.1)
	sparseHits := resultsOf("c", 2.0, "d", 1.0)

	fused := fuseDBSF(dense, sparseHits, 0.8, 0.2)

	if len(fused) != 4 {
		t.Fatalf("fused %d results, want 4", len(fused))
	}
	// a leads its dense distribution with the dominant weight.
	if fused[0].ID() != "a" {
		t.Errorf("top result = %s, want a", fused[0].ID())
	}
	for i := 1; i < len(fused); i++ {
		if fused[i].Score() > fused[i-1].Score() {
			t.Errorf("results not sorted at %d: %v > %v", i, fused[i].Score(), fused[i-1].Score())
		}
	}
}

func TestNormalizeDistribution(t *testing.T) {
	if got := normalizeDistribution(nil); len(got) != 0 {
		t.Errorf("empty list: %v", got)
	}

	single := normalizeDistribution(resultsOf("a", 0.37))
	if len(single) != 1 || single[0] != 1 {
		t.Errorf("single element should normalize to 1, got %v", single)
	}

	uniform := normalizeDistribution(resultsOf("a", 0.5, "b", 0.5))
	for i, v := range uniform {
		if v != 1 {
			t.Errorf("uniform[%d] = %v, want 1", i, v)
		}
	}

	spread := normalizeDistribution(resultsOf("a", 1.0, "b", 0.0))
	if spread[0] <= spread[1] {
		t.Errorf("higher score should normalize higher: %v", spread)
	}
	for i, v := range spread {
		if v < 0 || v > 1 {
			t.Errorf("spread[%d] = %v outside [0,1]", i, v)
		}
	}
}

func TestNormalizeTop(t *testing.T) {
	in := resultsOf("a", 0.02, "b", 0.01)
	out := normalizeTop(in)

	if out[0].Score() != 1.0 {
		t.Errorf("top score = %v, want 1.0", out[0].Score())
	}
	if math.Abs(out[1].Score()-0.5) > 1e-12 {
		t.Errorf("second score = %v, want 0.5", out[1].Score())
	}

	if got := normalizeTop(nil); len(got) != 0 {
		t.Errorf("empty input: %v", got)
	}
}
