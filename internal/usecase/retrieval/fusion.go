package retrieval

import (
	"math"
	"sort"

	"github.com/MehrozAli/MetricTesting/internal/domain/search/result"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

type scored struct {
	res   result.Result
	score float64
}

// fuseRRF merges dense and sparse candidates via weighted Reciprocal Rank Fusion.
// score(d) = w_i * 1/(k + rank_i(d)) summed over the rankings where d appears.
// When a point appears in both lists, the dense copy's payload is kept.
func fuseRRF(dense, sparse []result.Result, denseWeight, sparseWeight float64) []result.Result {
	merged := make(map[string]*scored)

	for rank, r := range dense {
		s := denseWeight / float64(rrfK+rank+1)
		merged[r.ID()] = &scored{res: r, score: s}
	}

	for rank, r := range sparse {
		s := sparseWeight / float64(rrfK+rank+1)
		if existing, ok := merged[r.ID()]; ok {
			existing.score += s
		} else {
			merged[r.ID()] = &scored{res: r, score: s}
		}
	}

	return sortByScore(merged)
}

// fuseDBSF merges candidates via Distribution-Based Score Fusion: each list's
// raw scores are normalized into [0,1] using a 3-sigma window around the list
// mean, then combined as a weighted sum.
func fuseDBSF(dense, sparse []result.Result, denseWeight, sparseWeight float64) []result.Result {
	merged := make(map[string]*scored)

	for _, leg := range []struct {
		results []result.Result
		weight  float64
	}{
		{dense, denseWeight},
		{sparse, sparseWeight},
	} {
		normalized := normalizeDistribution(leg.results)
		for i, r := range leg.results {
			s := leg.weight * normalized[i]
			if existing, ok := merged[r.ID()]; ok {
				existing.score += s
			} else {
				merged[r.ID()] = &scored{res: r, score: s}
			}
		}
	}

	return sortByScore(merged)
}

// normalizeDistribution maps each score into [0,1] relative to a
// mean +/- 3*stddev window over the list.
func normalizeDistribution(results []result.Result) []float64 {
	n := len(results)
	normalized := make([]float64, n)
	if n == 0 {
		return normalized
	}
	if n == 1 {
		normalized[0] = 1
		return normalized
	}

	var sum float64
	for _, r := range results {
		sum += r.Score()
	}
	mean := sum / float64(n)

	var variance float64
	for _, r := range results {
		d := r.Score() - mean
		variance += d * d
	}
	sigma := math.Sqrt(variance / float64(n))

	lo := mean - 3*sigma
	hi := mean + 3*sigma
	span := hi - lo
	if span == 0 {
		for i := range normalized {
			normalized[i] = 1
		}
		return normalized
	}

	for i, r := range results {
		v := (r.Score() - lo) / span
		normalized[i] = math.Min(1, math.Max(0, v))
	}
	return normalized
}

// normalizeTop rescales fused scores so the best result has score 1.0,
// making them comparable against the request's score threshold.
func normalizeTop(results []result.Result) []result.Result {
	if len(results) == 0 {
		return results
	}
	top := results[0].Score()
	if top <= 0 {
		return results
	}
	out := make([]result.Result, len(results))
	for i, r := range results {
		out[i] = r.WithScore(r.Score() / top)
	}
	return out
}

func sortByScore(merged map[string]*scored) []result.Result {
	results := make([]result.Result, 0, len(merged))
	for _, s := range merged {
		results = append(results, s.res.WithScore(s.score))
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score() != results[j].Score() {
			return results[i].Score() > results[j].Score()
		}
		return results[i].ID() < results[j].ID()
	})
	return results
}
