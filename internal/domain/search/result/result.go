package result

// Result is a single fused search hit: a metric record reference, its
// relevance score, and the raw store payload.
type Result struct {
	id      string
	score   float64
	payload map[string]any
}

// New creates a search result.
func New(id string, score float64, payload map[string]any) Result {
	return Result{id: id, score: score, payload: payload}
}

// ID returns the store point identifier.
func (r *Result) ID() string { return r.id }

// Score returns the relevance score.
func (r *Result) Score() float64 { return r.score }

// Payload returns the raw record payload.
func (r *Result) Payload() map[string]any { return r.payload }

// WithScore returns a copy of the result carrying a new score.
func (r *Result) WithScore(score float64) Result {
	return Result{id: r.id, score: score, payload: r.payload}
}
