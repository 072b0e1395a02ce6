package fusion

// Method is the rank-fusion strategy for combining dense and sparse
// candidate lists.
type Method string

// Fusion method constants.
const (
	// RRF is weighted Reciprocal Rank Fusion (Cormack et al. 2009).
	RRF Method = "rrf"
	// DBSF is Distribution-Based Score Fusion: per-list score normalization
	// around mean +/- 3 sigma, then a weighted sum.
	DBSF Method = "dbsf"
)

// IsValid checks if the method is one of the supported values.
func (m Method) IsValid() bool {
	return m == RRF || m == DBSF
}
