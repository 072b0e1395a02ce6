// Package sparse builds vocabulary-indexed sparse vectors from free text.
//
// The vocabulary is a pre-trained token -> dimension mapping produced by the
// ingestion pipeline and stored in the vector store. Query text is tokenized
// the same way the ingested documents were, counted against the vocabulary,
// and L2-normalized. Tokens outside the vocabulary are dropped silently: an
// empty sparse vector is a valid outcome and leaves dense-only retrieval
// intact.
package sparse

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// Vocabulary maps a normalized token to its sparse dimension index.
// Indices are unique per token and stable across requests.
type Vocabulary map[string]uint32

// Vector is a sparse weight vector: parallel dimension indices and weights,
// sorted by index. Weights are non-negative and L2-normalized when non-empty.
type Vector struct {
	Indices []uint32
	Values  []float32
}

// IsEmpty reports whether the vector carries no signal.
func (v Vector) IsEmpty() bool { return len(v.Indices) == 0 }

// phraseSeparators split text into candidate phrases before word splitting.
// Multi-word vocabulary entries (metric names, aliases) are comma/pipe/newline
// separated in the source data.
const phraseSeparators = ",;|\n"

// boundaryPunct is trimmed from both ends of every phrase and word.
const boundaryPunct = ".,;:!?()[]{}-_/'\""

// minWordLen: single words at or below this rune count are noise ("is", "of").
const minWordLen = 2

// Tokenize converts text into a deduplicated, order-preserving sequence of
// normalized tokens. Each cleaned phrase is retained as a token in its own
// right, and every constituent word longer than two characters is emitted as
// well. Empty input yields a nil slice.
func Tokenize(text string) []string {
	raw := tokenStream(text)
	if len(raw) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(raw))
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	return tokens
}

// Build counts vocabulary tokens in text and returns an L2-normalized sparse
// vector. Unknown tokens are dropped; when nothing matches, the returned
// vector is empty. Build never fails.
func Build(text string, vocab Vocabulary) Vector {
	if len(vocab) == 0 {
		return Vector{}
	}

	counts := make(map[uint32]float32)
	for _, t := range tokenStream(text) {
		if idx, ok := vocab[t]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	indices := make([]uint32, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	var sumSq float64
	for _, c := range counts {
		sumSq += float64(c) * float64(c)
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return Vector{}
	}

	values := make([]float32, len(indices))
	for i, idx := range indices {
		values[i] = float32(float64(counts[idx]) / norm)
	}

	return Vector{Indices: indices, Values: values}
}

// tokenStream lower-cases text and emits tokens in order without
// deduplication: one token per cleaned phrase plus one per qualifying word.
func tokenStream(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lower := strings.ToLower(text)
	phrases := strings.FieldsFunc(lower, func(r rune) bool {
		return strings.ContainsRune(phraseSeparators, r)
	})

	var tokens []string
	for _, phrase := range phrases {
		words := strings.Fields(phrase)
		cleaned := words[:0]
		for _, w := range words {
			w = strings.Trim(w, boundaryPunct)
			if w != "" {
				cleaned = append(cleaned, w)
			}
		}
		if len(cleaned) == 0 {
			continue
		}

		tokens = append(tokens, strings.Join(cleaned, " "))
		if len(cleaned) == 1 {
			continue
		}
		for _, w := range cleaned {
			if utf8.RuneCountInString(w) > minWordLen {
				tokens = append(tokens, w)
			}
		}
	}
	return tokens
}
