// Package similarity provides the pluggable text scorers used for
// automatic column and value matching.
//
// Every scorer is a pure function from a string pair to a score in
// [0,1], higher meaning more similar. Empty or garbage input scores 0;
// scorers never return errors.
package similarity

import (
	"fmt"
	"math"
)

// Backend names accepted by New.
const (
	BackendLexical   = "lexical"
	BackendGlove     = "glove"
	BackendChars2Vec = "chars2vec"
)

// Backends lists the selectable backend names.
func Backends() []string {
	return []string{BackendLexical, BackendGlove, BackendChars2Vec}
}

// Scorer scores the similarity of two strings.
type Scorer interface {
	// Name returns the backend name.
	Name() string

	// Score returns a similarity in [0,1]; 0 for empty or unknown input.
	Score(a, b string) float64
}

// New returns the named scorer. The lexicon is only consulted by the
// vector-based backends and may be nil for the lexical one.
func New(name string, lex *Lexicon) (Scorer, error) {
	switch name {
	case BackendLexical, "":
		return Lexical{}, nil
	case BackendGlove:
		if lex == nil {
			return nil, fmt.Errorf("backend %q requires a loaded vector table", name)
		}
		return &Glove{lex: lex}, nil
	case BackendChars2Vec:
		return NewChars2Vec(0), nil
	}
	return nil, fmt.Errorf("unknown similarity backend %q", name)
}

// cosine returns the cosine similarity of two vectors clamped to [0,1].
// Zero vectors (out-of-vocabulary input) score 0.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
