package similarity

import "strings"

// Glove scores strings by summing per-character vectors from a loaded
// table and comparing by cosine similarity. The character-level view
// keeps short schema codes like "sex" and "dx" inside the vocabulary
// where whole-word tables would miss them.
type Glove struct {
	lex *Lexicon
}

// NewGlove returns a Glove scorer over the given lexicon.
func NewGlove(lex *Lexicon) *Glove {
	return &Glove{lex: lex}
}

// Name implements Scorer.
func (g *Glove) Name() string { return BackendGlove }

// Score implements Scorer.
func (g *Glove) Score(a, b string) float64 {
	return cosine(g.embed(a), g.embed(b))
}

// embed lowercases the text, drops separators and sums the vector of
// every remaining character. Out-of-vocabulary characters contribute
// nothing; an all-unknown string yields the zero vector, which cosine
// scores as 0.
func (g *Glove) embed(text string) []float32 {
	sum := make([]float32, g.lex.Dim())
	for _, r := range strings.ToLower(text) {
		switch r {
		case '_', '-', ' ':
			continue
		}
		vec := g.lex.Vector(string(r))
		if vec == nil {
			continue
		}
		for i, v := range vec {
			sum[i] += v
		}
	}
	return sum
}
