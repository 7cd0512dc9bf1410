package similarity

import (
	"hash/fnv"
	"math"
)

// defaultChars2VecDims matches the 50-dimensional embedding of the
// pretrained character model this backend stands in for.
const defaultChars2VecDims = 50

// Chars2Vec embeds strings through hashed character n-gram features and
// scores by cosine similarity. No external model file is needed; the
// embedding is deterministic across processes.
type Chars2Vec struct {
	dims int
}

// NewChars2Vec creates the scorer. dims <= 0 selects the default.
func NewChars2Vec(dims int) *Chars2Vec {
	if dims <= 0 {
		dims = defaultChars2VecDims
	}
	return &Chars2Vec{dims: dims}
}

// Name implements Scorer.
func (c *Chars2Vec) Name() string { return BackendChars2Vec }

// Score implements Scorer.
func (c *Chars2Vec) Score(a, b string) float64 {
	return cosine(c.embed(a), c.embed(b))
}

// embed hashes unigram, bigram and trigram character features into
// signed buckets, then normalizes to a unit vector. Empty input yields
// the zero vector.
func (c *Chars2Vec) embed(text string) []float32 {
	s := normalizeIdent(text)
	vec := make([]float32, c.dims)
	if s == "" {
		return vec
	}

	for n := 1; n <= 3; n++ {
		weight := float32(1) / float32(n)
		for i := 0; i+n <= len(s); i++ {
			h := hashFeature(s[i:i+n], n)
			pos := int(h % uint64(c.dims))
			if h&1 == 0 {
				vec[pos] += weight
			} else {
				vec[pos] -= weight
			}
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}

func hashFeature(s string, seed int) uint64 {
	h := fnv.New64a()
	h.Write([]byte{byte(seed)})
	h.Write([]byte(s))
	return h.Sum64()
}
