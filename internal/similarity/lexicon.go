package similarity

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Lexicon is an immutable word-vector table loaded once per process and
// shared read-only by the vector backends. Construction is the only
// mutation; concurrent reads are safe without locking.
type Lexicon struct {
	dim     int
	vectors map[string][]float32
}

// Dim returns the vector dimensionality.
func (l *Lexicon) Dim() int { return l.dim }

// Len returns the vocabulary size.
func (l *Lexicon) Len() int { return len(l.vectors) }

// Vector returns the vector for a token, or nil when out of vocabulary.
func (l *Lexicon) Vector(token string) []float32 {
	return l.vectors[token]
}

// LoadLexicon parses a GloVe-style text table: one token per line
// followed by its space-separated components. All lines must agree on
// dimensionality.
func LoadLexicon(r io.Reader) (*Lexicon, error) {
	lex := &Lexicon{vectors: make(map[string][]float32)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		token := fields[0]
		vec := make([]float32, len(fields)-1)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("vector table line %d: bad component %q", line, f)
			}
			vec[i] = float32(v)
		}
		if lex.dim == 0 {
			lex.dim = len(vec)
		} else if len(vec) != lex.dim {
			return nil, fmt.Errorf("vector table line %d: dimension %d, want %d", line, len(vec), lex.dim)
		}
		lex.vectors[token] = vec
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read vector table: %w", err)
	}
	if len(lex.vectors) == 0 {
		return nil, fmt.Errorf("vector table is empty")
	}
	return lex, nil
}

// LoadLexiconFile loads a vector table from a file path.
func LoadLexiconFile(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vector table: %w", err)
	}
	defer f.Close()
	return LoadLexicon(f)
}
