// Package match proposes CDE matches for dataset columns and value
// mappings for categorical CDEs, using a configurable similarity
// backend.
package match

import (
	"sort"

	"github.com/HBPMedical/mip-dmp/internal/dataset"
	"github.com/HBPMedical/mip-dmp/internal/schema"
	"github.com/HBPMedical/mip-dmp/internal/similarity"
)

// DefaultKeep is the number of ranked candidates kept per column.
const DefaultKeep = 10

// Candidate is one scored CDE proposal for a column.
type Candidate struct {
	Code  string
	Score float64
}

// ColumnMatches holds the ranked candidates for one source column.
// Transient: only the accepted top choice ends up in a mapping entry.
type ColumnMatches struct {
	Column     string
	Candidates []Candidate
}

// Best returns the top candidate. A zero score is still a valid
// proposal; accepting or rejecting it is the caller's call.
func (m *ColumnMatches) Best() (Candidate, bool) {
	if len(m.Candidates) == 0 {
		return Candidate{}, false
	}
	return m.Candidates[0], true
}

// Column ranks every CDE of the schema against one column name.
// Candidates are ordered by descending score; ties keep schema order,
// so results are invariant under re-runs and identical for parallel
// and sequential execution.
func Column(name string, sch *schema.Schema, sc similarity.Scorer, keep int) ColumnMatches {
	if keep <= 0 {
		keep = DefaultKeep
	}

	cdes := sch.CDEs()
	candidates := make([]Candidate, len(cdes))
	for i := range cdes {
		candidates[i] = Candidate{
			Code:  cdes[i].Code,
			Score: scoreCDE(name, &cdes[i], sc),
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > keep {
		candidates = candidates[:keep]
	}
	return ColumnMatches{Column: name, Candidates: candidates}
}

// Columns ranks every schema CDE against every column of the dataset.
func Columns(ds *dataset.Table, sch *schema.Schema, sc similarity.Scorer, keep int) []ColumnMatches {
	cols := ds.Columns()
	out := make([]ColumnMatches, len(cols))
	for i := range cols {
		out[i] = Column(cols[i].Name, sch, sc, keep)
	}
	return out
}

// scoreCDE scores a column name against a CDE, taking the better of
// the code and label comparisons. Codes and labels are independent
// naming spaces; scoring them separately avoids spurious hits on
// numeric-looking codes.
func scoreCDE(name string, cde *schema.CDE, sc similarity.Scorer) float64 {
	score := sc.Score(name, cde.Code)
	if cde.Label != "" {
		if s := sc.Score(name, cde.Label); s > score {
			score = s
		}
	}
	return score
}

// Values proposes, independently for every distinct source value, the
// best matching allowed value code of a categorical CDE. Values with a
// zero best score get the empty no-mapping marker instead of an
// arbitrary guess.
func Values(distinct []string, cde *schema.CDE, sc similarity.Scorer) map[string]string {
	out := make(map[string]string, len(distinct))
	for _, v := range distinct {
		best := ""
		bestScore := 0.0
		for _, allowed := range cde.Values {
			s := sc.Score(v, allowed.Code)
			if allowed.Label != "" {
				if ls := sc.Score(v, allowed.Label); ls > s {
					s = ls
				}
			}
			if s > bestScore {
				bestScore = s
				best = allowed.Code
			}
		}
		out[v] = best
	}
	return out
}
