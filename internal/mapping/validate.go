package mapping

import (
	"errors"
	"fmt"

	"github.com/HBPMedical/mip-dmp/internal/schema"
)

// ErrValidation marks a mapping entry that violates a model invariant.
var ErrValidation = errors.New("invalid mapping entry")

// ValidationError wraps ErrValidation with the offending entry.
type ValidationError struct {
	Index  int // position in the model, 0-based
	Source string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entry %d (%s): %s", e.Index+1, e.Source, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// EntryCDEError ties an UnknownCDEError to the entry referencing it.
type EntryCDEError struct {
	Index  int
	Source string
	Err    *schema.UnknownCDEError
}

func (e *EntryCDEError) Error() string {
	return fmt.Sprintf("entry %d (%s): %v", e.Index+1, e.Source, e.Err)
}

func (e *EntryCDEError) Unwrap() error {
	return e.Err
}

// Validate checks every entry against the schema and returns the
// complete list of problems, one error per violation. An empty result
// means the model may be applied. Per-cell coercion failures are not
// validation concerns; they surface at transform time.
func (m *Model) Validate(sch *schema.Schema) []error {
	var problems []error

	seen := make(map[string]int, len(m.entries))
	for i, e := range m.entries {
		if first, dup := seen[e.SourceColumn]; dup {
			problems = append(problems, &ValidationError{
				Index:  i,
				Source: e.SourceColumn,
				Reason: fmt.Sprintf("duplicate of entry %d", first+1),
			})
			continue
		}
		seen[e.SourceColumn] = i

		if e.Skipped() {
			continue
		}

		cde, err := sch.Lookup(e.TargetCDE)
		if err != nil {
			var unknown *schema.UnknownCDEError
			if errors.As(err, &unknown) {
				problems = append(problems, &EntryCDEError{Index: i, Source: e.SourceColumn, Err: unknown})
			} else {
				problems = append(problems, err)
			}
			continue
		}

		problems = append(problems, m.validateEntry(i, e, cde)...)
	}

	return problems
}

func (m *Model) validateEntry(i int, e Entry, cde *schema.CDE) []error {
	var problems []error

	fail := func(format string, args ...any) {
		problems = append(problems, &ValidationError{
			Index:  i,
			Source: e.SourceColumn,
			Reason: fmt.Sprintf(format, args...),
		})
	}

	switch e.Transform {
	case MapValues:
		if !cde.Type.Categorical() {
			fail("map_values against non-categorical CDE %q (%s)", cde.Code, cde.Type)
			break
		}
		for src, target := range e.Params.Values {
			if target == "" {
				continue // explicitly unmapped
			}
			if !cde.HasValue(target) {
				fail("value %q maps to %q, not in the value set of CDE %q", src, target, cde.Code)
			}
		}
	case Scale:
		if !cde.Type.Numeric() {
			fail("scale against non-numeric CDE %q (%s)", cde.Code, cde.Type)
		}
	}

	return problems
}
