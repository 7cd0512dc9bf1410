// Package transform applies one mapping entry to one source column,
// producing the schema-conformant output column.
//
// A bad cell never aborts a column: the cell is replaced by the
// missing-value sentinel and recorded in the column report.
package transform

import (
	"fmt"

	"github.com/HBPMedical/mip-dmp/internal/dataset"
	"github.com/HBPMedical/mip-dmp/internal/mapping"
	"github.com/HBPMedical/mip-dmp/internal/schema"
)

// Missing is the output sentinel for cells that cannot be mapped or
// coerced. The empty string prints as an empty CSV cell, matching the
// NaN rendering of the original tool.
const Missing = ""

// CellError records one cell that could not be transformed.
type CellError struct {
	Row    int    `json:"row"` // 0-based data row
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (e CellError) Error() string {
	return fmt.Sprintf("row %d (%q): %s", e.Row, e.Value, e.Reason)
}

// Report summarizes the transformation of one column.
type Report struct {
	SourceColumn string      `json:"source_column"`
	TargetCDE    string      `json:"target_cde"`
	Rows         int         `json:"rows"`
	Failures     []CellError `json:"failures,omitempty"`
}

// Failed returns the number of failed cells.
func (r *Report) Failed() int {
	return len(r.Failures)
}

// Clean reports whether every cell transformed.
func (r *Report) Clean() bool {
	return len(r.Failures) == 0
}

// Apply transforms a source column according to the entry and the
// target CDE. The returned column is named after the CDE code. Entries
// that drop the column (unmapped / no target) must be filtered by the
// caller before Apply.
func Apply(col *dataset.Column, cde *schema.CDE, e mapping.Entry) (dataset.Column, Report) {
	out := dataset.Column{
		Name:   cde.Code,
		Values: make([]string, len(col.Values)),
	}
	rep := Report{
		SourceColumn: e.SourceColumn,
		TargetCDE:    cde.Code,
		Rows:         len(col.Values),
	}

	for i, v := range col.Values {
		got, err := applyCell(v, cde, e)
		if err != nil {
			rep.Failures = append(rep.Failures, CellError{Row: i, Value: v, Reason: err.Error()})
			got = Missing
		}
		out.Values[i] = got
	}

	out.Kind = dataset.InferKind(out.Values)
	return out, rep
}

// applyCell transforms a single cell. Blank input is missing data, not
// a failure: it passes through as the sentinel.
func applyCell(v string, cde *schema.CDE, e mapping.Entry) (string, error) {
	if v == Missing {
		return Missing, nil
	}

	switch e.Transform {
	case mapping.AsIs:
		return coerce(v, cde)

	case mapping.MapValues:
		target, ok := e.Params.Values[v]
		if !ok || target == Missing {
			return Missing, fmt.Errorf("no mapping to CDE %q", cde.Code)
		}
		return target, nil

	case mapping.Scale:
		scaled, err := affine(v, e.Params.EffectiveScale(), e.Params.Offset)
		if err != nil {
			return Missing, err
		}
		return coerce(scaled, cde)
	}

	return Missing, fmt.Errorf("unknown transform %q", e.Transform)
}
