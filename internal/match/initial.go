package match

import (
	"github.com/HBPMedical/mip-dmp/internal/dataset"
	"github.com/HBPMedical/mip-dmp/internal/mapping"
	"github.com/HBPMedical/mip-dmp/internal/schema"
	"github.com/HBPMedical/mip-dmp/internal/similarity"
)

// InitialModel auto-initializes a mapping model: one entry per dataset
// column, targeting the best-matching CDE with a type-appropriate
// transform. The ranked candidates are returned alongside so an
// interactive session can offer alternatives.
func InitialModel(ds *dataset.Table, sch *schema.Schema, sc similarity.Scorer, keep int) (*mapping.Model, []ColumnMatches, error) {
	matches := Columns(ds, sch, sc, keep)

	model := mapping.NewModel()
	for i := range ds.Columns() {
		col := &ds.Columns()[i]
		entry, err := initialEntry(col, sch, sc, &matches[i])
		if err != nil {
			return nil, nil, err
		}
		if err := model.Add(entry); err != nil {
			return nil, nil, err
		}
	}
	return model, matches, nil
}

// initialEntry builds the starting entry for one column.
func initialEntry(col *dataset.Column, sch *schema.Schema, sc similarity.Scorer, m *ColumnMatches) (mapping.Entry, error) {
	best, ok := m.Best()
	if !ok {
		return mapping.Entry{SourceColumn: col.Name, Transform: mapping.Unmapped}, nil
	}

	cde, err := sch.Lookup(best.Code)
	if err != nil {
		return mapping.Entry{}, err
	}
	return EntryFor(col, cde, sc), nil
}

// EntryFor builds the entry mapping a column onto a chosen CDE, with a
// type-appropriate transform: identity scale for numeric CDEs (ready
// for the user to adjust units), a proposed value map for categorical
// ones, passthrough otherwise.
func EntryFor(col *dataset.Column, cde *schema.CDE, sc similarity.Scorer) mapping.Entry {
	e := mapping.Entry{SourceColumn: col.Name, TargetCDE: cde.Code}
	switch {
	case cde.Type.Numeric():
		e.Transform = mapping.Scale
		e.Params = mapping.Params{Scale: 1}
	case cde.Type.Categorical():
		e.Transform = mapping.MapValues
		e.Params = mapping.Params{Values: Values(col.Distinct(), cde, sc)}
	default:
		e.Transform = mapping.AsIs
	}
	return e
}
