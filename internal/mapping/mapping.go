// Package mapping holds the editable model connecting source dataset
// columns to target CDEs, persisted as an ordered JSON array.
package mapping

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Directive names the transformation applied to a mapped column.
type Directive string

const (
	// AsIs passes values through with type coercion only.
	AsIs Directive = "as_is"

	// MapValues re-codes values through the entry's value map.
	MapValues Directive = "map_values"

	// Scale applies value*scale+offset, then coerces.
	Scale Directive = "scale"

	// Unmapped drops the column from the output.
	Unmapped Directive = "unmapped"
)

// Valid reports whether d is a known directive.
func (d Directive) Valid() bool {
	switch d {
	case AsIs, MapValues, Scale, Unmapped:
		return true
	}
	return false
}

// Params carries directive-specific configuration.
type Params struct {
	// Scale and Offset configure the affine transform of the scale
	// directive. A zero Scale is read as 1 so that an absent params
	// object keeps values unchanged.
	Scale  float64 `json:"scale,omitempty"`
	Offset float64 `json:"offset,omitempty"`

	// Values maps a source categorical value to a target CDE value
	// code. An absent key, or an explicit empty target, marks the
	// source value as unmapped.
	Values map[string]string `json:"values,omitempty"`
}

// EffectiveScale returns the scale factor, defaulting to 1.
func (p Params) EffectiveScale() float64 {
	if p.Scale == 0 {
		return 1
	}
	return p.Scale
}

// Entry is one mapping rule: source column, target CDE and transform.
// An empty TargetCDE marks a column intentionally left unmapped.
type Entry struct {
	SourceColumn string    `json:"source_column"`
	TargetCDE    string    `json:"target_cde,omitempty"`
	Transform    Directive `json:"transform"`
	Params       Params    `json:"transform_params,omitempty"`
}

// Skipped reports whether the entry produces no output column.
func (e *Entry) Skipped() bool {
	return e.TargetCDE == "" || e.Transform == Unmapped
}

// Model is the ordered sequence of mapping entries. At most one entry
// per source column. Single-writer: one editing session at a time.
type Model struct {
	entries []Entry
	index   map[string]int
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{index: make(map[string]int)}
}

// Len returns the number of entries.
func (m *Model) Len() int {
	return len(m.entries)
}

// Entries returns the entries in order.
func (m *Model) Entries() []Entry {
	return m.entries
}

// Get returns the entry for a source column.
func (m *Model) Get(source string) (Entry, bool) {
	i, ok := m.index[source]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Add appends an entry. Fails if the source column is already mapped
// or the directive is unknown.
func (m *Model) Add(e Entry) error {
	if e.SourceColumn == "" {
		return fmt.Errorf("mapping entry without source column")
	}
	if !e.Transform.Valid() {
		return fmt.Errorf("entry %q: unknown transform %q", e.SourceColumn, e.Transform)
	}
	if _, dup := m.index[e.SourceColumn]; dup {
		return fmt.Errorf("source column %q is already mapped", e.SourceColumn)
	}
	m.entries = append(m.entries, e)
	m.index[e.SourceColumn] = len(m.entries) - 1
	return nil
}

// Set replaces the entry for e.SourceColumn, or appends it.
func (m *Model) Set(e Entry) error {
	if i, ok := m.index[e.SourceColumn]; ok {
		if !e.Transform.Valid() {
			return fmt.Errorf("entry %q: unknown transform %q", e.SourceColumn, e.Transform)
		}
		m.entries[i] = e
		return nil
	}
	return m.Add(e)
}

// Remove deletes the entry for a source column, keeping order.
func (m *Model) Remove(source string) bool {
	i, ok := m.index[source]
	if !ok {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, source)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].SourceColumn] = j
	}
	return true
}

// Load deserializes a mapping model from its JSON form: an ordered
// array of entry objects.
func Load(r io.Reader) (*Model, error) {
	var entries []Entry
	dec := json.NewDecoder(r)
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("parse mapping file: %w", err)
	}
	m := NewModel()
	for _, e := range entries {
		if err := m.Add(e); err != nil {
			return nil, fmt.Errorf("mapping file: %w", err)
		}
	}
	return m, nil
}

// LoadFile loads a mapping model from a JSON file.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Save serializes the model as indented JSON.
func (m *Model) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	entries := m.entries
	if entries == nil {
		entries = []Entry{}
	}
	return enc.Encode(entries)
}

// SaveFile writes the model atomically to a JSON file.
func (m *Model) SaveFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dmp-mapping-*.json")
	if err != nil {
		return fmt.Errorf("create temp mapping: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := m.Save(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write mapping: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
