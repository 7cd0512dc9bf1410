package tui

import (
	"fmt"

	"github.com/HBPMedical/mip-dmp/internal/dataset"
	"github.com/HBPMedical/mip-dmp/internal/mapper"
	"github.com/HBPMedical/mip-dmp/internal/mapping"
	"github.com/HBPMedical/mip-dmp/internal/match"
	"github.com/HBPMedical/mip-dmp/internal/schema"
	"github.com/HBPMedical/mip-dmp/internal/similarity"
)

// Session holds the state of one interactive mapping editing session.
// All edits are pure state transitions over the mapping model; the TUI
// layer only dispatches them and renders the result.
type Session struct {
	Dataset *dataset.Table
	Schema  *schema.Schema
	Model   *mapping.Model
	Matches []match.ColumnMatches
	Scorer  similarity.Scorer

	MappingPath string
	OutputPath  string

	// candidateIdx tracks, per source column, which ranked candidate
	// is currently selected by cycling.
	candidateIdx map[string]int
}

// NewSession auto-initializes a session from dataset and schema.
// When prior is non-nil its entries take precedence over the
// auto-initialized ones.
func NewSession(ds *dataset.Table, sch *schema.Schema, sc similarity.Scorer, prior *mapping.Model, keep int) (*Session, error) {
	model, matches, err := match.InitialModel(ds, sch, sc, keep)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		for _, e := range prior.Entries() {
			if ds.Has(e.SourceColumn) {
				if err := model.Set(e); err != nil {
					return nil, err
				}
			}
		}
	}
	return &Session{
		Dataset:      ds,
		Schema:       sch,
		Model:        model,
		Matches:      matches,
		Scorer:       sc,
		candidateIdx: make(map[string]int),
	}, nil
}

// Retarget points the entry for a source column at a new CDE,
// rebuilding its transform proposal.
func (s *Session) Retarget(source, cdeCode string) error {
	col, err := s.Dataset.Column(source)
	if err != nil {
		return err
	}
	cde, err := s.Schema.Lookup(cdeCode)
	if err != nil {
		return err
	}
	return s.Model.Set(match.EntryFor(col, cde, s.Scorer))
}

// CycleCandidate retargets the entry at the next ranked candidate for
// its column, wrapping around.
func (s *Session) CycleCandidate(source string) error {
	for i := range s.Matches {
		if s.Matches[i].Column != source {
			continue
		}
		n := len(s.Matches[i].Candidates)
		if n == 0 {
			return fmt.Errorf("no candidates for column %q", source)
		}
		next := (s.candidateIdx[source] + 1) % n
		s.candidateIdx[source] = next
		return s.Retarget(source, s.Matches[i].Candidates[next].Code)
	}
	return fmt.Errorf("no match results for column %q", source)
}

// ToggleUnmapped flips an entry between unmapped and its auto proposal.
func (s *Session) ToggleUnmapped(source string) error {
	e, ok := s.Model.Get(source)
	if !ok {
		return fmt.Errorf("no entry for column %q", source)
	}
	if e.Transform != mapping.Unmapped {
		return s.Model.Set(mapping.Entry{SourceColumn: source, Transform: mapping.Unmapped})
	}
	for i := range s.Matches {
		if s.Matches[i].Column != source {
			continue
		}
		if best, ok := s.Matches[i].Best(); ok {
			return s.Retarget(source, best.Code)
		}
	}
	return nil
}

// Validate returns the complete problem list for the current model.
func (s *Session) Validate() []error {
	return s.Model.Validate(s.Schema)
}

// Save writes the mapping model to its JSON file.
func (s *Session) Save() error {
	if s.MappingPath == "" {
		return fmt.Errorf("no mapping file path set")
	}
	return s.Model.SaveFile(s.MappingPath)
}

// Apply validates, runs the dataset mapper and writes the output.
func (s *Session) Apply(workers int) (*mapper.Summary, error) {
	out, sum, err := mapper.Run(s.Dataset, s.Model, s.Schema, mapper.Options{Workers: workers})
	if err != nil {
		return nil, err
	}
	if s.OutputPath != "" {
		if err := out.WriteFile(s.OutputPath); err != nil {
			return nil, err
		}
	}
	return sum, nil
}
