// Package mapper orchestrates the application of a whole mapping model
// to a source dataset, producing the output table and a run summary.
package mapper

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/HBPMedical/mip-dmp/internal/dataset"
	"github.com/HBPMedical/mip-dmp/internal/mapping"
	"github.com/HBPMedical/mip-dmp/internal/schema"
	"github.com/HBPMedical/mip-dmp/internal/transform"
)

// Options tunes a mapping run.
type Options struct {
	// Workers is the number of concurrent column transformations.
	// Values below 2 run sequentially. Results are identical either
	// way; columns share no state.
	Workers int
}

// ColumnStatus classifies the outcome of one mapping entry.
type ColumnStatus string

const (
	StatusOK      ColumnStatus = "ok"
	StatusPartial ColumnStatus = "partial"
	StatusSkipped ColumnStatus = "skipped"
)

// ColumnReport is the per-entry outcome in run order.
type ColumnReport struct {
	Status ColumnStatus     `json:"status"`
	Report transform.Report `json:"report"`
}

// Summary aggregates the outcome of a run.
type Summary struct {
	RunID        string         `json:"run_id"`
	Succeeded    int            `json:"succeeded"`
	Partial      int            `json:"partial"`
	Skipped      int            `json:"skipped"`
	CellFailures int            `json:"cell_failures"`
	Columns      []ColumnReport `json:"columns"`
}

// Clean reports whether every transformed cell succeeded.
func (s *Summary) Clean() bool {
	return s.CellFailures == 0
}

// ValidationFailure is returned by Run when the model does not pass
// validation; it carries the complete problem list.
type ValidationFailure struct {
	Problems []error
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("mapping has %d validation problem(s); apply refused", len(e.Problems))
}

// Run validates the model and transforms every mapped column,
// assembling the output table in mapping order. The output is complete
// even when cells fail; callers decide what to do with a non-clean
// summary. Only validation problems or missing source columns refuse
// the run.
func Run(ds *dataset.Table, m *mapping.Model, sch *schema.Schema, opts Options) (*dataset.Table, *Summary, error) {
	if problems := m.Validate(sch); len(problems) > 0 {
		return nil, nil, &ValidationFailure{Problems: problems}
	}

	entries := m.Entries()
	summary := &Summary{
		RunID:   newRunID(),
		Columns: make([]ColumnReport, len(entries)),
	}

	type task struct {
		idx int
		col *dataset.Column
		cde *schema.CDE
	}
	var tasks []task

	for i := range entries {
		e := &entries[i]
		if e.Skipped() {
			summary.Columns[i] = ColumnReport{
				Status: StatusSkipped,
				Report: transform.Report{SourceColumn: e.SourceColumn},
			}
			continue
		}
		col, err := ds.Column(e.SourceColumn)
		if err != nil {
			return nil, nil, fmt.Errorf("mapping entry %d: %w", i+1, err)
		}
		cde, err := sch.Lookup(e.TargetCDE)
		if err != nil {
			// unreachable after Validate; belt and braces
			return nil, nil, err
		}
		tasks = append(tasks, task{idx: i, col: col, cde: cde})
	}

	outputs := make([]dataset.Column, len(entries))
	run := func(t task) {
		out, rep := transform.Apply(t.col, t.cde, entries[t.idx])
		status := StatusOK
		if !rep.Clean() {
			status = StatusPartial
		}
		outputs[t.idx] = out
		summary.Columns[t.idx] = ColumnReport{Status: status, Report: rep}
	}

	if opts.Workers > 1 && len(tasks) > 1 {
		var wg sync.WaitGroup
		ch := make(chan task)
		for w := 0; w < opts.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for t := range ch {
					run(t)
				}
			}()
		}
		for _, t := range tasks {
			ch <- t
		}
		close(ch)
		wg.Wait()
	} else {
		for _, t := range tasks {
			run(t)
		}
	}

	// assemble in mapping order, deterministically
	out := dataset.NewTable(nil)
	for i := range entries {
		cr := &summary.Columns[i]
		switch cr.Status {
		case StatusSkipped:
			summary.Skipped++
		case StatusOK:
			summary.Succeeded++
			out.Append(outputs[i])
		case StatusPartial:
			summary.Partial++
			summary.CellFailures += cr.Report.Failed()
			out.Append(outputs[i])
		}
	}

	return out, summary, nil
}

// newRunID returns a ULID seeded from the current time.
func newRunID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
