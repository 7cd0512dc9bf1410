package render

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/HBPMedical/mip-dmp/internal/mapper"
	"github.com/HBPMedical/mip-dmp/internal/match"
)

// Report renders mapping-specific output to the wrapped writer.
type Report struct {
	*Writer
}

// NewReport creates a Report renderer writing to stdout.
func NewReport() *Report {
	return &Report{Writer: Stdout()}
}

// Matches renders the ranked candidate table for every column.
func (r *Report) Matches(matches []match.ColumnMatches, keep int) {
	if len(matches) == 0 {
		r.Empty("No columns to match")
		return
	}

	table := tablewriter.NewWriter(r.Out())
	table.Header("COLUMN", "BEST CDE", "SCORE", "ALTERNATIVES")

	for _, m := range matches {
		best, ok := m.Best()
		if !ok {
			table.Append([]string{m.Column, "-", "-", ""})
			continue
		}
		alts := ""
		for i, c := range m.Candidates[1:] {
			if i >= keep-1 {
				break
			}
			if alts != "" {
				alts += ", "
			}
			alts += c.Code
		}
		table.Append([]string{
			m.Column,
			best.Code,
			strconv.FormatFloat(best.Score, 'f', 3, 64),
			Truncate(alts, 60),
		})
	}
	table.Render()
}

// Summary renders the outcome of an apply run.
func (r *Report) Summary(sum *mapper.Summary) {
	r.Header("MAPPING RUN %s", sum.RunID)

	table := tablewriter.NewWriter(r.Out())
	table.Header("", "COLUMN", "TARGET CDE", "ROWS", "FAILED")

	for _, cr := range sum.Columns {
		target := cr.Report.TargetCDE
		if cr.Status == mapper.StatusSkipped {
			target = "-"
		}
		table.Append([]string{
			StatusIcon(string(cr.Status)),
			cr.Report.SourceColumn,
			target,
			strconv.Itoa(cr.Report.Rows),
			strconv.Itoa(cr.Report.Failed()),
		})
	}
	table.Render()

	r.Line()
	line := fmt.Sprintf("%d mapped, %d partial, %d skipped, %d failed cells",
		sum.Succeeded, sum.Partial, sum.Skipped, sum.CellFailures)
	if sum.Clean() {
		r.Println("%s %s", color.GreenString("✓"), line)
	} else {
		r.Println("%s %s", color.YellowString("!"), line)
	}
}

// CellFailures renders the per-cell failure detail of a run.
func (r *Report) CellFailures(sum *mapper.Summary, limit int) {
	if sum.Clean() {
		return
	}
	r.Section("cell failures")
	shown := 0
	for _, cr := range sum.Columns {
		for _, f := range cr.Report.Failures {
			if shown >= limit {
				r.Item("... and %d more", sum.CellFailures-shown)
				return
			}
			r.Item("%s row %d: %s", cr.Report.SourceColumn, f.Row+1, f.Reason)
			shown++
		}
	}
}

// Problems renders a validation problem list.
func (r *Report) Problems(problems []error) {
	if len(problems) == 0 {
		r.Println("%s mapping is valid", color.GreenString("✓"))
		return
	}
	r.Println("%s %d problem(s):", color.RedString("✗"), len(problems))
	for _, p := range problems {
		r.Item("%v", p)
	}
}
