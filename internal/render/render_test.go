package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HBPMedical/mip-dmp/internal/mapper"
	"github.com/HBPMedical/mip-dmp/internal/match"
	"github.com/HBPMedical/mip-dmp/internal/transform"
)

func testReport(buf *bytes.Buffer) *Report {
	return &Report{Writer: NewWriter(buf)}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer string", 10, "a longe..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"abcd", 2, "ab"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.max), "Truncate(%q, %d)", tt.in, tt.max)
	}
}

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, "✓", StatusIcon("ok"))
	assert.Equal(t, "✓", StatusIcon("success"))
	assert.Equal(t, "!", StatusIcon("partial"))
	assert.Equal(t, "✗", StatusIcon("error"))
	assert.Equal(t, "•", StatusIcon("skipped"))
	assert.Equal(t, "•", StatusIcon("anything else"))
}

func TestMatchesEmpty(t *testing.T) {
	var buf bytes.Buffer
	testReport(&buf).Matches(nil, 10)
	assert.Contains(t, buf.String(), "No columns to match")
}

func TestMatchesNoCandidates(t *testing.T) {
	var buf bytes.Buffer
	testReport(&buf).Matches([]match.ColumnMatches{{Column: "gender"}}, 10)

	out := buf.String()
	assert.Contains(t, out, "gender")
	assert.Contains(t, out, "-")
}

func TestMatchesTable(t *testing.T) {
	var buf bytes.Buffer
	testReport(&buf).Matches([]match.ColumnMatches{{
		Column: "gender",
		Candidates: []match.Candidate{
			{Code: "sex", Score: 1.0},
			{Code: "subject_id", Score: 0.25},
		},
	}}, 10)

	out := buf.String()
	assert.Contains(t, out, "gender")
	assert.Contains(t, out, "sex")
	assert.Contains(t, out, "1.000")
	assert.Contains(t, out, "subject_id", "runner-up listed as alternative")
}

func TestProblems(t *testing.T) {
	var buf bytes.Buffer
	testReport(&buf).Problems(nil)
	assert.Contains(t, buf.String(), "valid")

	buf.Reset()
	testReport(&buf).Problems([]error{assert.AnError})
	assert.Contains(t, buf.String(), "1 problem(s)")
	assert.Contains(t, buf.String(), assert.AnError.Error())
}

func TestSummaryCounts(t *testing.T) {
	var buf bytes.Buffer
	sum := &mapper.Summary{
		RunID:        "01TESTRUN",
		Succeeded:    2,
		Partial:      1,
		CellFailures: 3,
		Columns: []mapper.ColumnReport{
			{Status: mapper.StatusOK, Report: transform.Report{SourceColumn: "subject", TargetCDE: "subject_id", Rows: 4}},
			{Status: mapper.StatusPartial, Report: transform.Report{
				SourceColumn: "gender", TargetCDE: "sex", Rows: 4,
				Failures: []transform.CellError{{Row: 1, Value: "N/A", Reason: "no mapping"}},
			}},
		},
	}
	testReport(&buf).Summary(sum)

	out := buf.String()
	assert.Contains(t, out, "01TESTRUN")
	assert.Contains(t, out, "gender")
	assert.Contains(t, out, "2 mapped, 1 partial, 0 skipped, 3 failed cells")
}
