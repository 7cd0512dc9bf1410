package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `subject,gender,age,score
s1,M,34,1.5
s2,F,41,2.25
s3,M,29,
s4,F,35,0.75
`

func TestLoad(t *testing.T) {
	tbl, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"subject", "gender", "age", "score"}, tbl.Names())
	assert.Equal(t, 4, tbl.Rows())

	gender, err := tbl.Column("gender")
	require.NoError(t, err)
	assert.Equal(t, KindString, gender.Kind)
	assert.Equal(t, []string{"M", "F"}, gender.Distinct())

	age, err := tbl.Column("age")
	require.NoError(t, err)
	assert.Equal(t, KindInt, age.Kind)

	score, err := tbl.Column("score")
	require.NoError(t, err)
	assert.Equal(t, KindReal, score.Kind)
	assert.Equal(t, []string{"1.5", "2.25", "0.75"}, score.Distinct())
}

func TestLoadRaggedRows(t *testing.T) {
	tbl, err := Load(strings.NewReader("a,b,c\n1,2\n3,4,5\n"))
	require.NoError(t, err)

	c, err := tbl.Column("c")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "5"}, c.Values)
}

func TestColumnMissing(t *testing.T) {
	tbl, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	_, err = tbl.Column("nope")
	assert.Error(t, err)
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		values []string
		want   Kind
	}{
		{[]string{"1", "2", "3"}, KindInt},
		{[]string{"1", "2.5"}, KindReal},
		{[]string{"1", "x"}, KindString},
		{[]string{"", ""}, KindString},
		{[]string{"-4", "", "7"}, KindInt},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferKind(tt.values), "%v", tt.values)
	}
}

func TestRoundTrip(t *testing.T) {
	tbl, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.Write(&buf))

	again, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, tbl.Names(), again.Names())
	for _, name := range tbl.Names() {
		a, _ := tbl.Column(name)
		b, _ := again.Column(name)
		assert.Equal(t, a.Values, b.Values, name)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")

	tbl, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, tbl.WriteFile(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "subject,gender,age,score\n"))

	// no temp leftovers
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
