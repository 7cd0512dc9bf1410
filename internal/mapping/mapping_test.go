package mapping

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HBPMedical/mip-dmp/internal/schema"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sch, err := schema.New([]schema.CDE{
		{Code: "sex", Type: schema.TypeBinominal, Values: []schema.ValueLabel{{Code: "0", Label: "male"}, {Code: "1", Label: "female"}}},
		{Code: "age", Type: schema.TypeInteger},
		{Code: "bmi", Type: schema.TypeReal},
		{Code: "subject_id", Type: schema.TypeText},
	})
	require.NoError(t, err)
	return sch
}

func TestAddAndGet(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Add(Entry{SourceColumn: "gender", TargetCDE: "sex", Transform: MapValues}))
	require.NoError(t, m.Add(Entry{SourceColumn: "years", TargetCDE: "age", Transform: AsIs}))

	e, ok := m.Get("gender")
	require.True(t, ok)
	assert.Equal(t, "sex", e.TargetCDE)

	_, ok = m.Get("nope")
	assert.False(t, ok)
}

func TestAddDuplicateSource(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Add(Entry{SourceColumn: "gender", TargetCDE: "sex", Transform: MapValues}))
	err := m.Add(Entry{SourceColumn: "gender", TargetCDE: "age", Transform: AsIs})
	assert.Error(t, err)
}

func TestAddUnknownDirective(t *testing.T) {
	m := NewModel()
	err := m.Add(Entry{SourceColumn: "gender", TargetCDE: "sex", Transform: "reverse"})
	assert.Error(t, err)
}

func TestSetReplaces(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Add(Entry{SourceColumn: "gender", TargetCDE: "sex", Transform: MapValues}))
	require.NoError(t, m.Set(Entry{SourceColumn: "gender", Transform: Unmapped}))

	e, ok := m.Get("gender")
	require.True(t, ok)
	assert.True(t, e.Skipped())
	assert.Equal(t, 1, m.Len())
}

func TestRemoveKeepsOrder(t *testing.T) {
	m := NewModel()
	for _, s := range []string{"a", "b", "c"} {
		require.NoError(t, m.Add(Entry{SourceColumn: s, Transform: Unmapped}))
	}
	require.True(t, m.Remove("b"))
	assert.False(t, m.Remove("b"))

	var order []string
	for _, e := range m.Entries() {
		order = append(order, e.SourceColumn)
	}
	assert.Equal(t, []string{"a", "c"}, order)

	e, ok := m.Get("c")
	require.True(t, ok)
	assert.Equal(t, "c", e.SourceColumn)
}

func TestRoundTrip(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Add(Entry{
		SourceColumn: "gender",
		TargetCDE:    "sex",
		Transform:    MapValues,
		Params:       Params{Values: map[string]string{"M": "0", "F": "1"}},
	}))
	require.NoError(t, m.Add(Entry{
		SourceColumn: "weight_lb",
		TargetCDE:    "bmi",
		Transform:    Scale,
		Params:       Params{Scale: 0.453592},
	}))
	require.NoError(t, m.Add(Entry{SourceColumn: "comment", Transform: Unmapped}))

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))

	again, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.Entries(), again.Entries())
}

func TestLoadMappingFile(t *testing.T) {
	in := `[
  {"source_column":"gender","target_cde":"sex","transform":"map_values","transform_params":{"values":{"M":"0","F":"1"}}},
  {"source_column":"age","target_cde":"age","transform":"as_is"}
]`
	m, err := Load(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())
	e, _ := m.Get("gender")
	assert.Equal(t, "0", e.Params.Values["M"])
}

func TestLoadRejectsDuplicates(t *testing.T) {
	in := `[
  {"source_column":"gender","target_cde":"sex","transform":"map_values"},
  {"source_column":"gender","target_cde":"age","transform":"as_is"}
]`
	_, err := Load(strings.NewReader(in))
	assert.Error(t, err)
}

func TestValidateClean(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Add(Entry{
		SourceColumn: "gender", TargetCDE: "sex", Transform: MapValues,
		Params: Params{Values: map[string]string{"M": "0", "F": "1", "N/A": ""}},
	}))
	require.NoError(t, m.Add(Entry{SourceColumn: "age", TargetCDE: "age", Transform: AsIs}))
	require.NoError(t, m.Add(Entry{SourceColumn: "notes", Transform: Unmapped}))

	assert.Empty(t, m.Validate(testSchema(t)))
}

func TestValidateUnknownCDE(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Add(Entry{SourceColumn: "gender", TargetCDE: "gesundheit", Transform: AsIs}))

	problems := m.Validate(testSchema(t))
	require.Len(t, problems, 1)
	assert.True(t, schema.IsUnknownCDE(problems[0]))
	assert.Contains(t, problems[0].Error(), "gender")
}

func TestValidateValueOutsideSet(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Add(Entry{
		SourceColumn: "gender", TargetCDE: "sex", Transform: MapValues,
		Params: Params{Values: map[string]string{"M": "0", "F": "2"}},
	}))

	problems := m.Validate(testSchema(t))
	require.Len(t, problems, 1)
	assert.True(t, errors.Is(problems[0], ErrValidation))
	assert.Contains(t, problems[0].Error(), `"2"`)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Add(Entry{SourceColumn: "a", TargetCDE: "missing1", Transform: AsIs}))
	require.NoError(t, m.Add(Entry{SourceColumn: "b", TargetCDE: "subject_id", Transform: Scale}))
	require.NoError(t, m.Add(Entry{
		SourceColumn: "c", TargetCDE: "age", Transform: MapValues,
	}))

	problems := m.Validate(testSchema(t))
	assert.Len(t, problems, 3) // unknown CDE, scale on text, map_values on integer
}

func TestEffectiveScale(t *testing.T) {
	assert.Equal(t, 1.0, Params{}.EffectiveScale())
	assert.Equal(t, 2.5, Params{Scale: 2.5}.EffectiveScale())
}
