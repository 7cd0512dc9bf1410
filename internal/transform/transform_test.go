package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HBPMedical/mip-dmp/internal/dataset"
	"github.com/HBPMedical/mip-dmp/internal/mapping"
	"github.com/HBPMedical/mip-dmp/internal/schema"
)

var (
	sexCDE = schema.CDE{
		Code: "sex", Type: schema.TypeBinominal,
		Values: []schema.ValueLabel{{Code: "0", Label: "male"}, {Code: "1", Label: "female"}},
	}
	ageCDE = schema.CDE{Code: "age", Type: schema.TypeInteger}
	bmiCDE = schema.CDE{Code: "bmi", Type: schema.TypeReal}
)

func column(name string, values ...string) *dataset.Column {
	return &dataset.Column{Name: name, Values: values, Kind: dataset.InferKind(values)}
}

func TestMapValues(t *testing.T) {
	e := mapping.Entry{
		SourceColumn: "gender", TargetCDE: "sex", Transform: mapping.MapValues,
		Params: mapping.Params{Values: map[string]string{"M": "0", "F": "1"}},
	}
	out, rep := Apply(column("gender", "M", "F", "M"), &sexCDE, e)

	assert.Equal(t, "sex", out.Name)
	assert.Equal(t, []string{"0", "1", "0"}, out.Values)
	assert.True(t, rep.Clean())
}

func TestMapValuesUnmappedValue(t *testing.T) {
	e := mapping.Entry{
		SourceColumn: "gender", TargetCDE: "sex", Transform: mapping.MapValues,
		Params: mapping.Params{Values: map[string]string{"M": "0", "F": "1"}},
	}
	out, rep := Apply(column("gender", "M", "N/A", "F"), &sexCDE, e)

	assert.Equal(t, []string{"0", Missing, "1"}, out.Values)
	require.Equal(t, 1, rep.Failed())
	assert.Equal(t, 1, rep.Failures[0].Row)
	assert.Equal(t, "N/A", rep.Failures[0].Value)
}

func TestMapValuesBlankIsNotFailure(t *testing.T) {
	e := mapping.Entry{
		SourceColumn: "gender", TargetCDE: "sex", Transform: mapping.MapValues,
		Params: mapping.Params{Values: map[string]string{"M": "0"}},
	}
	out, rep := Apply(column("gender", "", "M"), &sexCDE, e)

	assert.Equal(t, []string{Missing, "0"}, out.Values)
	assert.True(t, rep.Clean())
}

func TestAsIsInteger(t *testing.T) {
	e := mapping.Entry{SourceColumn: "age", TargetCDE: "age", Transform: mapping.AsIs}
	out, rep := Apply(column("age", "34", "41.0", "unknown", ""), &ageCDE, e)

	assert.Equal(t, []string{"34", "41", Missing, Missing}, out.Values)
	require.Equal(t, 1, rep.Failed())
	assert.Equal(t, "unknown", rep.Failures[0].Value)
	assert.True(t, errors.Is(&CoerceError{Value: "unknown", Type: schema.TypeInteger}, ErrCoerce))
}

func TestAsIsCategoricalMembership(t *testing.T) {
	e := mapping.Entry{SourceColumn: "sex", TargetCDE: "sex", Transform: mapping.AsIs}
	out, rep := Apply(column("sex", "0", "1", "2"), &sexCDE, e)

	assert.Equal(t, []string{"0", "1", Missing}, out.Values)
	assert.Equal(t, 1, rep.Failed())
}

func TestAsIsIdempotent(t *testing.T) {
	e := mapping.Entry{SourceColumn: "bmi", TargetCDE: "bmi", Transform: mapping.AsIs}

	once, rep1 := Apply(column("bmi", "21.5", "30", "bad", ""), &bmiCDE, e)
	require.Equal(t, 1, rep1.Failed())

	twice, rep2 := Apply(&once, &bmiCDE, e)
	assert.Equal(t, once.Values, twice.Values)
	assert.True(t, rep2.Clean(), "already-coerced column must re-coerce cleanly")
}

func TestScale(t *testing.T) {
	e := mapping.Entry{
		SourceColumn: "age_months", TargetCDE: "age", Transform: mapping.Scale,
		Params: mapping.Params{Scale: 1.0 / 12.0},
	}
	out, rep := Apply(column("age_months", "24", "365", "n/a"), &ageCDE, e)

	assert.Equal(t, []string{"2", "30", Missing}, out.Values)
	assert.Equal(t, 1, rep.Failed())
}

func TestScaleDefaultsToIdentity(t *testing.T) {
	e := mapping.Entry{SourceColumn: "bmi", TargetCDE: "bmi", Transform: mapping.Scale}
	out, rep := Apply(column("bmi", "21.5"), &bmiCDE, e)

	assert.Equal(t, []string{"21.5"}, out.Values)
	assert.True(t, rep.Clean())
}

func TestScaleWithOffset(t *testing.T) {
	e := mapping.Entry{
		SourceColumn: "raw", TargetCDE: "bmi", Transform: mapping.Scale,
		Params: mapping.Params{Scale: 2, Offset: 1},
	}
	out, rep := Apply(column("raw", "3.5", "-0.5"), &bmiCDE, e)

	require.True(t, rep.Clean())
	assert.Equal(t, []string{"8", "0"}, out.Values)
}

func TestCategoricalOutputMembership(t *testing.T) {
	// every non-sentinel output value must be in the CDE value set
	e := mapping.Entry{
		SourceColumn: "gender", TargetCDE: "sex", Transform: mapping.MapValues,
		Params: mapping.Params{Values: map[string]string{"M": "0", "F": "1", "O": ""}},
	}
	out, _ := Apply(column("gender", "M", "F", "O", "X", ""), &sexCDE, e)

	for _, v := range out.Values {
		if v == Missing {
			continue
		}
		assert.True(t, sexCDE.HasValue(v), "emitted %q outside value set", v)
	}
}
