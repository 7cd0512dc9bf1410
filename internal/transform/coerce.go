package transform

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/HBPMedical/mip-dmp/internal/schema"
)

// ErrCoerce marks a value that cannot be coerced to the target type.
var ErrCoerce = errors.New("type coercion failed")

// CoerceError wraps ErrCoerce with the value and target type.
type CoerceError struct {
	Value string
	Type  schema.ValueType
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("cannot coerce %q to %s", e.Value, e.Type)
}

func (e *CoerceError) Unwrap() error {
	return ErrCoerce
}

// coerce parses and re-renders a non-blank value in the canonical form
// of the CDE's value type. Coercion is idempotent: coercing its own
// output is the identity.
func coerce(v string, cde *schema.CDE) (string, error) {
	switch cde.Type {
	case schema.TypeInteger:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return Missing, &CoerceError{Value: v, Type: cde.Type}
		}
		// round to nearest so affine results like 1.9999999 land on 2
		return strconv.FormatInt(int64(math.Round(f)), 10), nil

	case schema.TypeReal:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return Missing, &CoerceError{Value: v, Type: cde.Type}
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil

	case schema.TypeNominal, schema.TypeBinominal:
		if !cde.HasValue(v) {
			return Missing, fmt.Errorf("%q not in the value set of CDE %q", v, cde.Code)
		}
		return v, nil
	}

	// text, date: passthrough
	return v, nil
}

// affine applies value*scale+offset to a numeric string.
func affine(v string, scale, offset float64) (string, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return Missing, &CoerceError{Value: v, Type: schema.TypeReal}
	}
	return strconv.FormatFloat(f*scale+offset, 'g', -1, 64), nil
}
