// Package schema parses and represents the target CDE metadata schema.
package schema

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// ValueType classifies the value domain of a CDE.
type ValueType string

const (
	TypeNominal   ValueType = "nominal"
	TypeBinominal ValueType = "binominal"
	TypeInteger   ValueType = "integer"
	TypeReal      ValueType = "real"
	TypeText      ValueType = "text"
	TypeDate      ValueType = "date"
)

// ParseValueType normalizes a schema type cell to a ValueType.
// The historical spellings "multinominal" and "multinomial" map to nominal,
// "binomial" to binominal.
func ParseValueType(s string) (ValueType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nominal", "multinominal", "multinomial", "categorical":
		return TypeNominal, true
	case "binominal", "binomial", "binary":
		return TypeBinominal, true
	case "integer", "int":
		return TypeInteger, true
	case "real", "float":
		return TypeReal, true
	case "text", "string":
		return TypeText, true
	case "date":
		return TypeDate, true
	}
	return "", false
}

// Categorical reports whether the type carries an allowed value set.
func (t ValueType) Categorical() bool {
	return t == TypeNominal || t == TypeBinominal
}

// Numeric reports whether the type is integer or real.
func (t ValueType) Numeric() bool {
	return t == TypeInteger || t == TypeReal
}

// ValueLabel is one allowed raw value code with its display label.
type ValueLabel struct {
	Code  string
	Label string
}

// CDE is one Common Data Element of the target schema. Immutable after load.
type CDE struct {
	Code   string
	Label  string
	Type   ValueType
	Values []ValueLabel // ordered, non-empty iff Type.Categorical()
}

// HasValue reports whether code is in the allowed value set.
// Comparison is exact and case-sensitive.
func (c *CDE) HasValue(code string) bool {
	for _, v := range c.Values {
		if v.Code == code {
			return true
		}
	}
	return false
}

// ValueCodes returns the allowed value codes in schema order.
func (c *CDE) ValueCodes() []string {
	codes := make([]string, len(c.Values))
	for i, v := range c.Values {
		codes[i] = v.Code
	}
	return codes
}

// Schema is the ordered set of CDEs loaded from a schema file.
type Schema struct {
	cdes  []CDE
	index map[string]int
}

// Len returns the number of CDEs.
func (s *Schema) Len() int {
	return len(s.cdes)
}

// CDEs returns the CDEs in load order.
func (s *Schema) CDEs() []CDE {
	return s.cdes
}

// Lookup returns the CDE for a code, or an UnknownCDEError.
func (s *Schema) Lookup(code string) (*CDE, error) {
	i, ok := s.index[code]
	if !ok {
		return nil, &UnknownCDEError{Code: code}
	}
	return &s.cdes[i], nil
}

// Has reports whether the schema contains a CDE with the given code.
func (s *Schema) Has(code string) bool {
	_, ok := s.index[code]
	return ok
}

// New builds a Schema from an ordered CDE list.
// Fails with a FormatError on duplicate codes or categorical CDEs
// without values.
func New(cdes []CDE) (*Schema, error) {
	s := &Schema{
		cdes:  cdes,
		index: make(map[string]int, len(cdes)),
	}
	for i, c := range cdes {
		if c.Code == "" {
			return nil, &FormatError{Row: i + 1, Reason: "empty code"}
		}
		if _, dup := s.index[c.Code]; dup {
			return nil, &FormatError{Row: i + 1, Code: c.Code, Reason: "duplicate code"}
		}
		if c.Type.Categorical() && len(c.Values) == 0 {
			return nil, &FormatError{Row: i + 1, Code: c.Code, Reason: "categorical CDE without values"}
		}
		s.index[c.Code] = i
	}
	return s, nil
}

// Load parses a CSV schema file: one row per CDE, required columns
// "code" and "type", optional "label", and for categorical rows a
// non-empty "values" column holding {"code","label"} pairs.
func Load(r io.Reader) (*Schema, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("read header: %v", err)}
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	codeIdx, ok := col["code"]
	if !ok {
		return nil, &FormatError{Reason: `missing required column "code"`}
	}
	typeIdx, ok := col["type"]
	if !ok {
		return nil, &FormatError{Reason: `missing required column "type"`}
	}
	labelIdx, hasLabel := col["label"]
	valuesIdx, hasValues := col["values"]

	var cdes []CDE
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &FormatError{Row: row + 1, Reason: fmt.Sprintf("read row: %v", err)}
		}
		row++

		field := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		code := field(codeIdx)
		if code == "" {
			return nil, &FormatError{Row: row, Reason: "empty code"}
		}
		vt, ok := ParseValueType(field(typeIdx))
		if !ok {
			return nil, &FormatError{Row: row, Code: code, Reason: fmt.Sprintf("unknown type %q", field(typeIdx))}
		}

		cde := CDE{Code: code, Type: vt}
		if hasLabel {
			cde.Label = field(labelIdx)
		}
		if vt.Categorical() {
			if !hasValues {
				return nil, &FormatError{Row: row, Code: code, Reason: `categorical CDE but schema has no "values" column`}
			}
			values, err := parseValues(field(valuesIdx))
			if err != nil {
				return nil, &FormatError{Row: row, Code: code, Reason: err.Error()}
			}
			if len(values) == 0 {
				return nil, &FormatError{Row: row, Code: code, Reason: "categorical CDE with empty values"}
			}
			cde.Values = values
		}
		cdes = append(cdes, cde)
	}

	return New(cdes)
}

// LoadFile loads a schema from a CSV file path.
func LoadFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// curly quote variants found in exported schema cells
var quoteNormalizer = strings.NewReplacer("“", `"`, "”", `"`)

// parseValues decodes a values cell of the form
//
//	{"0","male"}, {"1","female"}
//
// into ordered ValueLabel pairs. The label is optional inside a pair.
func parseValues(cell string) ([]ValueLabel, error) {
	cell = quoteNormalizer.Replace(strings.TrimSpace(cell))
	if cell == "" {
		return nil, nil
	}

	var out []ValueLabel
	rest := cell
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.TrimSpace(strings.Trim(rest, ",")) != "" {
				return nil, fmt.Errorf("malformed values cell near %q", rest)
			}
			break
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return nil, fmt.Errorf("unterminated value pair in %q", cell)
		}
		pair := rest[open+1 : open+closing]
		rest = rest[open+closing+1:]

		parts, err := splitQuoted(pair)
		if err != nil {
			return nil, err
		}
		switch len(parts) {
		case 1:
			out = append(out, ValueLabel{Code: parts[0]})
		case 2:
			out = append(out, ValueLabel{Code: parts[0], Label: parts[1]})
		default:
			return nil, fmt.Errorf("value pair %q must have 1 or 2 fields", pair)
		}
	}
	return out, nil
}

// splitQuoted splits `"a","b"` into its quoted fields. Unquoted bare
// tokens are accepted too.
func splitQuoted(s string) ([]string, error) {
	var parts []string
	for _, raw := range strings.Split(s, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, `"`) {
			if !strings.HasSuffix(raw, `"`) || len(raw) < 2 {
				return nil, fmt.Errorf("unterminated quote in %q", s)
			}
			raw = raw[1 : len(raw)-1]
		}
		parts = append(parts, raw)
	}
	return parts, nil
}
