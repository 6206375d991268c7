package features

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/goccy/go-json"
)

// Vector is the fixed-width, fixed-order record produced for a single URL.
// Its columns are always the names of the rule set it was built from.
type Vector struct {
	columns []string
	values  []Value
}

// Degenerate returns the vector used for input that is not a valid URL: every
// column of the rule set set to Fallback.
func Degenerate(rules *RuleSet) Vector {
	values := make([]Value, rules.Len())
	for i := range values {
		values[i] = Fallback
	}

	return Vector{columns: rules.Names(), values: values}
}

// Assemble builds the vector for a URL. For invalid input the outcomes are
// ignored. Otherwise each column takes the value of the outcome registered
// under the same position and name; a missing or misaligned outcome yields
// Fallback, so the schema is always the one of the rule set.
func Assemble(rules *RuleSet, valid bool, outcomes []Feature) Vector {
	if !valid {
		return Degenerate(rules)
	}

	vec := Degenerate(rules)

	for idx, name := range vec.columns {
		if idx < len(outcomes) && outcomes[idx].Name == name {
			vec.values[idx] = outcomes[idx].Value
		}
	}

	return vec
}

func (v Vector) Len() int { return len(v.columns) }

func (v Vector) Columns() []string {
	columns := make([]string, len(v.columns))
	copy(columns, v.columns)

	return columns
}

func (v Vector) Values() []Value {
	values := make([]Value, len(v.values))
	copy(values, v.values)

	return values
}

func (v Vector) Get(name string) (Value, bool) {
	for idx, column := range v.columns {
		if column == name {
			return v.values[idx], true
		}
	}

	return 0, false
}

func (v Vector) Features() []Feature {
	features := make([]Feature, len(v.columns))
	for idx, column := range v.columns {
		features[idx] = Feature{Name: column, Value: v.values[idx]}
	}

	return features
}

// WriteCSV writes the vector as a single CSV record, optionally preceded by a
// header row with the column names.
func (v Vector) WriteCSV(w io.Writer, header bool) error {
	writer := csv.NewWriter(w)

	if header {
		if err := writer.Write(v.columns); err != nil {
			return err
		}
	}

	record := make([]string, len(v.values))
	for idx, value := range v.values {
		record[idx] = strconv.Itoa(int(value))
	}

	if err := writer.Write(record); err != nil {
		return err
	}

	writer.Flush()

	return writer.Error()
}

// MarshalJSON renders the vector as a JSON object whose keys keep the column
// order.
func (v Vector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for idx, column := range v.columns {
		if idx > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(column)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(int(v.values[idx])))
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
