package models

import (
	"strconv"
	"strings"
)

// ValueKind is the JSON type of a table cell
type ValueKind int

const (
	ValueNull ValueKind = iota // null or missing
	ValueString
	ValueNumber
	ValueBool
)

// Value is a scalar table cell
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

// NullValue returns the missing/null cell value
func NullValue() Value { return Value{Kind: ValueNull} }

// StringValue wraps a string cell
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// NumberValue wraps a numeric cell
func NumberValue(n float64) Value { return Value{Kind: ValueNumber, Num: n} }

// BoolValue wraps a boolean cell
func BoolValue(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// IsNumber reports whether the cell holds a number
func (v Value) IsNumber() bool {
	return v.Kind == ValueNumber
}

// Falsy reports whether the cell renders as the N/A placeholder.
// Numbers are never falsy: they are formatted before the check, so 0 shows as "0".
func (v Value) Falsy() bool {
	switch v.Kind {
	case ValueNull:
		return true
	case ValueString:
		return v.Str == ""
	case ValueBool:
		return !v.Bool
	default:
		return false
	}
}

// String returns the unformatted cell text
func (v Value) String() string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Row maps column names to values and remembers the order the columns arrived in
type Row struct {
	columns []string
	values  map[string]Value
}

// NewRow creates an empty row
func NewRow() Row {
	return Row{values: make(map[string]Value)}
}

// Set stores a value, appending the column if it is new
func (r *Row) Set(column string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = v
}

// Get returns the value for column, or NullValue when the row lacks it
func (r Row) Get(column string) Value {
	if v, ok := r.values[column]; ok {
		return v
	}
	return NullValue()
}

// Columns returns the column names in arrival order
func (r Row) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Len returns the number of columns in the row
func (r Row) Len() int {
	return len(r.columns)
}

// Table is an ordered sequence of rows
type Table []Row

// Columns returns the column set used to render the table: the first row's columns
func (t Table) Columns() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0].Columns()
}

// TSV renders the table as tab separated values with raw column names
func (t Table) TSV() string {
	if len(t) == 0 {
		return ""
	}
	cols := t.Columns()

	var sb strings.Builder
	sb.WriteString(strings.Join(cols, "\t"))
	for _, row := range t {
		sb.WriteString("\n")
		for i, col := range cols {
			if i > 0 {
				sb.WriteString("\t")
			}
			sb.WriteString(row.Get(col).String())
		}
	}
	return sb.String()
}
