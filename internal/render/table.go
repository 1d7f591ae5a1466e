package render

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/samarth-qa/samarth/internal/models"
)

// DefaultLocale groups digits the Indian way: 1,50,000
const DefaultLocale = "en-IN"

// Fixed user-facing texts
const (
	NoDataText      = "No data found for your query."
	MissingCellText = "N/A"
)

// NumberFormatter formats table numbers for a locale with at most two
// fraction digits.
type NumberFormatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewNumberFormatter returns a formatter for locale. An unparseable locale
// falls back to DefaultLocale.
func NewNumberFormatter(locale string) *NumberFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return &NumberFormatter{tag: tag, printer: message.NewPrinter(tag)}
}

// Locale returns the BCP 47 tag in use
func (f *NumberFormatter) Locale() string {
	return f.tag.String()
}

// Format renders v with locale digit grouping. Halves round away from
// zero (2.125 -> 2.13); number.Decimal alone would round them to even.
func (f *NumberFormatter) Format(v float64) string {
	if math.Abs(v) < 1e15 {
		v = math.Round(v*100) / 100
	}
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// FormatCell renders one table cell. Numbers, zero included, are formatted
// for the locale. Null, empty strings and false become N/A.
func FormatCell(v models.Value, nf *NumberFormatter) string {
	if v.IsNumber() {
		return nf.Format(v.Num)
	}
	if v.Falsy() {
		return MissingCellText
	}
	return v.String()
}

// HumanizeHeader turns a column key into a header: underscores become
// spaces and the first letter of every word is upper-cased. Other letters
// are left alone.
func HumanizeHeader(key string) string {
	key = strings.ReplaceAll(key, "_", " ")

	var b strings.Builder
	b.Grow(len(key))
	prevWord := false
	for _, r := range key {
		word := isWordRune(r)
		if word && !prevWord && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		b.WriteRune(r)
		prevWord = word
	}
	return b.String()
}

// isWordRune matches the ASCII word characters [A-Za-z0-9_]
func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// TableData is a table with its cells already formatted for display
type TableData struct {
	Keys    []string
	Headers []string
	Rows    [][]string
	// Numeric marks cells that hold numbers, for alignment
	Numeric [][]bool
}

// Empty reports whether there is nothing to show
func (t TableData) Empty() bool {
	return len(t.Rows) == 0
}

// BuildTable formats rows for display. Columns come from the first row;
// later rows missing a column show N/A and their extra keys are dropped.
func BuildTable(rows models.Table, nf *NumberFormatter) TableData {
	keys := rows.Columns()
	data := TableData{
		Keys:    keys,
		Headers: make([]string, len(keys)),
		Rows:    make([][]string, 0, len(rows)),
		Numeric: make([][]bool, 0, len(rows)),
	}
	for i, k := range keys {
		data.Headers[i] = HumanizeHeader(k)
	}

	for _, row := range rows {
		cells := make([]string, len(keys))
		numeric := make([]bool, len(keys))
		for i, k := range keys {
			v := row.Get(k)
			cells[i] = FormatCell(v, nf)
			numeric[i] = v.IsNumber()
		}
		data.Rows = append(data.Rows, cells)
		data.Numeric = append(data.Numeric, numeric)
	}
	return data
}
