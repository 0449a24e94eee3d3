package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// MissingTokens are the cell values treated as missing, in addition to
// cells that are simply empty. The list follows the pandas read_csv defaults.
var MissingTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// boolTokens are the spellings read as booleans, as in pandas read_csv.
var boolTokens = map[string]string{
	"True": "true", "TRUE": "true", "true": "true",
	"False": "false", "FALSE": "false", "false": "false",
}

// Table is an uploaded dataset: named columns of equal length, each with an
// inferred type. A Table is built per request and never shared.
type Table struct {
	df    dataframe.DataFrame
	bytes int64
}

// ParseTable decodes comma-delimited text with a header row.
// Rows shorter than the header are padded with missing cells; longer rows
// are rejected. Errors wrap ErrParse (and ErrEmptyFile for zero-byte input).
func ParseTable(r io.Reader) (*Table, error) {
	src := WrapForParsing(r)

	records, err := readRecords(src)
	if src.BytesRead == 0 {
		return nil, fmt.Errorf("%w: %w", ErrEmptyFile, ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrParse)
	}

	records[0] = columnNames(records[0])

	var df dataframe.DataFrame
	if len(records) == 1 {
		df = headerOnly(records[0])
	} else {
		normalizeBools(records)
		df = dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(true),
			dataframe.NaNValues(MissingTokens),
		)
	}
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, df.Err)
	}

	return &Table{df: df, bytes: src.BytesRead}, nil
}

// readRecords reads every record, padding short rows to the header width.
func readRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}

		if len(records) > 0 {
			width := len(records[0])
			if len(rec) > width {
				line, _ := cr.FieldPos(0)
				return nil, fmt.Errorf("record on line %d: expected %d fields, saw %d", line, width, len(rec))
			}
			for len(rec) < width {
				rec = append(rec, "")
			}
		}
		records = append(records, rec)
	}
}

// columnNames names blank headers "Unnamed: <index>" and suffixes repeated
// names with ".1", ".2", ... leaving the first occurrence untouched.
func columnNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		for n := seen[name]; n > 0; n = seen[name] {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n)
		}
		seen[name]++
		names[i] = name
	}
	return names
}

// normalizeBools rewrites the True/TRUE/False/FALSE spellings of a column to
// the lowercase form the type detector accepts. Columns holding anything
// other than booleans and missing tokens are left alone.
func normalizeBools(records [][]string) {
	missing := make(map[string]bool, len(MissingTokens))
	for _, tok := range MissingTokens {
		missing[tok] = true
	}

	for j := range records[0] {
		found := false
		for _, rec := range records[1:] {
			if missing[rec[j]] {
				continue
			}
			if _, ok := boolTokens[rec[j]]; !ok {
				found = false
				break
			}
			found = true
		}
		if !found {
			continue
		}
		for _, rec := range records[1:] {
			if v, ok := boolTokens[rec[j]]; ok {
				rec[j] = v
			}
		}
	}
}

// headerOnly builds a zero-row frame; LoadRecords rejects input without data rows.
func headerOnly(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(cols...)
}

// Columns returns the column names in header order.
func (t *Table) Columns() []string {
	return t.df.Names()
}

// NumRows returns the number of data rows (the header is not counted).
func (t *Table) NumRows() int {
	return t.df.Nrow()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return t.df.Ncol()
}

// Size returns the number of bytes parsed.
func (t *Table) Size() int64 {
	return t.bytes
}

// Kind returns the inferred type of a column.
func (t *Table) Kind(col string) series.Type {
	return t.df.Col(col).Type()
}

// IsNumeric reports whether a column takes part in variance and correlation.
// Int, float and bool columns qualify; so does a column whose every cell is
// missing, which pandas also types as float.
func (t *Table) IsNumeric(col string) bool {
	s := t.df.Col(col)
	switch s.Type() {
	case series.Int, series.Float, series.Bool:
		return true
	}
	if s.Len() == 0 {
		return false
	}
	for _, na := range s.IsNaN() {
		if !na {
			return false
		}
	}
	return true
}

// NumericColumns returns the numeric column names in header order.
func (t *Table) NumericColumns() []string {
	var cols []string
	for _, name := range t.Columns() {
		if t.IsNumeric(name) {
			cols = append(cols, name)
		}
	}
	return cols
}

// Floats returns a column as float64 values with NaN for missing cells.
func (t *Table) Floats(col string) []float64 {
	s := t.df.Col(col)
	out := make([]float64, s.Len())
	for i := range out {
		e := s.Elem(i)
		if e.IsNA() {
			out[i] = math.NaN()
			continue
		}
		out[i] = e.Float()
	}
	return out
}

// Value returns the cell at (row, col) as a JSON-friendly value:
// int, bool, string, Number for floats, or nil when missing. An int column
// with missing cells yields Numbers, matching the float dtype pandas gives it.
func (t *Table) Value(row int, col string) any {
	s := t.df.Col(col)
	e := s.Elem(row)
	if e.IsNA() {
		return nil
	}
	switch e.Type() {
	case series.Int:
		if hasMissing(s) {
			return Number(e.Float())
		}
		v, err := e.Int()
		if err != nil {
			return nil
		}
		return v
	case series.Float:
		return Number(e.Float())
	case series.Bool:
		v, err := e.Bool()
		if err != nil {
			return nil
		}
		return v
	default:
		return e.String()
	}
}

func hasMissing(s series.Series) bool {
	for _, na := range s.IsNaN() {
		if na {
			return true
		}
	}
	return false
}

// ColumnRatio is a per-column percentage.
type ColumnRatio struct {
	Column  string
	Percent float64
}

// MissingPercentages returns the share of missing cells per column (0-100),
// unrounded and in header order. With zero rows every value is NaN.
func (t *Table) MissingPercentages() []ColumnRatio {
	n := t.NumRows()
	out := make([]ColumnRatio, 0, t.NumCols())
	for _, name := range t.Columns() {
		if n == 0 {
			out = append(out, ColumnRatio{Column: name, Percent: math.NaN()})
			continue
		}
		missing := 0
		for _, na := range t.df.Col(name).IsNaN() {
			if na {
				missing++
			}
		}
		out = append(out, ColumnRatio{Column: name, Percent: float64(missing) / float64(n) * 100})
	}
	return out
}
