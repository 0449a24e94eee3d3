package core

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// AnalysisOption selects the statistic computed by Analyze.
type AnalysisOption string

const (
	OptionCorrelation AnalysisOption = "correlation"
	OptionVariance    AnalysisOption = "variance"
	OptionMissing     AnalysisOption = "missing"
)

// Options lists the supported analysis options.
var Options = []AnalysisOption{OptionCorrelation, OptionVariance, OptionMissing}

// ResultPrecision is the number of decimals kept in analysis results.
const ResultPrecision = 5

// InvalidOptionMessage is returned inside the result for an unknown option.
const InvalidOptionMessage = "Invalid option"

// AnalysisResult maps a column name to a Number, or to a nested
// map[string]Number for correlation. An unknown option yields
// {"error": "Invalid option"}.
type AnalysisResult map[string]any

// Err returns the error message carried by the result, or "".
func (r AnalysisResult) Err() string {
	msg, _ := r["error"].(string)
	return msg
}

// Number is a float64 that serializes NaN and infinities as null.
// Finite values are written the way Python prints floats: whole numbers keep
// a ".0" and magnitudes below 1e-4 or from 1e16 use an exponent.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return []byte(formatFloat(f)), nil
}

func formatFloat(f float64) string {
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// MarshalYAML implements yaml.Marshaler.
func (n Number) MarshalYAML() (any, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, nil
	}
	return f, nil
}

// Round rounds half to even at the given number of decimals.
// NaN and infinities are returned unchanged.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow10(places)
	return math.RoundToEven(v*p) / p
}

// Analyze computes the statistic named by option over the whole table.
// Option names are matched exactly.
func Analyze(t *Table, option string) AnalysisResult {
	switch AnalysisOption(option) {
	case OptionCorrelation:
		return correlation(t)
	case OptionVariance:
		return variance(t)
	case OptionMissing:
		return missing(t)
	default:
		return AnalysisResult{"error": InvalidOptionMessage}
	}
}

// correlation returns the Pearson correlation of every pair of numeric
// columns, using the rows where both values are present.
func correlation(t *Table) AnalysisResult {
	cols := t.NumericColumns()
	values := make([][]float64, len(cols))
	for i, c := range cols {
		values[i] = t.Floats(c)
	}

	matrix := make([][]float64, len(cols))
	for i := range cols {
		matrix[i] = make([]float64, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := pearson(values[i], values[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}

	result := make(AnalysisResult, len(cols))
	for j, outer := range cols {
		inner := make(map[string]Number, len(cols))
		for i, name := range cols {
			inner[name] = Number(Round(matrix[i][j], ResultPrecision))
		}
		result[outer] = inner
	}
	return result
}

// pearson correlates the pairwise-complete observations of x and y.
// Fewer than two pairs or a constant side gives NaN.
func pearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if constant(xs) || constant(ys) {
		return math.NaN()
	}

	r := stat.Correlation(xs, ys, nil)
	return math.Max(-1, math.Min(1, r))
}

// variance returns the sample variance (n-1) of each numeric column.
func variance(t *Table) AnalysisResult {
	cols := t.NumericColumns()
	result := make(AnalysisResult, len(cols))
	for _, c := range cols {
		vals := present(t.Floats(c))
		v := math.NaN()
		if len(vals) >= 2 {
			v = stat.Variance(vals, nil)
		}
		result[c] = Number(Round(v, ResultPrecision))
	}
	return result
}

// missing returns the percentage of missing cells in every column.
func missing(t *Table) AnalysisResult {
	ratios := t.MissingPercentages()
	result := make(AnalysisResult, len(ratios))
	for _, r := range ratios {
		result[r.Column] = Number(Round(r.Percent, ResultPrecision))
	}
	return result
}

func constant(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}

// present drops NaN values.
func present(vals []float64) []float64 {
	out := vals[:0:0]
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
