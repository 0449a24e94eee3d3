package core

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gota/gota/series"
)

func mustParse(t *testing.T, csv string) *Table {
	t.Helper()
	table, err := ParseTable(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	return table
}

func TestParseTable_Shape(t *testing.T) {
	table := mustParse(t, "id,name,score\n1,ann,3.5\n2,bob,4\n3,cy,\n")

	if got := table.NumRows(); got != 3 {
		t.Errorf("NumRows() = %d, want 3", got)
	}
	if got := table.NumCols(); got != 3 {
		t.Errorf("NumCols() = %d, want 3", got)
	}

	want := []string{"id", "name", "score"}
	got := table.Columns()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
	if table.Size() == 0 {
		t.Error("Size() = 0, want bytes parsed")
	}
}

func TestParseTable_TypeInference(t *testing.T) {
	table := mustParse(t, "i,f,b,s,gap\n1,1.5,true,x,\n2,NA,false,y,\n,3,true,z,\n")

	tests := []struct {
		col     string
		kind    series.Type
		numeric bool
	}{
		{"i", series.Int, true},
		{"f", series.Float, true},
		{"b", series.Bool, true},
		{"s", series.String, false},
		{"gap", series.String, true},
	}

	for _, tt := range tests {
		t.Run(tt.col, func(t *testing.T) {
			if got := table.Kind(tt.col); got != tt.kind {
				t.Errorf("Kind(%q) = %v, want %v", tt.col, got, tt.kind)
			}
			if got := table.IsNumeric(tt.col); got != tt.numeric {
				t.Errorf("IsNumeric(%q) = %v, want %v", tt.col, got, tt.numeric)
			}
		})
	}

	if got := strings.Join(table.NumericColumns(), ","); got != "i,f,b,gap" {
		t.Errorf("NumericColumns() = %q, want %q", got, "i,f,b,gap")
	}
}

func TestParseTable_MissingTokens(t *testing.T) {
	table := mustParse(t, "city\nOslo\n\nNA\nN/A\nnull\nNULL\nLima\n")

	ratios := table.MissingPercentages()
	if len(ratios) != 1 {
		t.Fatalf("got %d ratios, want 1", len(ratios))
	}
	// csv.Reader skips the blank line, so 6 rows remain and 4 are missing.
	if table.NumRows() != 6 {
		t.Fatalf("NumRows() = %d, want 6", table.NumRows())
	}
	want := 4.0 / 6.0 * 100
	if math.Abs(ratios[0].Percent-want) > 1e-9 {
		t.Errorf("missing = %v, want %v", ratios[0].Percent, want)
	}
}

func TestParseTable_BOM(t *testing.T) {
	table := mustParse(t, "\ufeffa,b\n1,2\n")

	if got := table.Columns()[0]; got != "a" {
		t.Errorf("first column = %q, want %q", got, "a")
	}
}

func TestParseTable_HeaderOnly(t *testing.T) {
	table := mustParse(t, "a,b\n")

	if table.NumRows() != 0 || table.NumCols() != 2 {
		t.Fatalf("shape = %dx%d, want 0x2", table.NumRows(), table.NumCols())
	}
	for _, r := range table.MissingPercentages() {
		if !math.IsNaN(r.Percent) {
			t.Errorf("missing[%s] = %v, want NaN", r.Column, r.Percent)
		}
	}
}

func TestParseTable_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantEmpty bool
	}{
		{"empty", "", true},
		{"long row", "a,b\n1,2,3\n", false},
		{"long row after short", "a,b,c\n1\n1,2,3,4\n", false},
		{"bad quoting", "a,b\n\"1,2\n3\"x,4\n", false},
		{"only newlines", "\n\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ParseTable() expected error")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("error %v does not wrap ErrParse", err)
			}
			if got := errors.Is(err, ErrEmptyFile); got != tt.wantEmpty {
				t.Errorf("errors.Is(ErrEmptyFile) = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}

func TestTable_Value(t *testing.T) {
	table := mustParse(t, "i,f,b,s\n7,2.5,true,hi\n,,,\n")

	tests := []struct {
		row  int
		col  string
		want any
	}{
		{0, "i", Number(7)},
		{0, "f", Number(2.5)},
		{0, "b", true},
		{0, "s", "hi"},
		{1, "i", nil},
		{1, "f", nil},
		{1, "b", nil},
		{1, "s", nil},
	}

	for _, tt := range tests {
		if got := table.Value(tt.row, tt.col); got != tt.want {
			t.Errorf("Value(%d, %q) = %#v, want %#v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestTable_ValueIntColumn(t *testing.T) {
	table := mustParse(t, "n\n1\n2\n")

	if got := table.Value(0, "n"); got != 1 {
		t.Errorf("Value(0, n) = %#v, want int 1", got)
	}
}

func TestParseTable_BoolSpellings(t *testing.T) {
	table := mustParse(t, "flag,upper,mixed,v\nTrue,TRUE,True,1\nFalse,FALSE,maybe,2\nTrue,NA,False,4\n")

	tests := []struct {
		col  string
		kind series.Type
	}{
		{"flag", series.Bool},
		{"upper", series.Bool},
		{"mixed", series.String},
	}
	for _, tt := range tests {
		if got := table.Kind(tt.col); got != tt.kind {
			t.Errorf("Kind(%q) = %v, want %v", tt.col, got, tt.kind)
		}
	}

	if got := table.Value(0, "flag"); got != true {
		t.Errorf("Value(0, flag) = %#v, want true", got)
	}
	if got := table.Value(1, "mixed"); got != "maybe" {
		t.Errorf("Value(1, mixed) = %#v, want %q", got, "maybe")
	}

	result := Analyze(table, "variance")
	if _, ok := result["flag"]; !ok {
		t.Errorf("variance result %v has no flag column", result)
	}
}

func TestParseTable_ColumnNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unique", "a,b\n1,2\n", "a,b"},
		{"duplicate", "a,a\n1,2\n", "a,a.1"},
		{"triplicate", "a,a,a\n1,2,3\n", "a,a.1,a.2"},
		{"suffix collision", "a,a,a.1\n1,2,3\n", "a,a.1,a.1.1"},
		{"blank", ",b\n1,2\n", "Unnamed: 0,b"},
		{"blank header only", "x,\n", "x,Unnamed: 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := mustParse(t, tt.input)
			if got := strings.Join(table.Columns(), ","); got != tt.want {
				t.Errorf("Columns() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTable_ShortRows(t *testing.T) {
	table := mustParse(t, "a,b,c\n1,2,3\n4,5\n")

	if table.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", table.NumRows())
	}
	if got := table.Value(1, "c"); got != nil {
		t.Errorf("Value(1, c) = %#v, want nil", got)
	}

	want := map[string]float64{"a": 0, "b": 0, "c": 50}
	for _, r := range table.MissingPercentages() {
		if r.Percent != want[r.Column] {
			t.Errorf("missing[%s] = %v, want %v", r.Column, r.Percent, want[r.Column])
		}
	}
}

func TestTable_Floats(t *testing.T) {
	table := mustParse(t, "x\n1\n\n3\n")

	got := table.Floats("x")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != 1 || got[1] != 3 {
		t.Errorf("Floats() = %v, want [1 3]", got)
	}

	table = mustParse(t, "x,y\n1,a\n,b\n3,c\n")
	got = table.Floats("x")
	if len(got) != 3 || got[0] != 1 || !math.IsNaN(got[1]) || got[2] != 3 {
		t.Errorf("Floats() = %v, want [1 NaN 3]", got)
	}
}
