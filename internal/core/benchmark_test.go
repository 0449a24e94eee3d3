package core

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"
)

// generateDataset builds a CSV with numeric, string and sparse columns.
func generateDataset(rows, numeric int) []byte {
	r := rand.New(rand.NewSource(1))
	var buf bytes.Buffer

	for c := 0; c < numeric; c++ {
		fmt.Fprintf(&buf, "x%d,", c)
	}
	buf.WriteString("label,sparse\n")

	for i := 0; i < rows; i++ {
		for c := 0; c < numeric; c++ {
			fmt.Fprintf(&buf, "%.3f,", r.NormFloat64()*float64(c+1))
		}
		fmt.Fprintf(&buf, "row%d,", i)
		if i%4 == 0 {
			buf.WriteString("NA\n")
		} else {
			fmt.Fprintf(&buf, "%d\n", i)
		}
	}
	return buf.Bytes()
}

// ============================================================================
// Parsing Benchmarks
// ============================================================================

// BenchmarkParseTable parses a small upload.
func BenchmarkParseTable(b *testing.B) {
	data := generateDataset(100, 4)
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseTable(bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParseTable_Large parses a 10k-row upload.
func BenchmarkParseTable_Large(b *testing.B) {
	data := generateDataset(10000, 8)
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseTable(bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkWrapForParsing measures the BOM/UTF-8 reader chain alone.
func BenchmarkWrapForParsing(b *testing.B) {
	data := []byte("\xEF\xBB\xBF" + strings.Repeat("caf\xe9,ok,123\n", 10000))
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		io.Copy(io.Discard, WrapForParsing(bytes.NewReader(data)))
	}
}

// ============================================================================
// Statistics Benchmarks
// ============================================================================

func benchmarkAnalyze(b *testing.B, option string, rows, numeric int) {
	table, err := ParseTable(bytes.NewReader(generateDataset(rows, numeric)))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := Analyze(table, option); res.Err() != "" {
			b.Fatal(res.Err())
		}
	}
}

func BenchmarkAnalyze_Correlation(b *testing.B) { benchmarkAnalyze(b, "correlation", 1000, 8) }
func BenchmarkAnalyze_Variance(b *testing.B)    { benchmarkAnalyze(b, "variance", 1000, 8) }
func BenchmarkAnalyze_Missing(b *testing.B)     { benchmarkAnalyze(b, "missing", 1000, 8) }

// BenchmarkBuildPreview measures preview extraction on a large table.
func BenchmarkBuildPreview(b *testing.B) {
	table, err := ParseTable(bytes.NewReader(generateDataset(10000, 8)))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BuildPreview(table)
	}
}

// ============================================================================
// Parallel Benchmarks
// ============================================================================

// BenchmarkParseAndAnalyze_Parallel simulates concurrent requests, each
// owning its table.
func BenchmarkParseAndAnalyze_Parallel(b *testing.B) {
	data := generateDataset(500, 4)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			table, err := ParseTable(bytes.NewReader(data))
			if err != nil {
				b.Error(err)
				return
			}
			Analyze(table, "correlation")
		}
	})
}
