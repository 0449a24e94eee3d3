// Package report lays out the dataset report and serializes it to PDF or XLSX.
package report

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/DataLens/internal/core"
)

// Title is the report heading and document title.
const Title = "DataLens Report"

// BlockKind identifies how a block is drawn.
type BlockKind int

const (
	KindHeading BlockKind = iota
	KindParagraph
	KindSpacer
	KindTable
)

// Block is one element of a Document.
type Block struct {
	Kind   BlockKind
	Level  int        // heading level, 1 is the title
	Text   string     // heading and paragraph text
	Height float64    // spacer height in points
	Rows   [][]string // table cells
}

// Heading returns a heading block. Level 1 is the document title.
func Heading(level int, text string) Block {
	return Block{Kind: KindHeading, Level: level, Text: text}
}

// Paragraph returns a body text block.
func Paragraph(text string) Block {
	return Block{Kind: KindParagraph, Text: text}
}

// Spacer returns vertical whitespace of the given height in points.
func Spacer(height float64) Block {
	return Block{Kind: KindSpacer, Height: height}
}

// TableBlock returns a grid of cells.
func TableBlock(rows [][]string) Block {
	return Block{Kind: KindTable, Rows: rows}
}

// Document is an ordered list of blocks plus metadata.
type Document struct {
	ID      string
	Title   string
	Created time.Time
	Blocks  []Block
}

// Build lays out the report for t:
// title, row and column counts, then the missing-value table.
func Build(t *core.Table) *Document {
	summary := [][]string{
		{"Rows", strconv.Itoa(t.NumRows())},
		{"Columns", strconv.Itoa(t.NumCols())},
	}

	ratios := t.MissingPercentages()
	missing := make([][]string, 0, len(ratios))
	for _, r := range ratios {
		missing = append(missing, []string{r.Column, formatPercent(r.Percent)})
	}

	return &Document{
		ID:      uuid.NewString(),
		Title:   Title,
		Created: time.Now(),
		Blocks: []Block{
			Heading(1, Title),
			Spacer(20),
			Heading(2, "Dataset Summary:"),
			TableBlock(summary),
			Spacer(20),
			Heading(2, "Missing Value Analysis:"),
			TableBlock(missing),
		},
	}
}

// formatPercent rounds to two decimals and keeps at least one fractional
// digit: 0 -> "0.0%", 33.333 -> "33.33%", 100 -> "100.0%".
func formatPercent(v float64) string {
	if math.IsNaN(v) {
		return "nan%"
	}
	s := strconv.FormatFloat(core.Round(v, 2), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "%"
}

// FileName returns "report_YYYYMMDD_HHMMSS.<ext>".
func FileName(created time.Time, ext string) string {
	return "report_" + created.Format("20060102_150405") + "." + ext
}

// Renderer serializes a Document.
type Renderer interface {
	Render(w io.Writer, doc *Document) error
	ContentType() string
	Extension() string
}

// Render serializes doc into memory so that nothing reaches the caller's
// writer when rendering fails. Errors wrap core.ErrRender.
func Render(r Renderer, doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrRender, r.Extension(), err)
	}
	return buf.Bytes(), nil
}

// ForFormat returns the renderer for "pdf" or "xlsx".
func ForFormat(format string, compressPDF bool) (Renderer, error) {
	switch format {
	case "pdf":
		return &PDFRenderer{Compress: compressPDF}, nil
	case "xlsx":
		return &XLSXRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}
