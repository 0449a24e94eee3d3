package report

import (
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin   = 72 // points
	pdfCellPad  = 6
	pdfRowH     = 18
	pdfFontName = "Helvetica"
	pdfCreator  = "DataLens"
)

// headingSizes maps heading level to font size in points.
var headingSizes = map[int]float64{1: 18, 2: 14, 3: 12}

// PDFRenderer draws a Document on A4 pages with the core Helvetica font.
type PDFRenderer struct {
	Compress bool
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }
func (r *PDFRenderer) Extension() string   { return "pdf" }

// Render writes doc as a PDF. The report ID is stored as the subject.
func (r *PDFRenderer) Render(w io.Writer, doc *Document) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetCompression(r.Compress)
	pdf.SetTitle(doc.Title, true)
	pdf.SetSubject(doc.ID, true)
	pdf.SetCreator(pdfCreator, true)
	if !doc.Created.IsZero() {
		pdf.SetCreationDate(doc.Created)
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	for _, b := range doc.Blocks {
		switch b.Kind {
		case KindHeading:
			size, ok := headingSizes[b.Level]
			if !ok {
				size = 12
			}
			align := "L"
			if b.Level == 1 {
				align = "C"
			}
			pdf.SetFont(pdfFontName, "B", size)
			pdf.CellFormat(0, size*1.4, tr(b.Text), "", 1, align, false, 0, "")
		case KindParagraph:
			pdf.SetFont(pdfFontName, "", 10)
			pdf.MultiCell(0, 14, tr(b.Text), "", "L", false)
		case KindSpacer:
			pdf.Ln(b.Height)
		case KindTable:
			pdf.SetFont(pdfFontName, "", 10)
			drawTable(pdf, b.Rows, tr)
		}
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// drawTable centers an unruled grid whose columns fit their widest cell.
func drawTable(pdf *fpdf.Fpdf, rows [][]string, tr func(string) string) {
	var widths []float64
	for _, row := range rows {
		for i, cell := range row {
			wd := pdf.GetStringWidth(tr(cell)) + 2*pdfCellPad
			if i >= len(widths) {
				widths = append(widths, wd)
			} else if wd > widths[i] {
				widths[i] = wd
			}
		}
	}

	var total float64
	for _, wd := range widths {
		total += wd
	}
	pageW, _ := pdf.GetPageSize()
	left := (pageW - total) / 2
	if left < pdfMargin {
		left = pdfMargin
	}

	for _, row := range rows {
		pdf.SetX(left)
		for i, cell := range row {
			pdf.CellFormat(widths[i], pdfRowH, tr(cell), "", 0, "L", false, 0, "")
		}
		pdf.Ln(pdfRowH)
	}
}
