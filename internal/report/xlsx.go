package report

import (
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet in an XLSX report.
const SheetName = "Report"

// XLSXRenderer writes a Document top-down into one worksheet.
// Headings and paragraphs occupy column A; table cells start there.
type XLSXRenderer struct{}

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (r *XLSXRenderer) Extension() string { return "xlsx" }

// Render writes doc as an XLSX workbook.
func (r *XLSXRenderer) Render(w io.Writer, doc *Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   doc.Title,
		Subject: doc.ID,
		Creator: pdfCreator,
	}); err != nil {
		return err
	}

	styles, err := headingStyles(f)
	if err != nil {
		return err
	}

	row := 1
	for _, b := range doc.Blocks {
		switch b.Kind {
		case KindHeading, KindParagraph:
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetCellValue(SheetName, cell, b.Text); err != nil {
				return err
			}
			if style, ok := styles[b.Level]; ok && b.Kind == KindHeading {
				if err := f.SetCellStyle(SheetName, cell, cell, style); err != nil {
					return err
				}
			}
			row++
		case KindSpacer:
			row++
		case KindTable:
			for _, cells := range b.Rows {
				for i, v := range cells {
					cell, _ := excelize.CoordinatesToCellName(i+1, row)
					if err := f.SetCellValue(SheetName, cell, cellValue(v)); err != nil {
						return err
					}
				}
				row++
			}
		}
	}

	if err := f.SetColWidth(SheetName, "A", "B", 28); err != nil {
		return err
	}
	return f.Write(w)
}

// headingStyles returns bold styles keyed by heading level.
func headingStyles(f *excelize.File) (map[int]int, error) {
	out := make(map[int]int, len(headingSizes))
	for level, size := range headingSizes {
		id, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Size: size},
		})
		if err != nil {
			return nil, err
		}
		out[level] = id
	}
	return out, nil
}

// cellValue stores whole numbers as numbers so counts stay numeric in the sheet.
func cellValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}
