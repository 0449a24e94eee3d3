// Package templates renders the HTML pages served by the DataLens server.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// IndexData feeds the landing page.
type IndexData struct {
	Options     []string
	MaxFileSize int64
}

// Index is the landing page: one form per endpoint, posting multipart data.
func Index(data IndexData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, indexHead); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, `<p>Upload a CSV file (up to %s).</p>`, templ.EscapeString(humanBytes(data.MaxFileSize))); err != nil {
			return err
		}

		if _, err := io.WriteString(w, form("/upload", "Preview")); err != nil {
			return err
		}

		options := ""
		for _, o := range data.Options {
			e := templ.EscapeString(o)
			options += `<option value="` + e + `">` + e + `</option>`
		}
		if _, err := io.WriteString(w, `<form method="post" action="/analyze" enctype="multipart/form-data" onsubmit="this.action='/analyze?option='+encodeURIComponent(this.option.value)">`+
			`<input type="file" name="file" accept=".csv" required> <select name="option">`+options+`</select> <button type="submit">Analyze</button></form>`); err != nil {
			return err
		}

		if _, err := io.WriteString(w, form("/report/pdf", "PDF report")); err != nil {
			return err
		}
		if _, err := io.WriteString(w, form("/report/xlsx", "XLSX report")); err != nil {
			return err
		}

		_, err := io.WriteString(w, indexFoot)
		return err
	})
}

const indexHead = `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">` +
	`<meta name="viewport" content="width=device-width, initial-scale=1">` +
	`<title>DataLens</title></head><body><main><h1>DataLens</h1>`

const indexFoot = `</main></body></html>`

func form(action, label string) string {
	return `<form method="post" action="` + templ.EscapeString(action) + `" enctype="multipart/form-data">` +
		`<input type="file" name="file" accept=".csv" required>` +
		` <button type="submit">` + templ.EscapeString(label) + `</button></form>`
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
