package core

// PreviewRows is the number of leading rows returned by BuildPreview.
const PreviewRows = 5

// Preview describes the shape of an uploaded dataset.
type Preview struct {
	Columns []string         `json:"columns" yaml:"columns"`
	Rows    []map[string]any `json:"rows" yaml:"rows"`
}

// BuildPreview returns the header and the first PreviewRows rows as
// column→value records. Tables with fewer rows return all of them.
func BuildPreview(t *Table) Preview {
	cols := t.Columns()

	n := min(PreviewRows, t.NumRows())
	rows := make([]map[string]any, n)
	for i := range rows {
		rec := make(map[string]any, len(cols))
		for _, c := range cols {
			rec[c] = t.Value(i, c)
		}
		rows[i] = rec
	}

	return Preview{Columns: cols, Rows: rows}
}
