package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/DataLens/internal/core"
)

const sampleCSV = "a,b,name\n1,2,x\n2,4,\n3,7,z\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPreview_JSON(t *testing.T) {
	out, err := run(t, "preview", writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}

	var got struct {
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if strings.Join(got.Columns, ",") != "a,b,name" || len(got.Rows) != 3 {
		t.Errorf("preview = %+v", got)
	}
}

func TestPreview_YAML(t *testing.T) {
	out, err := run(t, "preview", "--output", "yaml", writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}

	var got struct {
		Columns []string         `yaml:"columns"`
		Rows    []map[string]any `yaml:"rows"`
	}
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if len(got.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(got.Rows))
	}
	if got.Rows[1]["name"] != nil {
		t.Errorf("missing cell = %v, want null", got.Rows[1]["name"])
	}
}

func TestAnalyze(t *testing.T) {
	path := writeCSV(t, sampleCSV)

	out, err := run(t, "analyze", path, "--option", "variance")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	var got struct {
		Result map[string]float64 `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if got.Result["a"] != 1 {
		t.Errorf("var(a) = %v, want 1", got.Result["a"])
	}

	if _, err := run(t, "analyze", path, "--option", "median"); err == nil ||
		!strings.Contains(err.Error(), core.InvalidOptionMessage) {
		t.Errorf("unknown option error = %v", err)
	}
	if _, err := run(t, "analyze", path); err == nil {
		t.Error("missing --option should fail")
	}
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, sampleCSV)

	pdfPath := filepath.Join(dir, "out.pdf")
	if _, err := run(t, "report", path, "-o", pdfPath); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("report is not a PDF")
	}

	xlsxPath := filepath.Join(dir, "out.xlsx")
	if _, err := run(t, "report", path, "--format", "xlsx", "-o", xlsxPath); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Report", "B4"); v != "3" {
		t.Errorf("rows cell = %q, want 3", v)
	}

	if _, err := run(t, "report", path, "--format", "docx"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestParseErrorIsUserFacing(t *testing.T) {
	_, err := run(t, "preview", writeCSV(t, "a,b\n1,2,3\n"))
	if !errors.Is(err, core.ErrParse) {
		t.Fatalf("error = %v, want ErrParse", err)
	}
	if !strings.Contains(core.FormatUserError(err), "FILE002") {
		t.Errorf("FormatUserError = %q", core.FormatUserError(err))
	}
}

func TestUnsupportedOutput(t *testing.T) {
	if _, err := run(t, "preview", "--output", "xml", writeCSV(t, sampleCSV)); err == nil {
		t.Error("--output xml should fail")
	}
}
