package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/DataLens/internal/core"
	"github.com/JonMunkholm/DataLens/internal/logging"
	"github.com/JonMunkholm/DataLens/internal/report"
	"github.com/JonMunkholm/DataLens/internal/web/templates"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before ParseMultipartForm spills to temporary files.
const multipartMemory = 8 << 20

// analyzeResponse wraps the statistic so the body is {"result": ...}.
type analyzeResponse struct {
	Result core.AnalysisResult `json:"result"`
}

// handleIndex renders the landing page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	opts := make([]string, len(core.Options))
	for i, o := range core.Options {
		opts[i] = string(o)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := templates.Index(templates.IndexData{
		Options:     opts,
		MaxFileSize: s.cfg.Upload.MaxFileSize,
	}).Render(r.Context(), w)
	if err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// handleUpload returns the header and first rows of a CSV upload.
// Only filenames ending in ".csv" are accepted.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	table, err := s.readTable(w, r, true)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, r, core.BuildPreview(table))
}

// handleAnalyze computes the statistic named by the option query parameter.
// An unknown option is not an error: it yields {"result":{"error":"Invalid option"}}.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("option") {
		err := fmt.Errorf("%w: option", core.ErrMissingParameter)
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	option := r.URL.Query().Get("option")

	table, err := s.readTable(w, r, false)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	result := core.Analyze(table, option)
	if msg := result.Err(); msg != "" {
		logging.FromContext(r.Context()).Info("analysis rejected", "option", option, "reason", msg)
	}

	writeJSON(w, r, analyzeResponse{Result: result})
}

// handleReport renders the dataset report in the given format and returns
// it as an attachment named after the request time.
func (s *Server) handleReport(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer, err := report.ForFormat(format, s.cfg.Report.CompressPDF)
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}

		table, err := s.readTable(w, r, false)
		if err != nil {
			s.respondError(w, r, err, statusFor(err))
			return
		}

		doc := report.Build(table)
		doc.Created = s.now()

		data, err := report.Render(renderer, doc)
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}

		name := report.FileName(doc.Created, renderer.Extension())
		logging.WithFields(r.Context(), "report_id", doc.ID, "format", format).
			Info("report generated", "file", name, "bytes", len(data))

		w.Header().Set("Content-Type", renderer.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("X-Report-ID", doc.ID)
		w.Write(data)
	}
}

// readTable parses the multipart "file" field of r into a Table.
// The body is capped at the configured upload size.
func (s *Server) readTable(w http.ResponseWriter, r *http.Request, requireCSV bool) (*core.Table, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(min(maxSize, multipartMemory)); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
			return nil, fmt.Errorf("%w: %v", core.ErrFileTooLarge, err)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}
	defer file.Close()

	if requireCSV && !strings.HasSuffix(header.Filename, ".csv") {
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFile, header.Filename)
	}

	if err := s.parses.Acquire(r.Context()); err != nil {
		return nil, err
	}
	defer s.parses.Release()

	table, err := core.ParseTable(file)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", header.Filename, err)
	}

	logging.WithFields(r.Context(), "file", header.Filename, "size", header.Size).
		Debug("dataset parsed", "rows", table.NumRows(), "columns", table.NumCols())
	return table, nil
}
