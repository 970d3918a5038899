package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"gosppt/domain/core"
	"gosppt/domain/sppt"
	apperrors "gosppt/internal/errors"
	"gosppt/internal/report"
)

// RunRequest is the body of POST /api/v1/sppt.
type RunRequest struct {
	Table   *sppt.Table   `json:"table"`
	Options *sppt.Options `json:"options"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRun executes a run and stores the result.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	opts := s.defaults.Clone()
	opts.GroupCol = ""
	req := RunRequest{Options: &opts}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, apperrors.InputError("body", "invalid JSON request: %v", err))
		return
	}
	if req.Table == nil {
		s.writeError(w, apperrors.InputError("table", "request has no table"))
		return
	}
	if opts.GroupCol == "" {
		opts.GroupCol = req.Table.GroupCol
	}
	if req.Table.GroupCol == "" {
		req.Table.GroupCol = opts.GroupCol
	}

	res, err := s.engine.Run(r.Context(), req.Table, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.results.Save(r.Context(), res); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/runs/"+res.RunID.String())
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, apperrors.InputError("limit", "must be a non-negative integer, got %q", v))
			return
		}
		limit = n
	}
	runs, err := s.results.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	res, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	res, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(report.Markdown(res)))
		return
	}
	page, err := report.HTML(res)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// handleExport renders the augmented table through the file exporter and
// streams it back as an attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	dir, err := os.MkdirTemp("", "sppt-export-*")
	if err != nil {
		s.writeError(w, apperrors.Wrap(err, "failed to create export directory"))
		return
	}
	defer os.RemoveAll(dir)

	path, err := s.exporter.Export(r.Context(), res, dir, format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}

// ReplayResponse reports a successful reproducibility check.
type ReplayResponse struct {
	RunID        core.RunID `json:"run_id"`
	Fingerprint  core.Hash  `json:"fingerprint"`
	Reproducible bool       `json:"reproducible"`
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	res, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	replay, err := s.engine.Replay(r.Context(), res)
	if errors.Is(err, core.ErrNonDeterministic) {
		s.logger.Error("stored run is not reproducible", zap.String("run_id", res.RunID.String()), zap.Error(err))
		writeJSON(w, http.StatusConflict, ErrorResponse{Code: apperrors.GetCode(err), Message: err.Error()})
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	fingerprint, err := replay.Fingerprint()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReplayResponse{RunID: res.RunID, Fingerprint: fingerprint, Reproducible: true})
}

func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*sppt.Result, bool) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, apperrors.InputError("id", "%v", err))
		return nil, false
	}
	res, err := s.results.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return res, true
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidInput, apperrors.CodeConfigInvalid:
		return http.StatusBadRequest
	case apperrors.CodeComputation:
		return http.StatusUnprocessableEntity
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, ErrorResponse{
		Code:    apperrors.GetCode(err),
		Field:   apperrors.GetField(err),
		Message: err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
