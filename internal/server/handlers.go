package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rumor-ml/commons.systems/cardparse/internal/parse"
	"github.com/rumor-ml/commons.systems/cardparse/internal/pdftext"
	"github.com/rumor-ml/commons.systems/cardparse/internal/store"
)

// maxUploadBytes bounds statement uploads; statements are small documents.
const maxUploadBytes = 20 << 20

// errorResponse is the JSON error envelope for every failure.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, errorResponse{Error: fmt.Sprintf(format, args...)})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleParse handles POST /api/parse: a multipart upload under the
// "file" field, either a PDF or a pre-extracted text rendering. The
// parsed record is persisted and returned.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload: %v", err)
		return
	}
	defer file.Close()

	fileName := filepath.Base(header.Filename)
	text, err := s.documentText(file, fileName)
	if err != nil {
		s.log.Warn("upload text extraction failed", "file", fileName, "error", err)
		if _, saveErr := s.store.SaveFailure(r.Context(), fileName, err); saveErr != nil {
			s.log.Error("failed to persist failure", "file", fileName, "error", saveErr)
		}
		writeError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}

	rec, err := s.dispatcher.Parse(text)
	if err != nil {
		s.log.Warn("parse failed", "file", fileName, "error", err)
		if _, saveErr := s.store.SaveFailure(r.Context(), fileName, err); saveErr != nil {
			s.log.Error("failed to persist failure", "file", fileName, "error", saveErr)
		}
		if errors.Is(err, parse.ErrEmptyDocument) {
			writeError(w, http.StatusUnprocessableEntity, "%v", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}

	stmt, err := s.store.SaveResult(r.Context(), fileName, rec)
	if err != nil {
		s.log.Error("failed to persist result", "file", fileName, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to persist result")
		return
	}

	s.log.Info("parsed statement",
		"file", fileName,
		"bank", rec.BankDetected,
		"confidence", rec.Confidence,
		"transactions", len(rec.Transactions))

	writeJSON(w, http.StatusOK, stmt)
}

// documentText turns an upload into statement text. PDFs go through the
// text-layer extractor via a temp file; anything else is read as text.
func (s *Server) documentText(file io.Reader, fileName string) (string, error) {
	if strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		tmp, err := os.CreateTemp("", "cardparse-*.pdf")
		if err != nil {
			return "", fmt.Errorf("failed to buffer upload: %w", err)
		}
		defer os.Remove(tmp.Name())
		defer tmp.Close()

		if _, err := io.Copy(tmp, file); err != nil {
			return "", fmt.Errorf("failed to buffer upload: %w", err)
		}
		return pdftext.Extract(tmp.Name())
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	return string(data), nil
}

// handleListStatements handles GET /api/statements.
func (s *Server) handleListStatements(w http.ResponseWriter, r *http.Request) {
	statements, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("failed to list statements", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch statements")
		return
	}
	writeJSON(w, http.StatusOK, statements)
}

// handleGetStatement handles GET /api/statements/{id}.
func (s *Server) handleGetStatement(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	stmt, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "statement %s not found", id)
		return
	}
	if err != nil {
		s.log.Error("failed to fetch statement", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch statement")
		return
	}
	writeJSON(w, http.StatusOK, stmt)
}
