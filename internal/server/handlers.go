package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sozercan/tribunal/apimodels"
	"github.com/sozercan/tribunal/internal/persona"
)

const (
	uploadField     = "file"
	multipartMemory = 8 << 20

	// Four analyses of 3000 characters each fit comfortably.
	maxJusticeBytes = 1 << 20
)

var errMissingFile = errors.New("missing multipart field \"file\"")

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyzePersona(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "persona")
	if !persona.IsAnalyst(name) {
		http.Error(w, fmt.Sprintf("unknown persona %q", name), http.StatusNotFound)
		return
	}

	text, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	result := s.analyzer.Run(r.Context(), persona.MustLookup(name), text)
	slog.Debug("Persona request completed", "persona", name, "fallback", result.Fallback)
	writeJSON(w, result)
}

func (s *Server) handleJustice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJusticeBytes)
	defer r.Body.Close()

	var in apimodels.JusticeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	writeJSON(w, s.analyzer.Synthesize(r.Context(), in))
}

func (s *Server) handleAnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	writeJSON(w, s.analyzer.AnalyzeDocument(r.Context(), text))
}

// readDocument pulls the uploaded PDF out of the multipart body and extracts
// its text. It writes the 400 response itself and reports false on failure.
// An unreadable PDF is not a request error: it yields empty text.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	defer r.Body.Close()

	data, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit), http.StatusBadRequest)
			return "", false
		}
		http.Error(w, fmt.Sprintf("Invalid upload: %v", err), http.StatusBadRequest)
		return "", false
	}

	text := s.extractor.Extract(data)
	if text == "" {
		slog.Warn("No text extracted from upload", "bytes", len(data))
	}
	return text, true
}

func readUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, err
	}
	defer r.MultipartForm.RemoveAll()

	f, _, err := r.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errMissingFile
		}
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
