package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handleListReports lists the ids of every cached document.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	ids, err := s.orchestrator.Processor().Store().List(r.Context())
	if err != nil {
		jsonError(w, "failed to list reports: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": ids})
}

// handleSections reports how many occurrences of each section type a
// processed document has.
func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	counts, err := s.orchestrator.Processor().Sections(r.Context(), docID)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"document_id": docID,
		"sections":    counts,
	})
}

// handleFinancials returns the extracted headline metrics.
func (s *Server) handleFinancials(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	fd, err := s.orchestrator.Processor().Financials(r.Context(), docID)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"document_id":    docID,
		"financial_data": fd,
	})
}

// handleDeleteReport drops a cached document. Cached aggregates are
// never invalidated automatically, so this and a forced re-upload are
// the only ways to evict an entry.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if strings.TrimSpace(docID) == "" {
		jsonError(w, "document id is required", http.StatusBadRequest)
		return
	}
	if err := s.orchestrator.Processor().Store().Delete(r.Context(), docID); err != nil {
		jsonError(w, "failed to delete report: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": docID})
}
