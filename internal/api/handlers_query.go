package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"reportctx/internal/relevance"
)

type queryRequest struct {
	DocumentID  string `json:"document_id"`
	Query       string `json:"query"`
	CompanyName string `json:"company_name"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.DocumentID) == "" {
		jsonError(w, "document_id is required", http.StatusBadRequest)
		return
	}

	result, err := s.orchestrator.Processor().Query(r.Context(), req.DocumentID, req.Query, req.CompanyName)
	if err != nil {
		var qe *relevance.QueryError
		if errors.As(err, &qe) {
			jsonError(w, qe.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
