package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	proc := s.orchestrator.Processor()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"backend":     s.cfg.GeneratorBackend,
		"queue_depth": s.orchestrator.QueueDepth(),
		"generation":  proc.GenerationStats(),
	})
}
