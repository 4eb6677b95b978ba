package api

import (
	"net/http"
)

// handleListHistory handles GET /api/tools/{tool}/history
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	tool, err := pathTool(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	items, err := s.services.History.List(r.Context(), userID, tool)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tool":    tool,
		"history": items,
	})
}

// handleClearHistory handles DELETE /api/tools/{tool}/history
func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	tool, err := pathTool(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.services.History.Clear(r.Context(), userID, tool); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleCurrentOutput handles GET /api/tools/{tool}/output. A panel with
// nothing generated yet reports a null output.
func (s *Server) handleCurrentOutput(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	tool, err := pathTool(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	current, err := s.services.History.Current(r.Context(), userID, tool)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tool":   tool,
		"output": current,
	})
}
