package api

import (
	"net/http"

	"github.com/creative-studio/internal/types"
)

type selectToolRequest struct {
	Tool types.ToolID `json:"tool"`
}

// handleSelectTool handles PUT /api/navigation
func (s *Server) handleSelectTool(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req selectToolRequest
	if err := parseJSONBody(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	nav, err := s.services.Navigation.Select(r.Context(), userID, req.Tool)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, nav)
}

// handleActiveTool handles GET /api/navigation
func (s *Server) handleActiveTool(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	nav, err := s.services.Navigation.Active(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, nav)
}
