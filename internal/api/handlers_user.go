package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/creative-studio/internal/service"
)

// handleLogin handles POST /api/users/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := parseJSONBody(w, r, &input); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := s.services.Users.Login(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// handleGetUser handles GET /api/users/{id}
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.services.Users.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// handleEarnCredits handles POST /api/users/{id}/credits/earn
func (s *Server) handleEarnCredits(w http.ResponseWriter, r *http.Request) {
	user, err := s.services.Users.EarnCredits(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// handleUsage handles GET /api/users/{id}/usage
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	summary, err := s.services.Usage.ForUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
