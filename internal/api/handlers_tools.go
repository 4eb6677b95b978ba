package api

import (
	"net/http"

	"github.com/creative-studio/internal/service"
)

// decodePanelRequest reads the requesting user and the JSON body of a panel action
func decodePanelRequest(w http.ResponseWriter, r *http.Request, v interface{}) (string, bool) {
	userID, err := requestUser(r)
	if err != nil {
		respondError(w, r, err)
		return "", false
	}
	if err := parseJSONBody(w, r, v); err != nil {
		respondError(w, r, err)
		return "", false
	}
	return userID, true
}

// handleLogoGenerate handles POST /api/logo/generate
func (s *Server) handleLogoGenerate(w http.ResponseWriter, r *http.Request) {
	var input service.LogoInput
	userID, ok := decodePanelRequest(w, r, &input)
	if !ok {
		return
	}
	input.UserID = userID

	artifact, err := s.services.Logo.Generate(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, artifact)
}

// handleLogoEnhance handles POST /api/logo/enhance
func (s *Server) handleLogoEnhance(w http.ResponseWriter, r *http.Request) {
	var input service.LogoInput
	userID, ok := decodePanelRequest(w, r, &input)
	if !ok {
		return
	}
	input.UserID = userID

	enhanced, err := s.services.Logo.EnhancePrompt(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"prompt": enhanced})
}

// handlePixelGenerate handles POST /api/pixel/generate
func (s *Server) handlePixelGenerate(w http.ResponseWriter, r *http.Request) {
	var input service.PixelInput
	userID, ok := decodePanelRequest(w, r, &input)
	if !ok {
		return
	}
	input.UserID = userID

	artifact, err := s.services.Pixel.Generate(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, artifact)
}

type enhanceRequest struct {
	Prompt string `json:"prompt"`
}

// handlePixelEnhance handles POST /api/pixel/enhance
func (s *Server) handlePixelEnhance(w http.ResponseWriter, r *http.Request) {
	var req enhanceRequest
	userID, ok := decodePanelRequest(w, r, &req)
	if !ok {
		return
	}

	enhanced, err := s.services.Pixel.EnhancePrompt(r.Context(), userID, req.Prompt)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"prompt": enhanced})
}

// handleCopyGenerate handles POST /api/copy/generate
func (s *Server) handleCopyGenerate(w http.ResponseWriter, r *http.Request) {
	var input service.CopyInput
	userID, ok := decodePanelRequest(w, r, &input)
	if !ok {
		return
	}
	input.UserID = userID

	artifact, err := s.services.Copy.Generate(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, artifact)
}

// handleSiteGenerate handles POST /api/site/generate
func (s *Server) handleSiteGenerate(w http.ResponseWriter, r *http.Request) {
	var input service.SiteInput
	userID, ok := decodePanelRequest(w, r, &input)
	if !ok {
		return
	}
	input.UserID = userID

	artifact, err := s.services.Site.Generate(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, artifact)
}

// handleSiteRefine handles POST /api/site/refine
func (s *Server) handleSiteRefine(w http.ResponseWriter, r *http.Request) {
	var input service.RefineInput
	userID, ok := decodePanelRequest(w, r, &input)
	if !ok {
		return
	}
	input.UserID = userID

	artifact, err := s.services.Site.Refine(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, artifact)
}

// handleSiteVisualEdit handles POST /api/site/visual-edit
func (s *Server) handleSiteVisualEdit(w http.ResponseWriter, r *http.Request) {
	var input service.VisualEditInput
	userID, ok := decodePanelRequest(w, r, &input)
	if !ok {
		return
	}
	input.UserID = userID

	artifact, err := s.services.Site.SetVisualEdit(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, artifact)
}

// handleFlyerGenerate handles POST /api/flyer/generate
func (s *Server) handleFlyerGenerate(w http.ResponseWriter, r *http.Request) {
	var input service.FlyerInput
	userID, ok := decodePanelRequest(w, r, &input)
	if !ok {
		return
	}
	input.UserID = userID

	artifact, err := s.services.Flyer.Generate(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, artifact)
}

// handleSocialHooks handles POST /api/social/hooks
func (s *Server) handleSocialHooks(w http.ResponseWriter, r *http.Request) {
	var input service.HooksInput
	userID, ok := decodePanelRequest(w, r, &input)
	if !ok {
		return
	}
	input.UserID = userID

	hooks, err := s.services.Social.Hooks(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"hooks": hooks})
}

// handleSocialPost handles POST /api/social/post
func (s *Server) handleSocialPost(w http.ResponseWriter, r *http.Request) {
	var input service.PostInput
	userID, ok := decodePanelRequest(w, r, &input)
	if !ok {
		return
	}
	input.UserID = userID

	artifact, err := s.services.Social.Post(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, artifact)
}
