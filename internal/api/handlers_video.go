package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/creative-studio/internal/logging"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/service"
)

// videoJobView strips the panel lease from a job before it leaves the server
func videoJobView(job *models.VideoJob) *models.VideoJob {
	view := *job
	view.GuardToken = ""
	return &view
}

// handleSubmitVideo handles POST /api/videos
func (s *Server) handleSubmitVideo(w http.ResponseWriter, r *http.Request) {
	var input service.VideoInput
	userID, ok := decodePanelRequest(w, r, &input)
	if !ok {
		return
	}
	input.UserID = userID

	job, err := s.services.Motion.Submit(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/videos/"+job.ID)
	respondJSON(w, http.StatusAccepted, videoJobView(job))
}

// handleGetVideo handles GET /api/videos/{id}
func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	job, err := s.services.Motion.Get(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, videoJobView(job))
}

// handleVideoContent handles GET /api/videos/{id}/content, streaming the
// finished video from the provider.
func (s *Server) handleVideoContent(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	content, err := s.services.Motion.Download(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer content.Body.Close()

	contentType := content.ContentType
	if contentType == "" {
		contentType = "video/mp4"
	}
	w.Header().Set("Content-Type", contentType)
	if content.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(content.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, content.Body); err != nil {
		// headers are gone, so the client just sees a truncated body
		logging.FromContext(r.Context()).WithError(err).Warn("Video stream interrupted")
	}
}
