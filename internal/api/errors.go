package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/logging"
	"github.com/creative-studio/internal/types"
)

// maxBodyBytes bounds request bodies; refine and visual edit carry whole documents
const maxBodyBytes = 4 << 20

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error types.ServiceError `json:"error"`
}

// respondError writes err as the error envelope with its categorized status.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	catErr := errors.Categorize(err)

	logger := logging.FromContext(r.Context()).WithFields(map[string]interface{}{
		"code":   catErr.Code,
		"status": catErr.StatusCode,
	})
	if catErr.StatusCode >= http.StatusInternalServerError {
		logger.WithError(err).Error("Request failed")
	} else {
		logger.Debug(catErr.Message)
	}

	writeError(w, catErr)
}

func writeError(w http.ResponseWriter, catErr *errors.CategorizedError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(catErr.StatusCode)

	json.NewEncoder(w).Encode(ErrorResponse{Error: *catErr.ToServiceError()})
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// parseJSONBody parses a JSON request body. An empty body leaves v untouched.
func parseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		return errors.NewInvalidInputError("body", "invalid JSON: "+err.Error())
	}
	return nil
}
