package timeline

import (
	"encoding/json"
	"log"
	"net/http"

	"Roost/internal/core/timeline"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResponse{
		Error:   errorType,
		Message: message,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// handleServiceError maps service errors to HTTP responses.
// The assembler degrades instead of failing, so anything that is not a
// validation error is unexpected here.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case timeline.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		log.Printf("Unexpected error in timeline handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An error occurred while assembling the timeline")
	}
}
