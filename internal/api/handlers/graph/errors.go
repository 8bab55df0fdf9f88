package graph

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Roost/internal/core/graph"
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

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case graph.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case errors.Is(err, graph.ErrSelfFollow):
		writeError(w, http.StatusBadRequest, "InvalidRequest", "users cannot follow themselves")

	case errors.Is(err, graph.ErrFollowNotFound):
		writeError(w, http.StatusNotFound, "FollowNotFound", "follow relationship not found")

	default:
		log.Printf("Unexpected error in graph handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
