package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/xavierca1/ligue-leadbot/internal/usecase"
)

const (
	msgInvalidJSON = "Invalid JSON body"
	msgNotFound    = "Not found"
	msgInternal    = "Internal server error"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeUsecaseError maps domain errors to 400 with their message and everything
// else to a generic 500.
func writeUsecaseError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: de.Message, Code: de.Code})
		return
	}

	logger.Error("request failed", slog.Any("error", err))
	writeError(w, http.StatusInternalServerError, msgInternal)
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, msgNotFound)
}
