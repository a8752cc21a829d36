package rest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
)

const maxJSONBody = 1 << 20

// readJSON reads and unmarshals a JSON request body into the provided value.
func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty")
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return fmt.Errorf("request body is empty")
	}
	return json.Unmarshal(body, v)
}

// writeJSON marshals the value as JSON and writes it to the response.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, map[string]string{"error": msg})
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	var parseErr *csv.ParseError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, model.ErrInvalidLabel), errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrSchemaMismatch),
		errors.Is(err, model.ErrDegenerateData),
		errors.Is(err, model.ErrEmptyBatch),
		errors.Is(err, model.ErrUnlabeledBook):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrArtifactNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
