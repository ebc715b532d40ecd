package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"financx/internal/core"
	"financx/internal/log"
)

// envelope is the wire shape of every API response.
type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// errorKinds maps domain sentinels onto stable error kinds and HTTP
// statuses. First match wins.
var errorKinds = []struct {
	err    error
	kind   string
	status int
}{
	{core.ErrEmptyName, "empty_name", http.StatusUnprocessableEntity},
	{core.ErrNameTooLong, "name_too_long", http.StatusUnprocessableEntity},
	{core.ErrEmptyDescription, "empty_description", http.StatusUnprocessableEntity},
	{core.ErrDescriptionTooLong, "description_too_long", http.StatusUnprocessableEntity},
	{core.ErrInvalidAmount, "invalid_amount", http.StatusUnprocessableEntity},
	{core.ErrInvalidType, "invalid_type", http.StatusUnprocessableEntity},
	{core.ErrInvalidDate, "invalid_date", http.StatusUnprocessableEntity},
	{core.ErrInvalidMonth, "invalid_month", http.StatusUnprocessableEntity},
	{core.ErrInvalidTheme, "invalid_theme", http.StatusUnprocessableEntity},
	{core.ErrDuplicateName, "duplicate_name", http.StatusConflict},
	{core.ErrProtectedCategory, "protected_category", http.StatusConflict},
	{core.ErrCategoryNotFound, "category_not_found", http.StatusNotFound},
	{core.ErrNotFound, "not_found", http.StatusNotFound},
}

func (s *Server) writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		s.logger.Error("encode response", log.FieldError, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind, status := "internal", http.StatusInternalServerError
	message := err.Error()
	for _, m := range errorKinds {
		if errors.Is(err, m.err) {
			kind, status = m.kind, m.status
			break
		}
	}
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		message = "internal error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &apiError{Kind: kind, Message: message},
	}); encErr != nil {
		s.logger.Error("encode error response", log.FieldError, encErr)
	}
}

func (s *Server) writeRaw(w http.ResponseWriter, env envelope) {
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.logger.Error("encode response", log.FieldError, err)
	}
}

func (s *Server) writeBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &apiError{Kind: "bad_request", Message: message},
	})
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
