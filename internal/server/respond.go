package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"conlang/internal/domain"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// fail maps a service error onto a status code. Unknown errors are logged
// and reported as 500 without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUsernameTaken):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	default:
		s.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

// decode reads a JSON body bounded by maxBodyBytes.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func recordIDParam(r *http.Request, name string) (domain.RecordID, error) {
	n, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: bad %s %q", domain.ErrInvalidInput, name, chi.URLParam(r, name))
	}
	return domain.RecordID(n), nil
}

func userIDParam(r *http.Request, name string) (domain.UserID, error) {
	id, err := recordIDParam(r, name)
	return domain.UserID(id), err
}
