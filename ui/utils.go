package ui

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gonomo/domain/core"
	apperrors "gonomo/internal/errors"
)

// statusFor maps application error codes to HTTP status codes
func statusFor(code string) int {
	switch code {
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeDataSource, apperrors.CodeMissingColumn, apperrors.CodeInsufficientData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.Classify(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		a.logger.Error("[ui] %s %s: %v", r.Method, r.URL.Path, err)
	} else {
		a.logger.Debug("[ui] %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorBody{Error: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sessionID parses the {id} URL parameter. Malformed IDs name no session.
func sessionID(r *http.Request) (core.SessionID, error) {
	raw := chi.URLParam(r, "id")
	id, err := core.ParseID(raw)
	if err != nil {
		return "", apperrors.NotFound("session "+raw, core.ErrSessionNotFound)
	}
	return id, nil
}

// sessionError names the session in lookup failures from the store
func sessionError(id core.SessionID, err error) error {
	if errors.Is(err, core.ErrSessionNotFound) {
		return apperrors.NotFound("session "+id.String(), err)
	}
	return err
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}
