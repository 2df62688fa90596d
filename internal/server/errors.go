package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/debemdeboas/inkdraft/internal/assist"
	"github.com/debemdeboas/inkdraft/internal/config"
	"github.com/debemdeboas/inkdraft/internal/repository"
	"github.com/debemdeboas/inkdraft/internal/session"
	"github.com/debemdeboas/inkdraft/internal/upload"
)

var errBadRequest = errors.New("invalid request body")

type errorResponse struct {
	Error  string `json:"error"`
	Prompt string `json:"prompt,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, assist.ErrMissingTitle),
		errors.Is(err, assist.ErrMissingContent),
		errors.Is(err, assist.ErrInvalidKind),
		errors.Is(err, upload.ErrUnsupportedType),
		errors.Is(err, upload.ErrInvalidPurpose):
		return http.StatusBadRequest
	case errors.Is(err, assist.ErrDeclined),
		errors.Is(err, assist.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, repository.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrClosed),
		errors.Is(err, assist.ErrClosed):
		return http.StatusGone
	case errors.Is(err, upload.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, assist.ErrGateway):
		return http.StatusBadGateway
	case errors.Is(err, session.ErrAssistDisabled),
		errors.Is(err, session.ErrUploadDisabled),
		errors.Is(err, session.ErrPublishDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}

	resp := errorResponse{Error: err.Error()}
	if errors.Is(err, assist.ErrDeclined) {
		resp.Prompt = assist.ConfirmReplacePrompt
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
