package httputil

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Error writes msg as a JSON error body. 5xx responses log at error level and hide msg
// from the client, everything else logs as a warning.
func Error(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	logger := log.Ctx(r.Context())

	var event *zerolog.Event
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	} else {
		event = logger.Warn()
	}
	if err != nil {
		event = event.Err(err)
	}
	event.Int("status", status).Msg(msg)

	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	WriteJSON(w, r, status, errorResponse{Error: msg})
}

func InternalServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	Error(w, r, http.StatusInternalServerError, msg, err)
}

func BadRequest(w http.ResponseWriter, r *http.Request, msg string, err error) {
	Error(w, r, http.StatusBadRequest, msg, err)
}

func NotFound(w http.ResponseWriter, r *http.Request, msg string, err error) {
	Error(w, r, http.StatusNotFound, msg, err)
}

func Unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	Error(w, r, http.StatusUnauthorized, msg, nil)
}
