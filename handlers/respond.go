package handlers

import (
	"encoding/json"
	"net/http"

	"freightbroker/apperrors"
	"freightbroker/logger"
)

var errLog = logger.New("http")

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError returns business errors with their message; anything else is an
// internal failure that gets logged and answered generically, with no
// internals leaked to the caller.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	msg := err.Error()
	if !apperrors.IsBusiness(err) {
		errLog.Error().Err(err).Msg("request failed")
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
