package handlers

import (
	"encoding/json"
	"net/http"

	"freightbroker/apperrors"
	"freightbroker/sequence"
)

type SequenceHandler struct {
	Allocator *sequence.Allocator
}

func (h *SequenceHandler) Next(w http.ResponseWriter, r *http.Request, name string) {
	value, err := h.Allocator.Next(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "value": value})
}

func (h *SequenceHandler) Reserve(w http.ResponseWriter, r *http.Request, name string) {
	var body struct {
		Value int64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperrors.NewValidation("malformed request body: "+err.Error()))
		return
	}

	if err := h.Allocator.Reserve(r.Context(), name, body.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "value": body.Value, "ok": true})
}
