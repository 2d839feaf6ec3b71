package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"freightbroker/apperrors"
	"freightbroker/lifecycle"
	"freightbroker/models"
	"freightbroker/query"
	"freightbroker/repository"
)

type DispatchHandler struct {
	Repo         repository.DispatchRepository
	Machine      *lifecycle.StateMachine
	DefaultLimit int64
}

// ListEnvelope is the shared listing response shape.
type ListEnvelope struct {
	Results    any   `json:"results"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalCount int64 `json:"total_count"`
	TotalPages int64 `json:"total_pages"`
}

func envelope(results any, q *query.Query, total int64) ListEnvelope {
	return ListEnvelope{
		Results:    results,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalCount: total,
		TotalPages: (total + q.Limit - 1) / q.Limit,
	}
}

func (h *DispatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d models.Dispatch
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, apperrors.NewValidation("malformed request body: "+err.Error()))
		return
	}

	if err := h.Machine.InitializeNew(r.Context(), &d); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Repo.Create(r.Context(), &d); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

func (h *DispatchHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := query.Build(query.FromValues(r.URL.Query()), query.DispatchFields, h.DefaultLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	list, total, err := h.Repo.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*models.Dispatch{}
	}
	writeJSON(w, http.StatusOK, envelope(list, q, total))
}

func (h *DispatchHandler) GetByID(w http.ResponseWriter, r *http.Request, id string) {
	d, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if d == nil {
		writeError(w, &apperrors.NotFoundError{Entity: "dispatch", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Transition runs the state machine. The target status comes from the body:
// {"status": "Published"}.
func (h *DispatchHandler) Transition(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperrors.NewValidation("malformed request body: "+err.Error()))
		return
	}

	target, err := models.ParseLoadStatus(body.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	d, err := h.Machine.Transition(r.Context(), id, target)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DispatchHandler) RefreshAge(w http.ResponseWriter, r *http.Request, id string) {
	ok, err := h.Repo.RefreshAge(r.Context(), id, time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, &apperrors.NotFoundError{Entity: "dispatch", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *DispatchHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	ok, err := h.Repo.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, &apperrors.NotFoundError{Entity: "dispatch", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
