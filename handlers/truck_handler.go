package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"freightbroker/apperrors"
	"freightbroker/models"
	"freightbroker/query"
	"freightbroker/repository"
	"freightbroker/sequence"
)

type TruckHandler struct {
	Repo         repository.TruckRepository
	Allocator    *sequence.Allocator
	DefaultLimit int64
}

// Create posts truck capacity. A client-supplied reference number goes
// through Reserve and can come back as an IdentifierConflict with a
// suggested value; otherwise the next number is allocated.
func (h *TruckHandler) Create(w http.ResponseWriter, r *http.Request) {
	var t models.Truck
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, apperrors.NewValidation("malformed request body: "+err.Error()))
		return
	}
	if err := t.Validate(); err != nil {
		writeError(w, err)
		return
	}

	if t.ReferenceNumber != nil {
		if err := h.Allocator.Reserve(r.Context(), models.SeqReferenceNumber, *t.ReferenceNumber); err != nil {
			writeError(w, err)
			return
		}
	} else {
		n, err := h.Allocator.Next(r.Context(), models.SeqReferenceNumber)
		if err != nil {
			writeError(w, err)
			return
		}
		t.ReferenceNumber = &n
	}

	if err := h.Repo.Create(r.Context(), &t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TruckHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := query.Build(query.FromValues(r.URL.Query()), query.TruckFields, h.DefaultLimit)
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
		list = []*models.Truck{}
	}
	writeJSON(w, http.StatusOK, envelope(list, q, total))
}

func (h *TruckHandler) GetByID(w http.ResponseWriter, r *http.Request, id string) {
	t, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if t == nil {
		writeError(w, &apperrors.NotFoundError{Entity: "truck", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TruckHandler) RefreshAge(w http.ResponseWriter, r *http.Request, id string) {
	ok, err := h.Repo.RefreshAge(r.Context(), id, time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, &apperrors.NotFoundError{Entity: "truck", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *TruckHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	ok, err := h.Repo.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, &apperrors.NotFoundError{Entity: "truck", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
