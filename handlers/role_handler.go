package handlers

import (
	"encoding/json"
	"net/http"

	"freightbroker/apperrors"
	"freightbroker/models"
	"freightbroker/roles"
)

type RoleHandler struct {
	Cache *roles.Cache
}

func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request, name string) {
	role, err := h.Cache.Get(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	if role == nil {
		writeError(w, &apperrors.NotFoundError{Entity: "role", ID: name})
		return
	}
	writeJSON(w, http.StatusOK, role)
}

func (h *RoleHandler) Save(w http.ResponseWriter, r *http.Request) {
	var role models.Role
	if err := json.NewDecoder(r.Body).Decode(&role); err != nil {
		writeError(w, apperrors.NewValidation("malformed request body: "+err.Error()))
		return
	}
	if role.Name == "" {
		writeError(w, apperrors.NewValidation("role name is required"))
		return
	}

	if err := h.Cache.Save(r.Context(), &role); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request, name string) {
	ok, err := h.Cache.DeleteRole(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, &apperrors.NotFoundError{Entity: "role", ID: name})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
