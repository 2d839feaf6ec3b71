package handlers

import (
	"net/http"

	"freightbroker/matching"
	"freightbroker/query"
)

type MatchHandler struct {
	Engine       *matching.Engine
	DefaultLimit int64
}

func (h *MatchHandler) TrucksForLoad(w http.ResponseWriter, r *http.Request, loadID string) {
	q, err := query.Build(query.FromValues(r.URL.Query()), query.TruckFields, h.DefaultLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.Engine.MatchTrucksForLoad(r.Context(), loadID, q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *MatchHandler) LoadsForTruck(w http.ResponseWriter, r *http.Request, truckID string) {
	q, err := query.Build(query.FromValues(r.URL.Query()), query.DispatchFields, h.DefaultLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.Engine.MatchLoadsForTruck(r.Context(), truckID, q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
