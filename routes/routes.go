package routes

import (
	"net/http"
	"strings"

	"freightbroker/handlers"
)

// CORS middleware
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*") // Replace * with your domain in production
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func handle(path string, h http.HandlerFunc) {
	http.Handle(path, withCORS(http.HandlerFunc(handlers.RecoverWrapper(h))))
}

func SetupRoutes(
	dispatchHandler *handlers.DispatchHandler,
	truckHandler *handlers.TruckHandler,
	matchHandler *handlers.MatchHandler,
	sequenceHandler *handlers.SequenceHandler,
	roleHandler *handlers.RoleHandler,
) {
	handle("/dispatches", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			dispatchHandler.Create(w, r)
		case http.MethodGet:
			dispatchHandler.List(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// /dispatches/{id}, /dispatches/{id}/status, /dispatches/{id}/refresh-age,
	// /dispatches/{id}/matches
	handle("/dispatches/", func(w http.ResponseWriter, r *http.Request) {
		id, action := splitPath(r.URL.Path, "/dispatches/")
		if id == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch {
		case action == "" && r.Method == http.MethodGet:
			dispatchHandler.GetByID(w, r, id)
		case action == "" && r.Method == http.MethodDelete:
			dispatchHandler.Delete(w, r, id)
		case action == "status" && r.Method == http.MethodPost:
			dispatchHandler.Transition(w, r, id)
		case action == "refresh-age" && r.Method == http.MethodPost:
			dispatchHandler.RefreshAge(w, r, id)
		case action == "matches" && r.Method == http.MethodGet:
			matchHandler.TrucksForLoad(w, r, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	handle("/trucks", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			truckHandler.Create(w, r)
		case http.MethodGet:
			truckHandler.List(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	handle("/trucks/", func(w http.ResponseWriter, r *http.Request) {
		id, action := splitPath(r.URL.Path, "/trucks/")
		if id == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch {
		case action == "" && r.Method == http.MethodGet:
			truckHandler.GetByID(w, r, id)
		case action == "" && r.Method == http.MethodDelete:
			truckHandler.Delete(w, r, id)
		case action == "refresh-age" && r.Method == http.MethodPost:
			truckHandler.RefreshAge(w, r, id)
		case action == "matches" && r.Method == http.MethodGet:
			matchHandler.LoadsForTruck(w, r, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	// /sequences/{name}/next, /sequences/{name}/reserve
	handle("/sequences/", func(w http.ResponseWriter, r *http.Request) {
		name, action := splitPath(r.URL.Path, "/sequences/")
		if name == "" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch action {
		case "next":
			sequenceHandler.Next(w, r, name)
		case "reserve":
			sequenceHandler.Reserve(w, r, name)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	handle("/roles", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		roleHandler.Save(w, r)
	})

	handle("/roles/", func(w http.ResponseWriter, r *http.Request) {
		name, action := splitPath(r.URL.Path, "/roles/")
		if name == "" || action != "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			roleHandler.Get(w, r, name)
		case http.MethodDelete:
			roleHandler.Delete(w, r, name)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

// splitPath returns the id segment after prefix and the remaining action
// segment, if any.
func splitPath(path, prefix string) (id, action string) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", ""
	}
	parts := strings.SplitN(rest, "/", 2)
	id = parts[0]
	if len(parts) == 2 {
		action = parts[1]
	}
	return id, action
}
