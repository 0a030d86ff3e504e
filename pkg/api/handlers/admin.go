package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"tabsd/pkg/classify"
	"tabsd/pkg/logger"
	"tabsd/pkg/utils"
)

// RegisterAdmin registers admin-only routes onto the admin subrouter.
func RegisterAdmin(r *mux.Router, s *classify.Store) {
	r.HandleFunc("/health", adminHealth).Methods(http.MethodGet)
	r.HandleFunc("/stats", adminStats(s)).Methods(http.MethodGet)
	r.HandleFunc("/clear_caches", adminClearCaches(s)).Methods(http.MethodPost)
	logger.Info("admin_routes_registered")
}

func adminHealth(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		utils.JSONError(w, http.StatusForbidden, "forbidden")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok","service":"tabsd"}`))
}

func adminStats(s *classify.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAdmin(r) {
			utils.JSONError(w, http.StatusForbidden, "forbidden")
			return
		}
		_ = utils.JSONWrite(w, http.StatusOK, s.Snapshot())
	}
}

func adminClearCaches(s *classify.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAdmin(r) {
			utils.JSONError(w, http.StatusForbidden, "forbidden")
			return
		}
		s.ClearCaches()
		logger.Info("caches_cleared_by_admin")
		w.WriteHeader(http.StatusAccepted)
	}
}

func isAdmin(r *http.Request) bool {
	role := r.Header.Get("X-Role-Name")
	return role == "admin" || role == "backend"
}
