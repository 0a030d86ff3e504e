package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"tabsd/pkg/api/handlers"
	"tabsd/pkg/classify"
)

// Handler returns the versioned API router for the given store.
func Handler(s *classify.Store) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	handlers.RegisterInbox(v1, s)
	handlers.RegisterAdmin(v1.PathPrefix("/admin").Subrouter(), s)

	return r
}
