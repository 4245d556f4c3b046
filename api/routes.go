package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"cinevault/handlers"
)

// corsMiddleware handles CORS for API routes
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requirePIN guards the admin write endpoints. Interactive clients send the
// 6-digit PIN; machine clients may send the generated API key instead. Both
// are fetched per request so config changes apply without a restart.
func requirePIN(getPIN, getAPIKey func() string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pin := strings.TrimSpace(r.Header.Get("X-Admin-Pin"))
		if pin != "" && pin == getPIN() {
			next(w, r)
			return
		}
		key := strings.TrimSpace(r.Header.Get("X-Api-Key"))
		if key != "" && key == getAPIKey() {
			next(w, r)
			return
		}
		http.Error(w, "invalid admin PIN", http.StatusUnauthorized)
	}
}

// Register mounts API endpoints onto the provided router.
func Register(
	r *mux.Router,
	contentHandler *handlers.ContentHandler,
	categoriesHandler *handlers.CategoriesHandler,
	getPIN func() string,
	getAPIKey func() string,
) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	// Catalog reads (public)
	api.HandleFunc("/content", contentHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/content/featured", contentHandler.Featured).Methods(http.MethodGet)
	api.HandleFunc("/content/category/{slug}", contentHandler.ByCategory).Methods(http.MethodGet)
	api.HandleFunc("/content/{id}", contentHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/search", contentHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/categories", categoriesHandler.List).Methods(http.MethodGet)

	// Admin writes (PIN protected)
	api.HandleFunc("/content", requirePIN(getPIN, getAPIKey, contentHandler.Create)).Methods(http.MethodPost)
	api.HandleFunc("/content/{id}", requirePIN(getPIN, getAPIKey, contentHandler.Update)).Methods(http.MethodPut)
	api.HandleFunc("/content/{id}", requirePIN(getPIN, getAPIKey, contentHandler.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/categories", requirePIN(getPIN, getAPIKey, categoriesHandler.Create)).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id}", requirePIN(getPIN, getAPIKey, categoriesHandler.Update)).Methods(http.MethodPut)
	api.HandleFunc("/categories/{id}", requirePIN(getPIN, getAPIKey, categoriesHandler.Delete)).Methods(http.MethodDelete)

	// CORS preflight
	api.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodOptions)
}
