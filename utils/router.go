package utils

import "github.com/gorilla/mux"

// NewRouter constructs the shared router with consistent slash handling.
func NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.StrictSlash(true)
	return r
}
