package handlers

import "net/http"

// Home answers the root path with a welcome message.
func Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Recipe API!"})
}
