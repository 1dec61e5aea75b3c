package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/DoyleJ11/quizboard/pkg/types"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondRaw writes a document that is already valid JSON.
func respondRaw(w http.ResponseWriter, status int, doc []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(doc)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, types.ErrorResponse{Status: types.StatusError, Message: message})
}
