package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/indredK/history-sub002/internal/datasource"
)

// envelope is the {success, data, message} body used by every route.
type envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data"`
	Message string            `json:"message,omitempty"`
	Source  datasource.Source `json:"source,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, envelope{Success: true, Data: data})
}

func writeSourced(w http.ResponseWriter, data any, source datasource.Source) {
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: data, Source: source})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeEnvelope(w, status, envelope{Success: false, Message: msg})
}

func writeEnvelope(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
