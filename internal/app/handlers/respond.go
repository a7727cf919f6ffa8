package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// dataEnvelope and errorEnvelope are the two JSON shapes the API speaks:
// every success is {"data": ...}, every failure {"error": "..."}.
type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondData(w http.ResponseWriter, status int, payload any) {
	respondJSON(w, status, dataEnvelope{Data: payload})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorEnvelope{Error: message})
}
