package controllers

import (
	"encoding/json"
	"net/http"
)

type message struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondMessage(w http.ResponseWriter, status int, text string) {
	respondJSON(w, status, message{Message: text})
}
