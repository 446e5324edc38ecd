package httpapi

import (
	"encoding/json"
	"net/http"
)

// Every endpoint answers with a success flag plus a human-readable message.
// Expected failures (wrong password, duplicate email) keep HTTP 200 with
// success=false; non-200 is reserved for malformed requests, rate limiting
// and internal errors.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type userData struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic"`
}

type loginResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	RedirectPath string   `json:"redirectPath"`
	UserData     userData `json:"userData"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, messageResponse{Success: true, Message: message})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, messageResponse{Success: false, Message: message})
}
