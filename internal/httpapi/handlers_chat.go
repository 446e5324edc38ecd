package httpapi

import (
	"net/http"
	"strings"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

func (a *api) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeFailure(w, http.StatusBadRequest, "Message is required")
		return
	}

	if a.chatClient == nil || !a.chatClient.Configured() {
		writeFailure(w, http.StatusServiceUnavailable, "AI service not configured")
		return
	}

	text, err := a.chatClient.GenerateContent(r.Context(), req.Message)
	if err != nil {
		a.logger.Error("chat completion failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to generate response")
		return
	}

	WriteJSON(w, http.StatusOK, chatResponse{Success: true, Response: text})
}
