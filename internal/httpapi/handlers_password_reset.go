package httpapi

import (
	"errors"
	"net/http"

	"campusconnect/internal/domain"
)

// Both the known-email and unknown-email paths answer with the same body,
// so the endpoint cannot be used to probe which addresses are registered.
const forgotPasswordMessage = "If this email exists, you will receive reset instructions."

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (a *api) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = normalizeEmail(req.Email)
	if !validEmail(req.Email) {
		writeFailure(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	if !a.forgotLimiter.Allow(clientIP(r)) {
		writeFailure(w, http.StatusTooManyRequests, "Too many reset requests. Please try again later.")
		return
	}

	if err := a.resetSvc.RequestReset(r.Context(), req.Email); err != nil {
		a.logger.Error("forgot password failed", "error", err)
		WriteJSON(w, http.StatusOK, messageResponse{Success: false, Message: "An error occurred. Please try again later."})
		return
	}

	writeSuccess(w, forgotPasswordMessage)
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (a *api) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Token == "" || req.NewPassword == "" {
		writeFailure(w, http.StatusBadRequest, "Token and new password are required")
		return
	}

	if err := a.resetSvc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrResetTokenInvalid) {
			writeFailure(w, http.StatusBadRequest, "Invalid or expired reset token.")
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			writeFailure(w, http.StatusBadRequest, "User not found.")
			return
		}
		a.logger.Error("reset password failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, "An error occurred while resetting your password.")
		return
	}

	writeSuccess(w, "Password reset successful.")
}
