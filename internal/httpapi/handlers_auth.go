package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"campusconnect/internal/domain"
)

const dashboardPath = "/dashboard/index.html"

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *api) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)
	if req.Username == "" || req.Password == "" || !validEmail(req.Email) {
		writeFailure(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	_, err := a.authSvc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			WriteJSON(w, http.StatusOK, messageResponse{Success: false, Message: "Email already registered"})
			return
		}
		a.logger.Error("register failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	writeSuccess(w, "Registration successful!")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *api) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		writeFailure(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, err := a.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			WriteJSON(w, http.StatusOK, messageResponse{Success: false, Message: "Invalid credentials"})
			return
		}
		a.logger.Error("login failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, "Login failed")
		return
	}

	WriteJSON(w, http.StatusOK, loginResponse{
		Success:      true,
		Message:      "Login successful!",
		RedirectPath: dashboardPath,
		UserData: userData{
			Username:   u.Username,
			Email:      u.Email,
			ProfilePic: u.ProfilePic,
		},
	})
}

type googleLoginRequest struct {
	Credential string `json:"credential"`
}

func (a *api) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Credential == "" {
		writeFailure(w, http.StatusBadRequest, "Credential is required")
		return
	}

	u, err := a.authSvc.LoginWithGoogle(r.Context(), req.Credential)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidIDToken) {
			WriteJSON(w, http.StatusOK, messageResponse{Success: false, Message: "Google login failed"})
			return
		}
		a.logger.Error("google login failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, "Google login failed")
		return
	}

	WriteJSON(w, http.StatusOK, loginResponse{
		Success:      true,
		Message:      "Google login successful",
		RedirectPath: dashboardPath,
		UserData: userData{
			Username:   u.Username,
			Email:      u.Email,
			ProfilePic: u.ProfilePic,
		},
	})
}

type changePasswordRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (a *api) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.CurrentPassword == "" || req.NewPassword == "" {
		writeFailure(w, http.StatusBadRequest, "Email, current password and new password are required")
		return
	}

	err := a.authSvc.ChangePassword(r.Context(), req.Email, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeFailure(w, http.StatusNotFound, "User not found.")
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeFailure(w, http.StatusBadRequest, "Current password is incorrect.")
		default:
			a.logger.Error("change password failed", "error", err)
			writeFailure(w, http.StatusInternalServerError, "An error occurred while updating your password.")
		}
		return
	}

	writeSuccess(w, "Password updated successfully.")
}
