package httpapi

import (
	"errors"
	"net/http"

	"campusconnect/internal/domain"
)

type profileResponse struct {
	Success    bool   `json:"success"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic"`
}

func (a *api) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	email := normalizeEmail(r.URL.Query().Get("email"))
	if email == "" {
		writeFailure(w, http.StatusBadRequest, "Email is required")
		return
	}

	u, err := a.profileSvc.GetProfile(r.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			WriteJSON(w, http.StatusOK, messageResponse{Success: false, Message: "User not found"})
			return
		}
		a.logger.Error("fetch profile failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	WriteJSON(w, http.StatusOK, profileResponse{
		Success:    true,
		Username:   u.Username,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
	})
}

type updateUsernameRequest struct {
	Email       string `json:"email"`
	NewUsername string `json:"newUsername"`
}

type updateUsernameResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Username string `json:"username"`
}

func (a *api) handleUpdateUsername(w http.ResponseWriter, r *http.Request) {
	var req updateUsernameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = normalizeEmail(req.Email)
	if req.Email == "" {
		writeFailure(w, http.StatusBadRequest, "Email is required")
		return
	}

	u, err := a.profileSvc.UpdateUsername(r.Context(), req.Email, req.NewUsername)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			writeFailure(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			WriteJSON(w, http.StatusOK, messageResponse{Success: false, Message: "User not found"})
		default:
			a.logger.Error("username update failed", "error", err)
			writeFailure(w, http.StatusInternalServerError, "Failed to update username")
		}
		return
	}

	WriteJSON(w, http.StatusOK, updateUsernameResponse{
		Success:  true,
		Message:  "Username updated successfully",
		Username: u.Username,
	})
}

type updateProfilePicRequest struct {
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic"`
}

type updateProfilePicResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ProfilePic string `json:"profilePic"`
}

func (a *api) handleUpdateProfilePic(w http.ResponseWriter, r *http.Request) {
	var req updateProfilePicRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = normalizeEmail(req.Email)
	if req.Email == "" {
		writeFailure(w, http.StatusBadRequest, "Email is required")
		return
	}

	u, err := a.profileSvc.UpdateProfilePic(r.Context(), req.Email, req.ProfilePic)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			writeFailure(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			WriteJSON(w, http.StatusOK, messageResponse{Success: false, Message: "User not found"})
		default:
			a.logger.Error("profile picture update failed", "error", err)
			writeFailure(w, http.StatusInternalServerError, "Failed to update profile picture")
		}
		return
	}

	WriteJSON(w, http.StatusOK, updateProfilePicResponse{
		Success:    true,
		Message:    "Profile picture updated successfully",
		ProfilePic: u.ProfilePic,
	})
}

type updateActivityRequest struct {
	Email    string `json:"email"`
	IsActive *bool  `json:"isActive"`
}

func (a *api) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	var req updateActivityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = normalizeEmail(req.Email)
	if req.Email == "" {
		writeFailure(w, http.StatusBadRequest, "Email is required")
		return
	}

	// isActive defaults to true when the client omits it.
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	if err := a.profileSvc.UpdateActivity(r.Context(), req.Email, isActive); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			WriteJSON(w, http.StatusOK, messageResponse{Success: false, Message: "User not found"})
			return
		}
		a.logger.Error("activity update failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to update activity status")
		return
	}

	WriteJSON(w, http.StatusOK, messageResponse{Success: true})
}
