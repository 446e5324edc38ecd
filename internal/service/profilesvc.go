package service

import (
	"context"
	"strings"
	"time"

	"campusconnect/internal/domain"
)

type ProfileStore interface {
	GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error)
	UpdateUsername(ctx context.Context, email, username string) (domain.User, error)
	UpdateProfilePic(ctx context.Context, email, profilePic string) (domain.User, error)
	SetActivity(ctx context.Context, email string, isActive bool, when time.Time) error
}

type ProfileService struct {
	Store ProfileStore
	Now   func() time.Time
}

func (s *ProfileService) GetProfile(ctx context.Context, email string) (domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.Store.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	return u.User, nil
}

func (s *ProfileService) UpdateUsername(ctx context.Context, email, username string) (domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, domain.NewValidationError(map[string]string{"newUsername": "required"})
	}
	if len(username) > 48 {
		return domain.User{}, domain.NewValidationError(map[string]string{"newUsername": "must be 48 characters or less"})
	}
	for _, r := range username {
		if r < 32 {
			return domain.User{}, domain.NewValidationError(map[string]string{"newUsername": "contains invalid characters"})
		}
	}
	return s.Store.UpdateUsername(ctx, email, username)
}

func (s *ProfileService) UpdateProfilePic(ctx context.Context, email, profilePic string) (domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	profilePic = strings.TrimSpace(profilePic)
	if len(profilePic) > 2048 {
		return domain.User{}, domain.NewValidationError(map[string]string{"profilePic": "must be 2048 characters or less"})
	}
	return s.Store.UpdateProfilePic(ctx, email, profilePic)
}

func (s *ProfileService) UpdateActivity(ctx context.Context, email string, isActive bool) error {
	email = strings.TrimSpace(strings.ToLower(email))
	when := time.Now()
	if s.Now != nil {
		when = s.Now()
	}
	return s.Store.SetActivity(ctx, email, isActive, when)
}
