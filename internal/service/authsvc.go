package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"campusconnect/internal/auth"
	"campusconnect/internal/domain"
)

type UsersStore interface {
	CreateUser(ctx context.Context, email, username, passwordHash, profilePic string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error)
	SetPasswordHash(ctx context.Context, userID, passwordHash string) error
}

// Notifier delivers outbound account emails. Welcome mail is best-effort;
// reset mail failures propagate to the caller.
type Notifier interface {
	SendWelcome(ctx context.Context, toEmail, username string) error
	SendPasswordReset(ctx context.Context, toEmail, username, resetURL string) error
}

type AuthService struct {
	Users  UsersStore
	Mailer Notifier
	Logger *slog.Logger

	GoogleClientID      string
	VerifyGoogleIDToken func(ctx context.Context, tokenString, expectedAud string) (*auth.GoogleClaims, error)

	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)

	passwordHash, err := auth.HashPassword(password, auth.CostSignup)
	if err != nil {
		return domain.User{}, err
	}

	u, err := s.Users.CreateUser(ctx, email, username, passwordHash, "")
	if err != nil {
		return domain.User{}, err
	}

	if s.Mailer != nil {
		if err := s.Mailer.SendWelcome(ctx, u.Email, u.Username); err != nil {
			s.logger().Error("welcome email failed", "err", err)
		}
	}

	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	ok, err := auth.VerifyPassword(u.PasswordHash, password)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	return u.User, nil
}

// LoginWithGoogle exchanges a verified Google ID token for a local account,
// creating one on first login. An existing account is returned unchanged;
// the claim picture only fills an empty ProfilePic in the returned view and
// is never persisted over stored data.
func (s *AuthService) LoginWithGoogle(ctx context.Context, credential string) (domain.User, error) {
	verify := s.VerifyGoogleIDToken
	if verify == nil {
		verify = auth.VerifyGoogleIDToken
	}

	claims, err := verify(ctx, credential, s.GoogleClientID)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", domain.ErrInvalidIDToken, err)
	}

	u, err := s.Users.GetUserByEmail(ctx, claims.Email)
	if err == nil {
		user := u.User
		if user.ProfilePic == "" {
			user.ProfilePic = claims.Picture
		}
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	secret, err := auth.RandomSecret()
	if err != nil {
		return domain.User{}, err
	}
	passwordHash, err := auth.HashPassword(secret, auth.CostSignup)
	if err != nil {
		return domain.User{}, err
	}

	username := claims.Name
	if username == "" {
		username, _, _ = strings.Cut(claims.Email, "@")
	}

	created, err := s.Users.CreateUser(ctx, claims.Email, username, passwordHash, claims.Picture)
	if err != nil {
		return domain.User{}, err
	}

	if s.Mailer != nil {
		if err := s.Mailer.SendWelcome(ctx, created.Email, created.Username); err != nil {
			s.logger().Error("welcome email failed", "err", err)
		}
	}

	return created, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	ok, err := auth.VerifyPassword(u.PasswordHash, currentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}

	passwordHash, err := auth.HashPassword(newPassword, auth.CostReset)
	if err != nil {
		return err
	}
	return s.Users.SetPasswordHash(ctx, u.ID, passwordHash)
}
