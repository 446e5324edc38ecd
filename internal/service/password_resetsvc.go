package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"campusconnect/internal/auth"
	"campusconnect/internal/domain"
)

type ResetTokensStore interface {
	CreateResetToken(ctx context.Context, token domain.ResetToken) error
	ClaimResetToken(ctx context.Context, tokenHash string, now time.Time) (domain.ResetToken, error)
	ReleaseResetToken(ctx context.Context, tokenHash string) error
}

type ResetUsersStore interface {
	GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error)
	SetPasswordHash(ctx context.Context, userID, passwordHash string) error
}

type PasswordResetService struct {
	Tokens ResetTokensStore
	Users  ResetUsersStore
	Mailer Notifier
	Logger *slog.Logger

	// ResetBaseURL is the public origin the emailed link points at.
	ResetBaseURL string
	TokenTTL     time.Duration
	Now          func() time.Time
}

func (s *PasswordResetService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *PasswordResetService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// RequestReset issues a reset token for the account behind email and mails
// the link. An unknown email is a silent no-op: callers cannot tell the two
// outcomes apart, only a mail delivery failure surfaces as an error.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	if s.Tokens == nil || s.Users == nil {
		return fmt.Errorf("reset service unavailable")
	}

	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger().Info("reset requested for unknown email")
			return nil
		}
		return err
	}

	raw, tokenHash, err := newResetToken()
	if err != nil {
		return err
	}

	ttl := s.TokenTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	now := s.now()
	token := domain.ResetToken{
		UserID:      user.ID,
		TokenHash:   tokenHash,
		SentToEmail: email,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	if err := s.Tokens.CreateResetToken(ctx, token); err != nil {
		return err
	}

	if s.Mailer == nil {
		return fmt.Errorf("%w: mailer not configured", domain.ErrNotificationFailed)
	}
	if err := s.Mailer.SendPasswordReset(ctx, email, user.Username, s.resetLink(raw)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}
	return nil
}

// ResetPassword redeems a token and sets the new password. The token is
// claimed first with a conditional update so a concurrent redemption can
// win at most once; if the password write then fails, the claim is released
// so the token is not burned without effect.
func (s *PasswordResetService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if s.Tokens == nil || s.Users == nil {
		return fmt.Errorf("reset service unavailable")
	}

	tokenHash := hashResetToken(rawToken)
	token, err := s.Tokens.ClaimResetToken(ctx, tokenHash, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrResetTokenInvalid
		}
		return err
	}

	passwordHash, err := auth.HashPassword(newPassword, auth.CostReset)
	if err != nil {
		s.release(ctx, tokenHash)
		return err
	}
	if err := s.Users.SetPasswordHash(ctx, token.UserID, passwordHash); err != nil {
		s.release(ctx, tokenHash)
		return err
	}
	return nil
}

func (s *PasswordResetService) release(ctx context.Context, tokenHash string) {
	if err := s.Tokens.ReleaseResetToken(ctx, tokenHash); err != nil {
		s.logger().Error("release claimed reset token failed", "err", err)
	}
}

func (s *PasswordResetService) resetLink(rawToken string) string {
	base := strings.TrimRight(s.ResetBaseURL, "/")
	if base == "" {
		base = "http://localhost:8080"
	}
	return base + "/reset-password.html?token=" + url.QueryEscape(rawToken)
}

func newResetToken() (string, string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("read token: %w", err)
	}
	raw := hex.EncodeToString(buf)
	return raw, hashResetToken(raw), nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
