package domain

import "time"

type User struct {
	ID         string
	Email      string
	Username   string
	ProfilePic string
	LastActive time.Time
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type UserWithPassword struct {
	User
	PasswordHash string
}

// ResetToken is one outstanding password-reset grant. Only the SHA-256 of
// the raw token is stored; the raw value exists only in the emailed link.
type ResetToken struct {
	ID          string
	UserID      string
	TokenHash   string
	SentToEmail string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	UsedAt      *time.Time
}

// Redeemable reports whether the token can still be exchanged for a new
// password at the given time.
func (t ResetToken) Redeemable(now time.Time) bool {
	return t.UsedAt == nil && t.ExpiresAt.After(now)
}
