package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusconnect/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ResetTokensStore struct {
	pool *pgxpool.Pool
}

func NewResetTokensStore(pool *pgxpool.Pool) *ResetTokensStore {
	return &ResetTokensStore{pool: pool}
}

func (s *ResetTokensStore) CreateResetToken(ctx context.Context, token domain.ResetToken) error {
	const q = `
		INSERT INTO reset_tokens (user_id, token_hash, sent_to_email, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.pool.Exec(ctx, q,
		token.UserID,
		token.TokenHash,
		token.SentToEmail,
		token.CreatedAt,
		token.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}
	return nil
}

// ClaimResetToken atomically marks the token used, but only if it is still
// outstanding and unexpired at the given time. Exactly one concurrent caller
// can win the claim; everyone else gets ErrNotFound.
func (s *ResetTokensStore) ClaimResetToken(ctx context.Context, tokenHash string, now time.Time) (domain.ResetToken, error) {
	const q = `
		UPDATE reset_tokens
		SET used_at = $2
		WHERE token_hash = $1 AND used_at IS NULL AND expires_at > $2
		RETURNING id, user_id, token_hash, sent_to_email, created_at, expires_at, used_at
	`

	var (
		token      domain.ResetToken
		idUUID     pgtype.UUID
		userIDUUID pgtype.UUID
		usedAt     pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx, q, tokenHash, now).Scan(
		&idUUID,
		&userIDUUID,
		&token.TokenHash,
		&token.SentToEmail,
		&token.CreatedAt,
		&token.ExpiresAt,
		&usedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ResetToken{}, domain.ErrNotFound
		}
		return domain.ResetToken{}, fmt.Errorf("claim reset token: %w", err)
	}

	token.ID = uuidOrEmpty(idUUID)
	token.UserID = uuidOrEmpty(userIDUUID)
	token.UsedAt = timestamptzPtr(usedAt)
	return token, nil
}

// ReleaseResetToken reverts a claim so the token is redeemable again. Used
// to compensate when the password write fails after a successful claim.
func (s *ResetTokensStore) ReleaseResetToken(ctx context.Context, tokenHash string) error {
	const q = `
		UPDATE reset_tokens
		SET used_at = NULL
		WHERE token_hash = $1
	`
	tag, err := s.pool.Exec(ctx, q, tokenHash)
	if err != nil {
		return fmt.Errorf("release reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
