package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusconnect/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersStore struct {
	pool *pgxpool.Pool
}

func NewUsersStore(pool *pgxpool.Pool) *UsersStore {
	return &UsersStore{pool: pool}
}

const userColumns = "id, email, username, profile_pic, last_active, is_active, created_at, updated_at"

func (s *UsersStore) CreateUser(ctx context.Context, email, username, passwordHash, profilePic string) (domain.User, error) {
	const q = `
		INSERT INTO users (email, username, password_hash, profile_pic)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, q, email, username, passwordHash, profilePic))
	if err != nil {
		return domain.User{}, mapUserWriteError(err)
	}
	return u, nil
}

func (s *UsersStore) GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error) {
	const q = `
		SELECT id, email, username, password_hash, profile_pic, last_active, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`

	var (
		u          domain.UserWithPassword
		idUUID     pgtype.UUID
		lastActive pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx, q, email).Scan(
		&idUUID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.ProfilePic,
		&lastActive,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		}
		return domain.UserWithPassword{}, fmt.Errorf("get user by email: %w", err)
	}

	u.ID = uuidOrEmpty(idUUID)
	if lastActive.Valid {
		u.LastActive = lastActive.Time
	}
	return u, nil
}

func (s *UsersStore) SetPasswordHash(ctx context.Context, userID, passwordHash string) error {
	const q = `
		UPDATE users
		SET password_hash = $2, updated_at = now()
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, q, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("set password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *UsersStore) UpdateUsername(ctx context.Context, email, username string) (domain.User, error) {
	const q = `
		UPDATE users
		SET username = $2, updated_at = now()
		WHERE email = $1
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, q, email, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("update username: %w", err)
	}
	return u, nil
}

func (s *UsersStore) UpdateProfilePic(ctx context.Context, email, profilePic string) (domain.User, error) {
	const q = `
		UPDATE users
		SET profile_pic = $2, updated_at = now()
		WHERE email = $1
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, q, email, profilePic))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("update profile pic: %w", err)
	}
	return u, nil
}

func (s *UsersStore) SetActivity(ctx context.Context, email string, isActive bool, when time.Time) error {
	const q = `
		UPDATE users
		SET last_active = $2, is_active = $3, updated_at = now()
		WHERE email = $1
	`
	tag, err := s.pool.Exec(ctx, q, email, when, isActive)
	if err != nil {
		return fmt.Errorf("set activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u          domain.User
		idUUID     pgtype.UUID
		lastActive pgtype.Timestamptz
	)
	err := row.Scan(
		&idUUID,
		&u.Email,
		&u.Username,
		&u.ProfilePic,
		&lastActive,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = uuidOrEmpty(idUUID)
	if lastActive.Valid {
		u.LastActive = lastActive.Time
	}
	return u, nil
}

func mapUserWriteError(err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		if pgerr.ConstraintName == "users_email_uq" {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("unique violation (%s): %w", pgerr.ConstraintName, err)
	}
	return fmt.Errorf("create user: %w", err)
}
