package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// CreateUser inserts one account row. The caller is responsible for hashing
// the password and normalizing the email.
func (s *Store) CreateUser(ctx context.Context, user *User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, confirmed, email_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		boolToInt(user.Confirmed),
		boolToInt(user.EmailVerified),
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	return err
}

// GetUserByEmail returns an account by email, or nil when absent.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, confirmed, email_verified, created_at, updated_at
		FROM users WHERE email = ? LIMIT 1
	`, email)
	return scanUser(row)
}

// GetUserByID returns an account by id, or nil when absent.
func (s *Store) GetUserByID(ctx context.Context, id string) (*User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, confirmed, email_verified, created_at, updated_at
		FROM users WHERE id = ? LIMIT 1
	`, id)
	return scanUser(row)
}

// SetUserPassword replaces the password hash and confirmation flag for one
// account. Returns false when no account with the email exists.
func (s *Store) SetUserPassword(ctx context.Context, email, passwordHash string, confirmed bool, now time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, confirmed = ?, updated_at = ? WHERE email = ?
	`, passwordHash, boolToInt(confirmed), formatTime(now), strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SaveResetCode stores the hashed reset code for an email, replacing any
// outstanding one.
func (s *Store) SaveResetCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reset_codes (email, code_hash, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET code_hash = excluded.code_hash, expires_at = excluded.expires_at
	`, strings.TrimSpace(strings.ToLower(email)), codeHash, formatTime(expiresAt))
	return err
}

// ConsumeResetCode deletes a matching, unexpired reset code. Returns false
// when no such code exists.
func (s *Store) ConsumeResetCode(ctx context.Context, email, codeHash string, now time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM reset_codes WHERE email = ? AND code_hash = ? AND expires_at > ?
	`, strings.TrimSpace(strings.ToLower(email)), codeHash, formatTime(now))
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var confirmed, emailVerified int
	var createdAt, updatedAt string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&confirmed,
		&emailVerified,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.Confirmed = confirmed != 0
	user.EmailVerified = emailVerified != 0
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &user, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
