package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/intellihire/internal/store"
	"github.com/jonathan/intellihire/internal/types"
)

const userColumns = `id, name, email, password_hash, password_set, created_at, updated_at`

// CreateUser creates a user without a password.
func (s *Store) CreateUser(ctx context.Context, name, email string) (uuid.UUID, error) {
	id := uuid.New()
	now := types.NewTimestamp(time.Now()).String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`, id.String(), name, email, now, now)
	if err != nil {
		return uuid.Nil, fmt.Errorf("creating user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*store.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id.String())
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email; an empty email matches nothing.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	if email == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// CheckEmailExists reports whether an account already uses email.
func (s *Store) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&count); err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return count > 0, nil
}

// UpdatePassword stores a new password hash and marks the password as set.
func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, password_set = 1, updated_at = ? WHERE id = ?
	`, passwordHash, types.NewTimestamp(time.Now()).String(), id.String())
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

func scanUser(row scanner) (*store.User, error) {
	var (
		u         store.User
		id        string
		createdAt string
		updatedAt string
	)
	err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &u.PasswordSet, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	if u.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parsing user id: %w", err)
	}
	created, err := types.ParseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	updated, err := types.ParseTimestamp(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	u.CreatedAt, u.UpdatedAt = created.Time, updated.Time
	return &u, nil
}
