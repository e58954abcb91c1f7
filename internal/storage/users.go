package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aatumaykin/coursebot/internal/domain"
)

type UserRepository struct {
	db dbConn
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.conn}
}

const userColumns = `user_id, username, first_name, join_date, is_verified, reminders_enabled`

// Upsert registers a user or refreshes the profile fields of an existing one.
// Verification and reminder preferences are left untouched.
func (r *UserRepository) Upsert(ctx context.Context, userID int64, username, firstName string) error {
	query := `
		INSERT INTO users (user_id, username, first_name)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name
	`
	if _, err := r.db.ExecContext(ctx, query, userID, username, firstName); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, userID int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = ?`, userID)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// IsVerified returns false for unknown users.
func (r *UserRepository) IsVerified(ctx context.Context, userID int64) (bool, error) {
	var verified bool
	err := r.db.QueryRowContext(ctx, `SELECT is_verified FROM users WHERE user_id = ?`, userID).Scan(&verified)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check verification: %w", err)
	}
	return verified, nil
}

func (r *UserRepository) Verify(ctx context.Context, userID int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_verified = 1 WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}
	return expectOne(res, "user", userID)
}

func (r *UserRepository) SetReminders(ctx context.Context, userID int64, enabled bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET reminders_enabled = ? WHERE user_id = ?`, enabled, userID)
	if err != nil {
		return fmt.Errorf("failed to update reminders: %w", err)
	}
	return expectOne(res, "user", userID)
}

// ToggleReminders flips the reminder preference and returns the new value.
func (r *UserRepository) ToggleReminders(ctx context.Context, userID int64) (bool, error) {
	var enabled bool
	err := r.db.QueryRowContext(ctx, `
		UPDATE users SET reminders_enabled = 1 - reminders_enabled
		WHERE user_id = ?
		RETURNING reminders_enabled
	`, userID).Scan(&enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("failed to toggle reminders: %w", err)
	}
	return enabled, nil
}

// ListActiveRecipients returns ids of verified users with reminders enabled.
func (r *UserRepository) ListActiveRecipients(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id FROM users
		WHERE is_verified = 1 AND reminders_enabled = 1
		ORDER BY user_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListVerified returns every verified user regardless of reminder preference.
func (r *UserRepository) ListVerified(ctx context.Context) ([]domain.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE is_verified = 1 ORDER BY user_id`)
}

func (r *UserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY join_date, user_id`)
}

func (r *UserRepository) list(ctx context.Context, query string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	err := s.Scan(&u.ID, &u.Username, &u.FirstName, &u.JoinedAt, &u.Verified, &u.RemindersEnabled)
	return u, err
}

func expectOne(res sql.Result, entity string, id int64) error {
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return nil
}
