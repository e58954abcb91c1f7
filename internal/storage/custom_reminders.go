package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aatumaykin/coursebot/internal/domain"
)

type CustomReminderRepository struct {
	db dbConn
}

func NewCustomReminderRepository(db *DB) *CustomReminderRepository {
	return &CustomReminderRepository{db: db.conn}
}

const customReminderColumns = `reminder_id, user_id, remind_at, message, is_sent, created_at`

func (r *CustomReminderRepository) Add(ctx context.Context, userID int64, remindAt, message string) (domain.CustomReminder, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO custom_reminders (user_id, remind_at, message) VALUES (?, ?, ?)`,
		userID, remindAt, message)
	if err != nil {
		return domain.CustomReminder{}, fmt.Errorf("failed to add reminder: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.CustomReminder{}, fmt.Errorf("failed to get reminder id: %w", err)
	}
	return domain.CustomReminder{ID: id, UserID: userID, RemindAt: remindAt, Message: message}, nil
}

func (r *CustomReminderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.CustomReminder, error) {
	return r.query(ctx, `SELECT `+customReminderColumns+` FROM custom_reminders
		WHERE user_id = ? ORDER BY remind_at, reminder_id`, userID)
}

// ListPending returns reminders that have not been delivered yet.
func (r *CustomReminderRepository) ListPending(ctx context.Context) ([]domain.CustomReminder, error) {
	return r.query(ctx, `SELECT `+customReminderColumns+` FROM custom_reminders
		WHERE is_sent = 0 ORDER BY remind_at, reminder_id`)
}

func (r *CustomReminderRepository) MarkSent(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE custom_reminders SET is_sent = 1 WHERE reminder_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return expectOne(res, "reminder", id)
}

// Delete removes a reminder owned by userID.
func (r *CustomReminderRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM custom_reminders WHERE reminder_id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return expectOne(res, "reminder", id)
}

// PurgeSent deletes delivered reminders created before cutoff.
func (r *CustomReminderRepository) PurgeSent(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM custom_reminders WHERE is_sent = 1 AND created_at < ?`, sqlTimestamp(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to purge reminders: %w", err)
	}
	return rowsAffected(res)
}

func (r *CustomReminderRepository) query(ctx context.Context, query string, args ...any) ([]domain.CustomReminder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	var list []domain.CustomReminder
	for rows.Next() {
		var c domain.CustomReminder
		if err := rows.Scan(&c.ID, &c.UserID, &c.RemindAt, &c.Message, &c.Sent, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
