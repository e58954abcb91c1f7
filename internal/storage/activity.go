package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aatumaykin/coursebot/internal/domain"
)

type AttendanceRepository struct {
	db dbConn
}

func NewAttendanceRepository(db *DB) *AttendanceRepository {
	return &AttendanceRepository{db: db.conn}
}

// Mark records attendance. Marking twice is not an error; the first
// timestamp is kept. The returned flag is false for a repeated mark.
func (r *AttendanceRepository) Mark(ctx context.Context, userID, lessonID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO attendance (user_id, lesson_id) VALUES (?, ?)`, userID, lessonID)
	if err != nil {
		return false, fmt.Errorf("failed to mark attendance: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *AttendanceRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return n, nil
}

type AnnouncementRepository struct {
	db dbConn
}

func NewAnnouncementRepository(db *DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db.conn}
}

func (r *AnnouncementRepository) Add(ctx context.Context, content string, sentToGroup bool) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO announcements (content, sent_to_group) VALUES (?, ?)`, content, sentToGroup)
	if err != nil {
		return 0, fmt.Errorf("failed to add announcement: %w", err)
	}
	return res.LastInsertId()
}

func (r *AnnouncementRepository) ListRecent(ctx context.Context, limit int) ([]domain.Announcement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT announcement_id, content, published_at, sent_to_group
		FROM announcements ORDER BY announcement_id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	var list []domain.Announcement
	for rows.Next() {
		var a domain.Announcement
		if err := rows.Scan(&a.ID, &a.Content, &a.PublishedAt, &a.SentToGroup); err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// PurgeBefore deletes announcements published before cutoff.
func (r *AnnouncementRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM announcements WHERE published_at < ?`, sqlTimestamp(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to purge announcements: %w", err)
	}
	return rowsAffected(res)
}

type FeedbackRepository struct {
	db dbConn
}

func NewFeedbackRepository(db *DB) *FeedbackRepository {
	return &FeedbackRepository{db: db.conn}
}

func (r *FeedbackRepository) Add(ctx context.Context, userID int64, kind domain.FeedbackKind, text string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback (user_id, kind, message) VALUES (?, ?, ?)`, userID, string(kind), text)
	if err != nil {
		return 0, fmt.Errorf("failed to add feedback: %w", err)
	}
	return res.LastInsertId()
}

// ListRecent returns the newest entries first.
func (r *FeedbackRepository) ListRecent(ctx context.Context, limit int) ([]domain.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT feedback_id, user_id, kind, message, created_at
		FROM feedback ORDER BY feedback_id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var list []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		var kind string
		if err := rows.Scan(&f.ID, &f.UserID, &kind, &f.Text, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		f.Kind = domain.FeedbackKind(kind)
		list = append(list, f)
	}
	return list, rows.Err()
}
