package storage

import (
	"context"
	"fmt"

	"github.com/aatumaykin/coursebot/internal/domain"
)

type StatsRepository struct {
	db dbConn
}

func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db.conn}
}

// Collect builds the admin statistics snapshot.
func (r *StatsRepository) Collect(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(is_verified), 0),
			COALESCE(SUM(CASE WHEN is_verified = 1 AND reminders_enabled = 1 THEN 1 ELSE 0 END), 0)
		FROM users
	`).Scan(&s.TotalUsers, &s.VerifiedUsers, &s.RemindersEnabled)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT l.lesson_id, l.title, COUNT(a.user_id)
		FROM lessons l LEFT JOIN attendance a ON a.lesson_id = l.lesson_id
		GROUP BY l.lesson_id
		ORDER BY l.date, l.time, l.lesson_id
	`)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("failed to count attendance: %w", err)
	}
	for rows.Next() {
		var la domain.LessonAttendance
		if err := rows.Scan(&la.LessonID, &la.Title, &la.Count); err != nil {
			rows.Close()
			return domain.Stats{}, fmt.Errorf("failed to scan attendance: %w", err)
		}
		s.AttendanceByLesson = append(s.AttendanceByLesson, la)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.Stats{}, err
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT a.assignment_id, a.title, COUNT(s.user_id)
		FROM assignments a LEFT JOIN submissions s ON s.assignment_id = a.assignment_id
		GROUP BY a.assignment_id
		ORDER BY a.assignment_id
	`)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("failed to count submissions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var as domain.AssignmentSubmissions
		if err := rows.Scan(&as.AssignmentID, &as.Title, &as.Count); err != nil {
			return domain.Stats{}, fmt.Errorf("failed to scan submissions: %w", err)
		}
		s.SubmissionsByAssignment = append(s.SubmissionsByAssignment, as)
	}
	return s, rows.Err()
}
