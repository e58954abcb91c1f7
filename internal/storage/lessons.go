package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aatumaykin/coursebot/internal/domain"
)

type LessonRepository struct {
	db dbConn
}

func NewLessonRepository(db *DB) *LessonRepository {
	return &LessonRepository{db: db.conn}
}

const lessonColumns = `lesson_id, course_id, title, date, time, zoom_link`

func (r *LessonRepository) Add(ctx context.Context, l domain.Lesson) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO lessons (course_id, title, date, time, zoom_link) VALUES (?, ?, ?, ?, ?)`,
		l.CourseID, l.Title, l.Date, l.Time, l.JoinLink)
	if err != nil {
		return 0, fmt.Errorf("failed to add lesson: %w", err)
	}
	return res.LastInsertId()
}

func (r *LessonRepository) Get(ctx context.Context, id int64) (domain.Lesson, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE lesson_id = ?`, id)
	l, err := scanLesson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Lesson{}, fmt.Errorf("lesson %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("failed to get lesson: %w", err)
	}
	return l, nil
}

// List returns all stored lessons ordered by start.
func (r *LessonRepository) List(ctx context.Context) ([]domain.Lesson, error) {
	return r.query(ctx, `SELECT `+lessonColumns+` FROM lessons ORDER BY date, time, lesson_id`)
}

// ListUpcoming returns lessons starting at or after now, at most limit of them.
// Dates and times are compared as text, which is ordered for YYYY-MM-DD and HH:MM.
func (r *LessonRepository) ListUpcoming(ctx context.Context, now time.Time, limit int) ([]domain.Lesson, error) {
	return r.query(ctx, `
		SELECT `+lessonColumns+` FROM lessons
		WHERE date > ? OR (date = ? AND time >= ?)
		ORDER BY date, time, lesson_id
		LIMIT ?
	`, now.Format(domain.DateLayout), now.Format(domain.DateLayout), now.Format(domain.TimeLayout), limit)
}

func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE lesson_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	return expectOne(res, "lesson", id)
}

func (r *LessonRepository) query(ctx context.Context, query string, args ...any) ([]domain.Lesson, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []domain.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func scanLesson(s scanner) (domain.Lesson, error) {
	var l domain.Lesson
	err := s.Scan(&l.ID, &l.CourseID, &l.Title, &l.Date, &l.Time, &l.JoinLink)
	return l, err
}
