package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aatumaykin/coursebot/internal/domain"
)

type CourseRepository struct {
	db *DB
}

func NewCourseRepository(db *DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Add(ctx context.Context, name, description string) (int64, error) {
	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO courses (name, description) VALUES (?, ?)`, name, description)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("course %q: %w", name, ErrAlreadyExists)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add course: %w", err)
	}
	return res.LastInsertId()
}

func (r *CourseRepository) Get(ctx context.Context, id int64) (domain.Course, error) {
	var c domain.Course
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT course_id, name, description, created_at FROM courses WHERE course_id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Course{}, fmt.Errorf("course %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Course{}, fmt.Errorf("failed to get course: %w", err)
	}
	return c, nil
}

func (r *CourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT course_id, name, description, created_at FROM courses ORDER BY course_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *CourseRepository) Update(ctx context.Context, id int64, name, description string) error {
	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE courses SET name = ?, description = ? WHERE course_id = ?`, name, description, id)
	if isUniqueViolation(err) {
		return fmt.Errorf("course %q: %w", name, ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return expectOne(res, "course", id)
}

// Delete removes a course together with its lessons and assignments. It returns the
// ids of the deleted lessons so their reminders can be cancelled.
func (r *CourseRepository) Delete(ctx context.Context, id int64) ([]int64, error) {
	var lessonIDs []int64
	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT lesson_id FROM lessons WHERE course_id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to list course lessons: %w", err)
		}
		for rows.Next() {
			var lessonID int64
			if err := rows.Scan(&lessonID); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan lesson id: %w", err)
			}
			lessonIDs = append(lessonIDs, lessonID)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM lessons WHERE course_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete course lessons: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE course_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete course assignments: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE course_id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete course: %w", err)
		}
		return expectOne(res, "course", id)
	})
	if err != nil {
		return nil, err
	}
	return lessonIDs, nil
}
