package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aatumaykin/coursebot/internal/domain"
)

type AssignmentRepository struct {
	db *DB
}

func NewAssignmentRepository(db *DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = `assignment_id, course_id, title, question, correct_answer, deadline`

func (r *AssignmentRepository) Add(ctx context.Context, a domain.Assignment) (int64, error) {
	res, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO assignments (course_id, title, question, correct_answer, deadline)
		VALUES (?, ?, ?, ?, ?)
	`, a.CourseID, a.Title, a.Question, a.CorrectAnswer, a.Deadline)
	if err != nil {
		return 0, fmt.Errorf("failed to add assignment: %w", err)
	}
	return res.LastInsertId()
}

// Update sets a single field. Only domain.AssignmentFields are accepted.
func (r *AssignmentRepository) Update(ctx context.Context, id int64, field, value string) error {
	if !domain.IsAssignmentField(field) {
		return fmt.Errorf("invalid assignment field %q", field)
	}
	// field is whitelisted above
	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE assignments SET `+field+` = ? WHERE assignment_id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	return expectOne(res, "assignment", id)
}

func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM assignments WHERE assignment_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return expectOne(res, "assignment", id)
}

func (r *AssignmentRepository) Get(ctx context.Context, id int64) (domain.Assignment, error) {
	var a domain.Assignment
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE assignment_id = ?`, id,
	).Scan(&a.ID, &a.CourseID, &a.Title, &a.Question, &a.CorrectAnswer, &a.Deadline)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Assignment{}, fmt.Errorf("assignment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

// List returns assignments newest first.
func (r *AssignmentRepository) List(ctx context.Context) ([]domain.Assignment, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments ORDER BY assignment_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var list []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.ID, &a.CourseID, &a.Title, &a.Question, &a.CorrectAnswer, &a.Deadline); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Submit grades and stores an answer, replacing any earlier submission.
func (r *AssignmentRepository) Submit(ctx context.Context, userID, assignmentID int64, answer string) (domain.Submission, domain.Assignment, error) {
	var (
		sub        domain.Submission
		assignment domain.Assignment
	)
	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT `+assignmentColumns+` FROM assignments WHERE assignment_id = ?`, assignmentID,
		).Scan(&assignment.ID, &assignment.CourseID, &assignment.Title, &assignment.Question, &assignment.CorrectAnswer, &assignment.Deadline)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("assignment %d: %w", assignmentID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get assignment: %w", err)
		}

		score := 0
		if domain.CheckAnswer(answer, assignment.CorrectAnswer) {
			score = 1
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO submissions (user_id, assignment_id, answer, score)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(user_id, assignment_id) DO UPDATE SET
				answer = excluded.answer,
				score = excluded.score,
				submitted_at = CURRENT_TIMESTAMP
		`, userID, assignmentID, answer, score); err != nil {
			return fmt.Errorf("failed to save submission: %w", err)
		}

		sub = domain.Submission{UserID: userID, AssignmentID: assignmentID, Answer: answer, Score: score}
		return nil
	})
	return sub, assignment, err
}

func (r *AssignmentRepository) CountSubmissions(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submissions WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return n, nil
}
