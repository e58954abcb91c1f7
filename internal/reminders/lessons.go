package reminders

import (
	"context"
	"fmt"

	"github.com/aatumaykin/coursebot/internal/domain"
)

// LessonLoader provides the lessons reminders are armed for.
type LessonLoader interface {
	ListLessons(ctx context.Context) ([]domain.Lesson, error)
}

// LessonLister is the stored lesson list.
type LessonLister interface {
	List(ctx context.Context) ([]domain.Lesson, error)
}

// LessonSource merges stored lessons with lessons declared in configuration.
type LessonSource struct {
	store  LessonLister
	static []domain.Lesson
}

// NewLessonSource creates a LessonSource. store may be nil.
func NewLessonSource(store LessonLister, static []domain.Lesson) *LessonSource {
	return &LessonSource{store: store, static: static}
}

// ListLessons returns stored lessons followed by static lessons not present in storage.
func (s *LessonSource) ListLessons(ctx context.Context) ([]domain.Lesson, error) {
	var stored []domain.Lesson
	if s.store != nil {
		var err error
		stored, err = s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load lessons: %w", err)
		}
	}
	return domain.MergeLessons(stored, s.static), nil
}
