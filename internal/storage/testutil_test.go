package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/coursebot/internal/domain"
)

// setupTestStore opens a migrated in-memory database.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenStore(":memory:")
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func addVerifiedUser(t *testing.T, s *Store, id int64, name string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Users.Upsert(ctx, id, name, name))
	require.NoError(t, s.Users.Verify(ctx, id))
}

func addLesson(t *testing.T, s *Store, title, date, clock string) int64 {
	t.Helper()
	id, err := s.Lessons.Add(context.Background(), domain.Lesson{
		CourseID: 1,
		Title:    title,
		Date:     date,
		Time:     clock,
		JoinLink: "https://zoom.example/j/1",
	})
	require.NoError(t, err)
	return id
}
