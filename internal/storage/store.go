package storage

// Store groups the repositories backed by one database.
type Store struct {
	DB              *DB
	Users           *UserRepository
	Courses         *CourseRepository
	Lessons         *LessonRepository
	Attendance      *AttendanceRepository
	Announcements   *AnnouncementRepository
	Assignments     *AssignmentRepository
	Feedback        *FeedbackRepository
	CustomReminders *CustomReminderRepository
	Stats           *StatsRepository
}

func New(db *DB) *Store {
	return &Store{
		DB:              db,
		Users:           NewUserRepository(db),
		Courses:         NewCourseRepository(db),
		Lessons:         NewLessonRepository(db),
		Attendance:      NewAttendanceRepository(db),
		Announcements:   NewAnnouncementRepository(db),
		Assignments:     NewAssignmentRepository(db),
		Feedback:        NewFeedbackRepository(db),
		CustomReminders: NewCustomReminderRepository(db),
		Stats:           NewStatsRepository(db),
	}
}

// OpenStore opens the database at path and applies pending migrations.
func OpenStore(path string) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
