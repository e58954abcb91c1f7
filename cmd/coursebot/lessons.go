package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/coursebot/internal/app/builders"
	"github.com/aatumaykin/coursebot/internal/config"
	"github.com/aatumaykin/coursebot/internal/domain"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/reminders"
	"github.com/aatumaykin/coursebot/internal/storage"
)

// lessonsCmd groups read-only lesson commands.
var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Inspect lessons and their reminders",
}

var lessonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored and configured lessons",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		lessons, err := lessonSource(cfg, store).ListLessons(cmd.Context())
		if err != nil {
			return err
		}
		return printLessons(cmd.OutOrStdout(), lessons)
	},
}

var lessonsPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the reminder jobs that would be armed now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		loc, err := cfg.Course.Location()
		if err != nil {
			return err
		}
		jobs, err := previewJobs(cmd.Context(), cfg, lessonSource(cfg, store), time.Now().In(loc), loc)
		if err != nil {
			return err
		}
		return printJobs(cmd.OutOrStdout(), jobs)
	},
}

func init() {
	lessonsCmd.AddCommand(lessonsListCmd)
	lessonsCmd.AddCommand(lessonsPreviewCmd)
}

func openStore() (*config.Config, *storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.OpenStore(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

func lessonSource(cfg *config.Config, store *storage.Store) *reminders.LessonSource {
	return reminders.NewLessonSource(store.Lessons, builders.StaticLessons(cfg.Schedule.Lessons))
}

// frozenClock never fires; it only lets a Scheduler compute fire times.
type frozenClock struct{ now time.Time }

func (c frozenClock) Now() time.Time { return c.now }

func (c frozenClock) Schedule(time.Time, func()) func() bool {
	return func() bool { return true }
}

type discardNotifier struct{}

func (discardNotifier) Dispatch(context.Context, string, reminders.DispatchOptions) (reminders.Result, error) {
	return reminders.Result{}, nil
}

// previewJobs runs the real scheduling rules against a clock frozen at now.
func previewJobs(ctx context.Context, cfg *config.Config, lessons reminders.LessonLoader, now time.Time, loc *time.Location) ([]reminders.JobInfo, error) {
	s := reminders.NewScheduler(frozenClock{now: now}, lessons, discardNotifier{}, nil, reminders.SchedulerConfig{
		Location:        loc,
		DefaultJoinLink: cfg.Course.DefaultJoinLink,
	}, logger.Nop())
	defer s.Shutdown()

	if _, err := s.ScheduleAll(ctx); err != nil {
		return nil, err
	}
	return s.Jobs(), nil
}

func printLessons(w io.Writer, lessons []domain.Lesson) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tCOURSE\tDATE\tTIME\tTITLE")
	for _, l := range lessons {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", l.Key(), l.CourseID, l.Date, l.Time, l.Title)
	}
	return tw.Flush()
}

func printJobs(w io.Writer, jobs []reminders.JobInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tFIRES AT\tLESSON")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", j.Key, j.FireAt.Format("2006-01-02 15:04 MST"), j.Lesson.Title)
	}
	if len(jobs) == 0 {
		fmt.Fprintln(tw, "(none)\t\t")
	}
	return tw.Flush()
}
