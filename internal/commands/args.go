package commands

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aatumaykin/coursebot/internal/domain"
)

var errUsage = errors.New("invalid command arguments")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(s) != ""
	})
	return v
}

type idArgs struct {
	ID int64 `validate:"gt=0"`
}

type feedbackArgs struct {
	Text string `validate:"notblank,min=5,max=500"`
}

type publishArgs struct {
	Text string `validate:"notblank,max=1000"`
}

type verifyArgs struct {
	Code string `validate:"notblank,max=64"`
}

type submitArgs struct {
	AssignmentID int64  `validate:"gt=0"`
	Answer       string `validate:"notblank,max=500"`
}

type settingsArgs struct {
	Setting string `validate:"oneof=reminders"`
	Value   string `validate:"oneof=on off"`
}

type addReminderArgs struct {
	Date    string `validate:"datetime=2006-01-02"`
	Time    string `validate:"datetime=15:04"`
	Message string `validate:"notblank,max=500"`
}

type broadcastArgs struct {
	Target string `validate:"oneof=group users"`
	Text   string `validate:"notblank"`
}

type courseArgs struct {
	ID          int64
	Name        string `validate:"notblank,max=100"`
	Description string `validate:"max=1000"`
}

type lessonArgs struct {
	CourseID int64  `validate:"gt=0"`
	Date     string `validate:"datetime=2006-01-02"`
	Time     string `validate:"datetime=15:04"`
	Title    string `validate:"notblank,max=200"`
	JoinLink string `validate:"omitempty,url"`
}

type assignmentArgs struct {
	CourseID      int64  `validate:"gt=0"`
	Title         string `validate:"notblank,max=200"`
	Question      string `validate:"notblank,max=1000"`
	CorrectAnswer string `validate:"notblank,max=500"`
	Deadline      string `validate:"omitempty,datetime=2006-01-02"`
}

type updateAssignmentArgs struct {
	ID    int64  `validate:"gt=0"`
	Field string `validate:"oneof=title question correct_answer deadline"`
	Value string `validate:"notblank"`
}

// invalidField reports whether err failed validation on one of fields.
func invalidField(err error, fields ...string) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		for _, f := range fields {
			if fe.Field() == f {
				return true
			}
		}
	}
	return false
}

func check(v any) error {
	if err := validate.Struct(v); err != nil {
		return errors.Join(errUsage, err)
	}
	return nil
}

// splitN splits s on whitespace into at most n fields; the last keeps its spaces.
func splitN(s string, n int) []string {
	var out []string
	s = strings.TrimSpace(s)
	for len(out) < n-1 && s != "" {
		i := strings.IndexAny(s, " \t\n")
		if i < 0 {
			break
		}
		out = append(out, s[:i])
		s = strings.TrimSpace(s[i:])
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// splitPipe splits on "|" and trims every part.
func splitPipe(s string) []string {
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func parseIDArgs(args string) (idArgs, error) {
	a := idArgs{ID: parseID(args)}
	return a, check(a)
}

func parseFeedbackArgs(args string) (feedbackArgs, error) {
	a := feedbackArgs{Text: strings.TrimSpace(args)}
	return a, check(a)
}

func parsePublishArgs(args string) (publishArgs, error) {
	a := publishArgs{Text: strings.TrimSpace(args)}
	return a, check(a)
}

func parseVerifyArgs(args string) (verifyArgs, error) {
	a := verifyArgs{Code: strings.TrimSpace(args)}
	return a, check(a)
}

func parseSubmitArgs(args string) (submitArgs, error) {
	var a submitArgs
	if f := splitN(args, 2); len(f) == 2 {
		a = submitArgs{AssignmentID: parseID(f[0]), Answer: f[1]}
	}
	return a, check(a)
}

func parseSettingsArgs(args string) (settingsArgs, error) {
	var a settingsArgs
	if f := strings.Fields(strings.ToLower(args)); len(f) == 2 {
		a = settingsArgs{Setting: f[0], Value: f[1]}
	}
	return a, check(a)
}

func parseAddReminderArgs(args string) (addReminderArgs, error) {
	var a addReminderArgs
	if f := splitN(args, 3); len(f) == 3 {
		a = addReminderArgs{Date: f[0], Time: f[1], Message: f[2]}
	}
	return a, check(a)
}

func parseBroadcastArgs(args string) (broadcastArgs, error) {
	var a broadcastArgs
	if f := splitN(args, 2); len(f) == 2 {
		a = broadcastArgs{Target: strings.ToLower(f[0]), Text: f[1]}
	}
	return a, check(a)
}

// parseAddCourseArgs reads "name | description".
func parseAddCourseArgs(args string) (courseArgs, error) {
	parts := splitPipe(args)
	a := courseArgs{Name: parts[0]}
	if len(parts) > 1 {
		a.Description = strings.Join(parts[1:], " | ")
	}
	return a, check(a)
}

// parseUpdateCourseArgs reads "id name | description".
func parseUpdateCourseArgs(args string) (courseArgs, error) {
	f := splitN(args, 2)
	if len(f) != 2 {
		return courseArgs{}, check(courseArgs{})
	}
	a, err := parseAddCourseArgs(f[1])
	a.ID = parseID(f[0])
	if err != nil {
		return a, err
	}
	if a.ID <= 0 {
		return a, errUsage
	}
	return a, nil
}

// parseLessonArgs reads "course_id YYYY-MM-DD HH:MM title | link".
func parseLessonArgs(args string) (lessonArgs, error) {
	var a lessonArgs
	if f := splitN(args, 4); len(f) == 4 {
		parts := splitPipe(f[3])
		a = lessonArgs{CourseID: parseID(f[0]), Date: f[1], Time: f[2], Title: parts[0]}
		if len(parts) > 1 {
			a.JoinLink = parts[1]
		}
	}
	return a, check(a)
}

func (a lessonArgs) lesson() domain.Lesson {
	return domain.Lesson{CourseID: a.CourseID, Title: a.Title, Date: a.Date, Time: a.Time, JoinLink: a.JoinLink}
}

// parseAssignmentArgs reads "course_id | title | question | answer | deadline".
func parseAssignmentArgs(args string) (assignmentArgs, error) {
	var a assignmentArgs
	parts := splitPipe(args)
	if len(parts) == 4 || len(parts) == 5 {
		a = assignmentArgs{CourseID: parseID(parts[0]), Title: parts[1], Question: parts[2], CorrectAnswer: parts[3]}
		if len(parts) == 5 {
			a.Deadline = parts[4]
		}
	}
	return a, check(a)
}

func (a assignmentArgs) assignment() domain.Assignment {
	return domain.Assignment{
		CourseID:      a.CourseID,
		Title:         a.Title,
		Question:      a.Question,
		CorrectAnswer: a.CorrectAnswer,
		Deadline:      a.Deadline,
	}
}

func parseUpdateAssignmentArgs(args string) (updateAssignmentArgs, error) {
	var a updateAssignmentArgs
	if f := splitN(args, 3); len(f) == 3 {
		a = updateAssignmentArgs{ID: parseID(f[0]), Field: strings.ToLower(f[1]), Value: f[2]}
	}
	return a, check(a)
}
