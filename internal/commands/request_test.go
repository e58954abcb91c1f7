package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/coursebot/internal/constants"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		command string
		args    string
		ok      bool
	}{
		{"plain", "/start", "start", "", true},
		{"with args", "/verify  ABC123 ", "verify", "ABC123", true},
		{"bot mention", "/Help@coursebot", "help", "", true},
		{"mention and args", "/submit@coursebot 3 Cairo", "submit", "3 Cairo", true},
		{"newline args", "/publish\nline one\nline two", "publish", "line one\nline two", true},
		{"not a command", "hello", "", "", false},
		{"bare slash", "/", "", "", false},
		{"empty", "   ", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, args, ok := ParseCommand(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.command, command)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestCommandForCallback(t *testing.T) {
	cmd, ok := CommandForCallback(constants.CallbackToggleReminders)
	require.True(t, ok)
	assert.Equal(t, constants.CommandReminders, cmd)

	cmd, ok = CommandForCallback(constants.CommandProfile)
	require.True(t, ok)
	assert.Equal(t, constants.CommandProfile, cmd)

	_, ok = CommandForCallback(constants.CommandPublish)
	assert.False(t, ok)
}

func TestSplitN(t *testing.T) {
	assert.Equal(t, []string{"1", "2025-01-01", "18:00 long title here"}, splitN("1 2025-01-01  18:00 long title here", 3))
	assert.Equal(t, []string{"only"}, splitN(" only ", 3))
	assert.Empty(t, splitN("", 2))
}

func TestArgs(t *testing.T) {
	t.Run("lesson with link", func(t *testing.T) {
		a, err := parseLessonArgs("3 2025-02-01 18:30 Intro to Tajweed | https://zoom.example/j/1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), a.CourseID)
		assert.Equal(t, "Intro to Tajweed", a.Title)
		assert.Equal(t, "https://zoom.example/j/1", a.lesson().JoinLink)
	})

	t.Run("lesson bad time", func(t *testing.T) {
		_, err := parseLessonArgs("3 2025-02-01 25:00 Intro")
		require.ErrorIs(t, err, errUsage)
		assert.True(t, invalidField(err, "Time"))
		assert.False(t, invalidField(err, "Date"))
	})

	t.Run("update course keeps pipes in description", func(t *testing.T) {
		a, err := parseUpdateCourseArgs("4 Name | a | b")
		require.NoError(t, err)
		assert.Equal(t, int64(4), a.ID)
		assert.Equal(t, "Name", a.Name)
		assert.Equal(t, "a | b", a.Description)
	})

	t.Run("update course needs an id", func(t *testing.T) {
		_, err := parseUpdateCourseArgs("abc Name")
		assert.ErrorIs(t, err, errUsage)
	})

	t.Run("feedback counts characters", func(t *testing.T) {
		_, err := parseFeedbackArgs("شكرا جزيلا")
		assert.NoError(t, err)
		_, err = parseFeedbackArgs("شكرا")
		assert.True(t, invalidField(err, "Text"))
	})

	t.Run("blank answer", func(t *testing.T) {
		_, err := parseSubmitArgs("2    ")
		assert.ErrorIs(t, err, errUsage)
	})

	t.Run("settings", func(t *testing.T) {
		a, err := parseSettingsArgs("Reminders OFF")
		require.NoError(t, err)
		assert.Equal(t, "off", a.Value)
		_, err = parseSettingsArgs("theme dark")
		assert.Error(t, err)
	})
}
