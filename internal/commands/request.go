package commands

import (
	"strings"
	"unicode"

	"github.com/aatumaykin/coursebot/internal/constants"
)

// Request is an incoming command, from a message or an inline button.
type Request struct {
	UserID    int64
	Username  string
	FirstName string
	ChatID    int64
	// Command is lower case without the slash and bot mention.
	Command string
	// Args is the trimmed text following the command.
	Args string
	// CallbackID is set when the request came from an inline button.
	CallbackID string
}

// ParseCommand splits "/cmd@bot args" into its command and argument parts.
// ok is false when text is not a command.
func ParseCommand(text string) (command, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	head := text[1:]
	if i := strings.IndexFunc(head, unicode.IsSpace); i >= 0 {
		head, args = head[:i], strings.TrimSpace(head[i:])
	}
	if i := strings.IndexByte(head, '@'); i >= 0 {
		head = head[:i]
	}
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), args, true
}

// CommandForCallback maps inline button data to the command it triggers.
func CommandForCallback(data string) (string, bool) {
	switch data {
	case constants.CommandProfile, constants.CommandCourses, constants.CommandAssignments,
		constants.CommandFAQ, constants.CommandHelp, constants.CommandReminders,
		constants.CallbackVerify, constants.CallbackSupport:
		return data, true
	case constants.CallbackToggleReminders:
		return constants.CommandReminders, true
	}
	return "", false
}
