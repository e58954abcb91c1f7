package constants

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultVersion(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^\d+\.\d+\.\d+(-[\w\.-]+)?$`), DefaultVersion)
}

func TestDefaultUnknownValues(t *testing.T) {
	for _, v := range []string{DefaultBuildTime, DefaultGitCommit, DefaultGoVersion} {
		assert.Equal(t, "unknown", v)
	}
}

func TestMessageTemplates(t *testing.T) {
	t.Run("reminder ends with signature", func(t *testing.T) {
		assert.True(t, strings.HasSuffix(MsgLessonReminder, BotSignature))
	})

	t.Run("invisible mention uses zero width non-joiner", func(t *testing.T) {
		assert.Contains(t, MsgInvisibleMention, "\u200c")
		assert.Contains(t, MsgInvisibleMention, "tg://user?id=%d")
	})

	t.Run("summary counts", func(t *testing.T) {
		assert.Equal(t, 2, strings.Count(MsgReminderSummary, "%d"))
	})
}
