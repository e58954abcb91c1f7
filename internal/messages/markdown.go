// Package messages renders the bot's Telegram texts. All output is MarkdownV2.
package messages

import (
	"fmt"
	"strings"

	"github.com/aatumaykin/coursebot/internal/constants"
)

// markdownV2Replacer escapes the backslash first, then every reserved character.
var markdownV2Replacer = strings.NewReplacer(
	`\`, `\\`,
	"_", `\_`, "*", `\*`, "[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`,
	"~", `\~`, "`", "\\`", ">", `\>`, "#", `\#`, "+", `\+`, "-", `\-`,
	"=", `\=`, "|", `\|`, "{", `\{`, "}", `\}`, ".", `\.`, "!", `\!`,
)

// linkURLReplacer escapes the characters reserved inside (...) of an inline link.
var linkURLReplacer = strings.NewReplacer(`\`, `\\`, ")", `\)`)

// EscapeMarkdownV2 makes text safe to embed in a MarkdownV2 message.
func EscapeMarkdownV2(text string) string {
	return markdownV2Replacer.Replace(text)
}

// EscapeLinkURL escapes a URL for the target part of an inline link.
func EscapeLinkURL(url string) string {
	return linkURLReplacer.Replace(url)
}

// Mention returns an invisible mention that notifies userID.
func Mention(userID int64) string {
	return fmt.Sprintf(constants.MsgInvisibleMention, userID)
}

// Mentions concatenates invisible mentions for all ids.
func Mentions(userIDs []int64) string {
	var b strings.Builder
	for _, id := range userIDs {
		b.WriteString(Mention(id))
	}
	return b.String()
}

// orNA substitutes the "not available" label for empty values.
func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return constants.MsgNotAvailable
	}
	return s
}
