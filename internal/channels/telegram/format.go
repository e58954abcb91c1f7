package telegram

import (
	"strings"

	"github.com/mymmrac/telego"

	"github.com/aatumaykin/coursebot/internal/channels"
)

const markupChars = "*_~`|"

// stripMarkdownV2 turns MarkdownV2 text into plain text. Escapes are
// resolved, markup characters dropped and links rendered as "text (url)".
// Zero-width mention links disappear entirely.
func stripMarkdownV2(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			i++
			b.WriteRune(runes[i])
		case r == '[':
			text, url, next, ok := parseLink(runes, i)
			if !ok {
				b.WriteRune(r)
				continue
			}
			i = next
			text = stripMarkdownV2(text)
			if strings.Trim(text, " \u200b\u200c") == "" {
				continue
			}
			b.WriteString(text)
			if !strings.HasPrefix(url, "tg://") {
				b.WriteString(" (" + url + ")")
			}
		case strings.ContainsRune(markupChars, r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseLink reads "[text](url)" starting at runes[start] and returns the
// index of the closing parenthesis.
func parseLink(runes []rune, start int) (text, url string, end int, ok bool) {
	closeText := findUnescaped(runes, start+1, ']')
	if closeText < 0 || closeText+1 >= len(runes) || runes[closeText+1] != '(' {
		return "", "", 0, false
	}
	closeURL := findUnescaped(runes, closeText+2, ')')
	if closeURL < 0 {
		return "", "", 0, false
	}
	text = string(runes[start+1 : closeText])
	url = strings.NewReplacer(`\)`, ")", `\\`, `\`).Replace(string(runes[closeText+2 : closeURL]))
	return text, url, closeURL, true
}

func findUnescaped(runes []rune, from int, target rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == '\\' {
			i++
			continue
		}
		if runes[i] == target {
			return i
		}
	}
	return -1
}

// inlineKeyboard converts rows of buttons to a Telegram inline keyboard.
func inlineKeyboard(rows [][]channels.Button) *telego.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	markup := &telego.InlineKeyboardMarkup{InlineKeyboard: make([][]telego.InlineKeyboardButton, 0, len(rows))}
	for _, row := range rows {
		buttons := make([]telego.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, telego.InlineKeyboardButton{Text: btn.Text, CallbackData: btn.Data})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
	}
	return markup
}
