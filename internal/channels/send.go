package channels

import "context"

// Button is an inline keyboard button carrying callback data.
type Button struct {
	Text string
	Data string
}

// SendOptions controls how a text message is rendered.
type SendOptions struct {
	// Markdown sends the text with MarkdownV2 parse mode.
	Markdown bool
	// DisablePreview suppresses link previews.
	DisablePreview bool
	// Keyboard is attached as an inline keyboard, one slice per row.
	Keyboard [][]Button
}

// ReminderSendOptions are used for reminder and announcement fan-outs.
var ReminderSendOptions = SendOptions{Markdown: true, DisablePreview: true}

// Sender delivers a text message to a chat (user, group or channel).
type Sender interface {
	SendToChat(ctx context.Context, chatID int64, text string, opts SendOptions) error
}
