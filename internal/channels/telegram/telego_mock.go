package telegram

import (
	"context"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/mock"
)

// MockBot is a testify mock of BotInterface.
type MockBot struct {
	mock.Mock
}

func (m *MockBot) GetMe(ctx context.Context) (*telego.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*telego.User), args.Error(1)
}

func (m *MockBot) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*telego.Message), args.Error(1)
}

func (m *MockBot) SendDocument(ctx context.Context, params *telego.SendDocumentParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*telego.Message), args.Error(1)
}

func (m *MockBot) SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockBot) AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

// UpdatesViaLongPolling expects the first return value to be a chan telego.Update.
func (m *MockBot) UpdatesViaLongPolling(ctx context.Context, params *telego.GetUpdatesParams, opts ...telego.LongPollingOption) (<-chan telego.Update, error) {
	args := m.Called(ctx, params, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(chan telego.Update), args.Error(1)
}

// NewMockBotSuccess creates a MockBot that succeeds on every call except
// long polling. All expectations are optional.
func NewMockBotSuccess() *MockBot {
	m := new(MockBot)
	m.On("GetMe", mock.Anything).Return(&telego.User{ID: 123456789, FirstName: "Course", Username: "course_bot"}, nil).Maybe()
	m.On("SendMessage", mock.Anything, mock.Anything).Return(&telego.Message{MessageID: 1}, nil).Maybe()
	m.On("SendDocument", mock.Anything, mock.Anything).Return(&telego.Message{MessageID: 2}, nil).Maybe()
	m.On("SetMyCommands", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("AnswerCallbackQuery", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

// NewMockBotWithUpdates creates a successful MockBot whose long polling
// delivers updates and then keeps the channel open until ctx ends.
func NewMockBotWithUpdates(updates ...telego.Update) *MockBot {
	m := NewMockBotSuccess()
	ch := make(chan telego.Update, len(updates))
	for _, u := range updates {
		ch <- u
	}
	m.On("UpdatesViaLongPolling", mock.Anything, mock.Anything, mock.Anything).Return(ch, nil)
	return m
}
