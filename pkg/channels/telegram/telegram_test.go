package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lampbot/pkg/commands"
	"lampbot/pkg/config"
	"lampbot/pkg/logger"
)

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.MessageConfig
	requests []tgbotapi.Chattable
	sendErr  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type fakeDispatcher struct {
	texts []string
	resp  commands.CommandResponse
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, text, deviceID string) commands.CommandResponse {
	f.texts = append(f.texts, text)
	return f.resp
}

func newTestChannel(t *testing.T, cfg config.TelegramConfig, d Dispatcher) (*Channel, *fakeBot) {
	t.Helper()
	if cfg.Token == "" {
		cfg.Token = "test-token"
	}
	if cfg.MaxMessageLength == 0 {
		cfg.MaxMessageLength = 1000
	}
	ch, err := New(logger.NewNop(), d, commands.NewRegistry(), &cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bot := &fakeBot{}
	ch.setClient(nil, bot)
	return ch, bot
}

func textMessage(chatID, userID int64, username, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chatID, Type: "private"},
		From:      &tgbotapi.User{ID: userID, UserName: username},
		Text:      text,
	}
}

func TestNew_RequiresToken(t *testing.T) {
	if _, err := New(logger.NewNop(), &fakeDispatcher{}, commands.NewRegistry(), &config.TelegramConfig{}); err == nil {
		t.Fatalf("expected error without token")
	}
}

func TestHandleMessage_SendsEveryPart(t *testing.T) {
	d := &fakeDispatcher{resp: commands.CommandResponse{Parts: []string{"page 1", "page 2"}}}
	ch, bot := newTestChannel(t, config.TelegramConfig{}, d)

	ch.handleMessage(textMessage(42, 7, "alice", "  /devices  "))

	if len(d.texts) != 1 || d.texts[0] != "/devices" {
		t.Fatalf("unexpected dispatched text: %v", d.texts)
	}
	if len(bot.sent) != 2 || bot.sent[0].Text != "page 1" || bot.sent[1].Text != "page 2" {
		t.Fatalf("unexpected sent messages: %+v", bot.sent)
	}
	if bot.sent[0].ChatID != 42 {
		t.Fatalf("expected chat 42, got %d", bot.sent[0].ChatID)
	}
}

func TestHandleMessage_TruncatesLongReply(t *testing.T) {
	d := &fakeDispatcher{resp: commands.CommandResponse{Content: strings.Repeat("x", 1500)}}
	ch, bot := newTestChannel(t, config.TelegramConfig{MaxMessageLength: 1000}, d)

	ch.handleMessage(textMessage(1, 1, "", "/status"))

	if len(bot.sent) != 1 || len(bot.sent[0].Text) != 1000 || !strings.HasSuffix(bot.sent[0].Text, "...") {
		t.Fatalf("expected one truncated message")
	}
}

func TestHandleMessage_IgnoresEmptyAndUnauthorized(t *testing.T) {
	d := &fakeDispatcher{resp: commands.CommandResponse{Content: "ok"}}
	ch, bot := newTestChannel(t, config.TelegramConfig{AllowFrom: []string{"@bob"}}, d)

	ch.handleMessage(textMessage(1, 1, "alice", "/status"))
	ch.handleMessage(textMessage(1, 2, "bob", "   "))

	if len(d.texts) != 0 || len(bot.sent) != 0 {
		t.Fatalf("expected nothing dispatched, got %v", d.texts)
	}

	ch.handleMessage(textMessage(1, 2, "Bob", "/status"))
	if len(bot.sent) != 1 {
		t.Fatalf("expected reply for allowed user")
	}
}

func TestDeliver_WrapsSendError(t *testing.T) {
	ch, bot := newTestChannel(t, config.TelegramConfig{}, &fakeDispatcher{})
	bot.sendErr = errors.New("forbidden")

	if err := ch.Deliver(context.Background(), 1, "hi"); err == nil || !strings.Contains(err.Error(), "forbidden") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestIsUserAllowed(t *testing.T) {
	ch, _ := newTestChannel(t, config.TelegramConfig{AllowFrom: []string{"123", "-100500", "@Carol"}}, &fakeDispatcher{})

	tests := []struct {
		name     string
		userID   int64
		chatID   int64
		username string
		want     bool
	}{
		{name: "user id", userID: 123, chatID: 1, want: true},
		{name: "group chat id", userID: 9, chatID: -100500, want: true},
		{name: "username", userID: 9, chatID: 1, username: "carol", want: true},
		{name: "stranger", userID: 9, chatID: 1, username: "dave", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ch.isUserAllowed(tt.userID, tt.chatID, tt.username); got != tt.want {
				t.Fatalf("isUserAllowed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSyncSlashCommands(t *testing.T) {
	ch, bot := newTestChannel(t, config.TelegramConfig{}, &fakeDispatcher{})
	noop := func(ctx context.Context, req commands.CommandRequest) (commands.CommandResponse, error) {
		return commands.CommandResponse{}, nil
	}
	for _, name := range []string{"turn_on", "status"} {
		if err := ch.commands.Register(&commands.Command{Name: name, Description: name, Handler: noop}); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}

	ch.syncSlashCommands()

	if len(bot.requests) != 1 {
		t.Fatalf("expected one setMyCommands request, got %d", len(bot.requests))
	}
	cfg, ok := bot.requests[0].(tgbotapi.SetMyCommandsConfig)
	if !ok || len(cfg.Commands) != 2 || cfg.Commands[0].Command != "status" {
		t.Fatalf("unexpected request: %+v", bot.requests[0])
	}
}

func TestSanitizeTelegramCommandName(t *testing.T) {
	tests := map[string]string{
		"/Turn-On":              "turn_on",
		"__status__":            "status",
		"devices!":              "devices",
		"":                      "",
		strings.Repeat("a", 40): strings.Repeat("a", 32),
	}
	for in, want := range tests {
		if got := sanitizeTelegramCommandName(in); got != want {
			t.Fatalf("sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSyncSlashCommands_TruncatesDescriptionByRunes(t *testing.T) {
	ch, bot := newTestChannel(t, config.TelegramConfig{}, &fakeDispatcher{})
	noop := func(ctx context.Context, req commands.CommandRequest) (commands.CommandResponse, error) {
		return commands.CommandResponse{}, nil
	}
	long := strings.Repeat("фонарь ", 60)
	if err := ch.commands.Register(&commands.Command{Name: "status", Description: long, Handler: noop}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ch.syncSlashCommands()

	cfg := bot.requests[0].(tgbotapi.SetMyCommandsConfig)
	desc := cfg.Commands[0].Description
	if !utf8.ValidString(desc) {
		t.Fatalf("description is not valid UTF-8: %q", desc)
	}
	if n := utf8.RuneCountInString(desc); n != maxCommandDescription {
		t.Fatalf("expected %d runes, got %d", maxCommandDescription, n)
	}
}

func TestChannel_StopWhileRepliesAreSent(t *testing.T) {
	ch, _ := newTestChannel(t, config.TelegramConfig{}, &fakeDispatcher{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			ch.setClient(nil, &fakeBot{})
		}()
		go func() {
			defer wg.Done()
			_ = ch.Deliver(context.Background(), 1, "hi")
		}()
		go func() {
			defer wg.Done()
			_ = ch.Stop(context.Background())
		}()
	}
	wg.Wait()
}
