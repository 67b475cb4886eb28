// Package telegram provides Telegram bot integration.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"lampbot/pkg/commands"
	"lampbot/pkg/config"
	"lampbot/pkg/logger"
	"lampbot/pkg/sender"
)

// maxCommandDescription is Telegram's limit for a command menu description.
const maxCommandDescription = 256

// Dispatcher answers a chat command.
type Dispatcher interface {
	Dispatch(ctx context.Context, text, deviceID string) commands.CommandResponse
}

// botClient is the part of tgbotapi.BotAPI the channel uses.
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Channel implements the Telegram channel.
type Channel struct {
	log        *logger.Logger
	dispatcher Dispatcher
	commands   *commands.Registry
	config     *config.TelegramConfig
	sender     *sender.Sender

	// mu guards bot and api, which Start sets while Stop and reply
	// goroutines read them.
	mu       sync.RWMutex
	bot      botClient
	api      *tgbotapi.BotAPI
	stopOnce sync.Once
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a new Telegram channel.
func New(
	log *logger.Logger,
	dispatcher Dispatcher,
	cmdRegistry *commands.Registry,
	cfg *config.TelegramConfig,
) (*Channel, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Channel{
		log:        log,
		dispatcher: dispatcher,
		commands:   cmdRegistry,
		config:     cfg,
		ctx:        ctx,
		cancel:     cancel,
	}
	c.sender = sender.New(log, c, cfg.MaxMessageLength)

	return c, nil
}

// ID returns the channel identifier.
func (c *Channel) ID() string {
	return "telegram"
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return "Telegram"
}

// IsEnabled returns whether the channel is enabled.
func (c *Channel) IsEnabled() bool {
	return c.config.Enabled
}

// Start connects the bot and long-polls for updates until stopped.
func (c *Channel) Start(ctx context.Context) error {
	c.log.Info("Starting Telegram channel")

	// Keep HTTP timeout longer than long-poll timeout to avoid periodic forced reconnects.
	httpClient := &http.Client{Timeout: 75 * time.Second}
	if c.config.Proxy != "" {
		proxyURL, err := url.Parse(c.config.Proxy)
		if err != nil {
			return fmt.Errorf("parsing telegram proxy: %w", err)
		}
		httpClient.Transport = &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		}
		c.log.Info("Telegram proxy enabled", zap.String("proxy", proxyURL.Redacted()))
	}

	bot, err := tgbotapi.NewBotAPIWithClient(c.config.Token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return fmt.Errorf("creating telegram bot: %w", err)
	}

	bot.Debug = false
	c.setClient(bot, bot)

	c.log.Info("Telegram bot connected",
		zap.String("username", bot.Self.UserName))
	c.syncSlashCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 50

	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case update := <-updates:
			c.handleUpdate(update)

		case <-ctx.Done():
			c.log.Info("Telegram channel stopping")
			c.stopReceivingUpdates()
			return nil

		case <-c.ctx.Done():
			c.log.Info("Telegram channel stopping")
			c.stopReceivingUpdates()
			return nil
		}
	}
}

// Stop stops the Telegram channel.
func (c *Channel) Stop(ctx context.Context) error {
	c.log.Info("Stopping Telegram channel")
	c.cancel()
	c.stopReceivingUpdates()

	return nil
}

func (c *Channel) setClient(api *tgbotapi.BotAPI, bot botClient) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.api = api
	c.bot = bot
}

func (c *Channel) client() botClient {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bot
}

func (c *Channel) stopReceivingUpdates() {
	c.mu.RLock()
	api := c.api
	c.mu.RUnlock()
	if api == nil {
		return
	}
	c.stopOnce.Do(func() {
		api.StopReceivingUpdates()
	})
}

func (c *Channel) requestTimeout() time.Duration {
	if c.config.TimeoutSeconds > 0 {
		return time.Duration(c.config.TimeoutSeconds) * time.Second
	}
	return 60 * time.Second
}

// Deliver sends a plain text message to a chat.
func (c *Channel) Deliver(ctx context.Context, chatID int64, text string) error {
	bot := c.client()
	if bot == nil {
		return fmt.Errorf("telegram bot not initialized")
	}

	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}

	return nil
}

func (c *Channel) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		msg := *update.Message
		go c.handleMessage(&msg)
	}
}

func (c *Channel) syncSlashCommands() {
	bot := c.client()
	if bot == nil || c.commands == nil {
		return
	}

	cmds := c.commands.List()
	telegramCmds := make([]tgbotapi.BotCommand, 0, len(cmds))
	seen := make(map[string]struct{})

	for _, cmd := range cmds {
		name := sanitizeTelegramCommandName(cmd.Name)
		if name == "" {
			continue
		}
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}

		desc := strings.TrimSpace(cmd.Description)
		if desc == "" {
			desc = strings.TrimSpace(cmd.Usage)
		}
		if desc == "" {
			desc = "Command"
		}
		desc = sender.Truncate(desc, maxCommandDescription)

		telegramCmds = append(telegramCmds, tgbotapi.BotCommand{
			Command:     name,
			Description: desc,
		})
	}

	if len(telegramCmds) == 0 {
		return
	}

	// Telegram supports at most 100 commands.
	sort.Slice(telegramCmds, func(i, j int) bool {
		return telegramCmds[i].Command < telegramCmds[j].Command
	})
	if len(telegramCmds) > 100 {
		telegramCmds = telegramCmds[:100]
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegramCmds...)); err != nil {
		c.log.Warn("Failed to sync Telegram slash commands", zap.Error(err))
		return
	}

	c.log.Info("Synced Telegram slash commands", zap.Int("count", len(telegramCmds)))
}

func sanitizeTelegramCommandName(name string) string {
	normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))

	var b strings.Builder
	lastUnderscore := false
	for _, r := range normalized {
		if b.Len() >= 32 {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '-' || r == '_':
			if b.Len() > 0 && !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}

	return strings.Trim(b.String(), "_")
}

// handleMessage routes a text message to the dispatcher and sends every
// reply part back to the chat.
func (c *Channel) handleMessage(message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}

	var userID int64
	var username string
	if message.From != nil {
		userID = message.From.ID
		username = message.From.UserName
	}

	if !c.isUserAllowed(userID, message.Chat.ID, username) {
		c.log.Warn("Unauthorized access attempt",
			zap.Int64("user_id", userID),
			zap.String("username", username))
		return
	}

	content := strings.TrimSpace(message.Text)
	if content == "" {
		return
	}

	c.log.Info("Received Telegram message",
		zap.Int64("chat_id", message.Chat.ID),
		zap.String("from", username),
		zap.String("text", content))

	ctx, cancel := context.WithTimeout(context.Background(), c.requestTimeout())
	defer cancel()

	resp := c.dispatcher.Dispatch(ctx, content, "")
	for _, text := range resp.Messages() {
		if err := c.sender.Send(ctx, message.Chat.ID, text); err != nil {
			c.log.Error("Failed to send reply",
				zap.Int64("chat_id", message.Chat.ID),
				zap.Error(err))
			return
		}
	}
}

// isUserAllowed checks the allow list against user id, chat id and username.
func (c *Channel) isUserAllowed(userID, chatID int64, username string) bool {
	if len(c.config.AllowFrom) == 0 {
		return true
	}

	userIDStr := fmt.Sprintf("%d", userID)
	chatIDStr := fmt.Sprintf("%d", chatID)
	username = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(username)), "@")

	for _, allowed := range c.config.AllowFrom {
		normalizedAllowed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(allowed)), "@")
		if normalizedAllowed == "" {
			continue
		}
		if (userID != 0 && normalizedAllowed == userIDStr) || normalizedAllowed == chatIDStr {
			return true
		}
		if username != "" && normalizedAllowed == username {
			return true
		}
	}

	return false
}
