// ABOUTME: Telegram frontend for the nova-telegram bridge
// ABOUTME: Long-polling update dispatch, command parsing, and message delivery

package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/inferenco/nova-bridge/internal/bridge"
)

// updateTimeout is the long-polling timeout in seconds.
const updateTimeout = 30

// telegramMessenger delivers bridge output through the Telegram Bot API.
type telegramMessenger struct {
	bot *tgbotapi.BotAPI
}

func (m *telegramMessenger) SendText(_ context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	_, err := m.bot.Send(msg)
	return err
}

func (m *telegramMessenger) SendActivity(_ context.Context, chatID int64) error {
	_, err := m.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
	return err
}

// Dispatcher routes Telegram updates to the session bridge.
type Dispatcher struct {
	bot    *tgbotapi.BotAPI
	bridge *bridge.Bridge
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher for the given bot and bridge.
func NewDispatcher(bot *tgbotapi.BotAPI, core *bridge.Bridge, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		bot:    bot,
		bridge: core,
		logger: logger.With("component", "dispatcher"),
	}
}

// Run consumes updates until the context is cancelled. Each message is
// handled in its own goroutine so a slow gateway call never blocks the
// update loop.
func (d *Dispatcher) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout
	updates := d.bot.GetUpdatesChan(u)

	d.logger.Info("update loop running")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("shutting down update loop")
			d.bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			go d.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage parses one inbound message and runs it through the bridge.
// Delivery failures are logged and dropped; everything else is converted to
// a user-facing error message.
func (d *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	logger := d.logger.With(
		"request_id", uuid.New().String(),
		"chat_id", msg.Chat.ID,
	)

	cmd := parseCommand(msg.Text)
	err := d.bridge.HandleCommand(ctx, msg.Chat.ID, cmd)
	if err == nil {
		return
	}

	var derr *bridge.DeliveryError
	if errors.As(err, &derr) {
		logger.Error("message delivery failed", "error", derr.Err)
		return
	}

	logger.Warn("command failed", "error", err)
	if nerr := d.bridge.NotifyError(ctx, msg.Chat.ID, err); nerr != nil {
		logger.Error("error notification failed", "error", nerr)
	}
}

// parseCommand maps raw message text to a bridge command. The /cmd@botname
// form used in group chats is recognized; unknown commands and plain text
// are both no-ops for the bridge.
func parseCommand(text string) bridge.Command {
	if !strings.HasPrefix(text, "/") {
		return bridge.Command{Kind: bridge.KindPlainText, Raw: text}
	}

	name := text
	if idx := strings.IndexAny(name, " \t\n"); idx >= 0 {
		name = name[:idx]
	}
	if idx := strings.Index(name, "@"); idx >= 0 {
		name = name[:idx]
	}

	switch strings.ToLower(name) {
	case "/help":
		return bridge.Command{Kind: bridge.KindHelp, Raw: text}
	case "/reset":
		return bridge.Command{Kind: bridge.KindReset, Raw: text}
	case "/chat":
		return bridge.Command{Kind: bridge.KindChat, Raw: text}
	default:
		return bridge.Command{Kind: bridge.KindPlainText, Raw: text}
	}
}
