// Package telegram adapts the Telegram Bot API to the session manager.
// Only chats on the allow-list are served; everything else is dropped
// without a reply.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/osokin/tradegram/internal/config"
)

// Conversations is the slice of the session manager the transport needs.
type Conversations interface {
	Send(ctx context.Context, chatID int64, text string) (string, error)
	Reset(chatID int64) error
}

// handler holds the transport logic with the wire layer abstracted away,
// so it can be driven directly in tests.
type handler struct {
	allowed  map[int64]bool
	sessions Conversations
	reply    func(chatID int64, text string) error
	typing   func(chatID int64)
	logger   *slog.Logger
}

// Bot polls Telegram and routes messages through the handler.
type Bot struct {
	api *tgbotapi.BotAPI
	h   *handler
}

func NewBot(cfg *config.Config, sessions Conversations, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	allowed := make(map[int64]bool, len(cfg.AllowedChatIDs))
	for _, id := range cfg.AllowedChatIDs {
		allowed[id] = true
	}

	b := &Bot{api: api}
	b.h = &handler{
		allowed:  allowed,
		sessions: sessions,
		reply: func(chatID int64, text string) error {
			_, err := api.Send(tgbotapi.NewMessage(chatID, text))
			return err
		},
		typing: func(chatID int64) {
			_, _ = api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
		},
		logger: logger,
	}
	logger.Info("telegram bot authorized", "username", api.Self.UserName)
	return b, nil
}

// Push sends an out-of-band message to a chat. It backs the agent's
// send_message_to_user tool.
func (b *Bot) Push(_ context.Context, chatID int64, text string) error {
	return b.h.reply(chatID, text)
}

// Run polls for updates until the context is canceled. Each message is
// handled in its own goroutine; the session manager serializes turns
// within a chat.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			msg := update.Message
			go b.h.handle(ctx, msg.Chat.ID, msg.IsCommand(), msg.Command(), msg.Text)
		}
	}
}

func (h *handler) handle(ctx context.Context, chatID int64, isCommand bool, command, text string) {
	if !h.allowed[chatID] {
		h.logger.Debug("dropping message from unlisted chat", "chat_id", chatID)
		return
	}

	if isCommand {
		h.handleCommand(chatID, command)
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	h.typing(chatID)
	done := make(chan struct{})
	go h.keepTyping(ctx, chatID, done)

	reply, err := h.sessions.Send(ctx, chatID, text)
	close(done)
	if err != nil {
		h.logger.Error("agent turn failed", "chat_id", chatID, "error", err)
		h.send(chatID, "error: "+err.Error())
		return
	}
	h.send(chatID, reply)
}

func (h *handler) handleCommand(chatID int64, command string) {
	switch command {
	case "start":
		h.send(chatID, "Hi, I'm your trading assistant. Tell me what to look up or trade, e.g. \"find an AAPL call expiring next month near $230\".")
	case "get_chat_id":
		h.send(chatID, fmt.Sprintf("Your chat id is %d", chatID))
	case "reset":
		if err := h.sessions.Reset(chatID); err != nil {
			h.send(chatID, "error: "+err.Error())
			return
		}
		h.send(chatID, "Conversation history cleared.")
	default:
		h.send(chatID, "Unknown command. I understand /start, /get_chat_id and /reset.")
	}
}

// keepTyping refreshes the typing indicator while a turn is running.
// Telegram expires the action after a few seconds.
func (h *handler) keepTyping(ctx context.Context, chatID int64, done <-chan struct{}) {
	ticker := time.NewTicker(4 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.typing(chatID)
		}
	}
}

func (h *handler) send(chatID int64, text string) {
	if err := h.reply(chatID, text); err != nil {
		h.logger.Error("failed to send telegram message", "chat_id", chatID, "error", err)
	}
}
