// Package bot exposes the reel library as a Telegram bot.
package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"
)

// maxMessageRunes stays below Telegram's 4096 character message limit.
const maxMessageRunes = 4000

// Handler connects Telegram updates to Commands.
type Handler struct {
	bot      *tgbot.Bot
	commands *Commands
	log      logrus.FieldLogger
}

// NewHandler creates a new bot handler instance.
func NewHandler(token string, commands *Commands, logger logrus.FieldLogger) (*Handler, error) {
	log := logger.WithField("component", "bot_handler")

	h := &Handler{
		commands: commands,
		log:      log,
	}

	b, err := tgbot.New(token, tgbot.WithDefaultHandler(h.handleMessage))
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h.bot = b

	log.Info("Telegram bot handler initialized")
	return h, nil
}

// Start polls Telegram for updates until ctx is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.log.Info("Starting Telegram bot polling...")
	h.bot.Start(ctx)
	h.log.Info("Telegram bot polling stopped.")
}

func (h *Handler) handleMessage(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}

	userID := strconv.FormatInt(msg.From.ID, 10)
	log := h.log.WithField("user_id", userID)
	log.Debug("Received message")

	reply := truncate(h.commands.Handle(ctx, userID, msg.Text), maxMessageRunes)

	_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   reply,
	})
	if err != nil {
		log.WithError(err).Error("Failed to send reply")
	}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
