package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/bridgebot/internal/relay"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps *HandlerDeps, platform relay.Platform) bot.HandlerFunc {
	return startHandler{deps: deps, platform: platform}.Handle
}

// startHandler answers /start with the capability help.
type startHandler struct {
	deps     *HandlerDeps
	platform relay.Platform
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start", "platform", h.platform)

	if update.Message == nil {
		log.WarnContext(ctx, "Start handler received update with nil message", "update_id", update.ID)
		return
	}

	log.InfoContext(ctx, "Handling /start command", "chat_id", update.Message.Chat.ID)
	reply(ctx, b, log, update.Message.Chat.ID, h.deps.Config.Messages.Welcome)
}

// reply sends text to chatID and logs a failure.
func reply(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}
