package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"

	"github.com/edgard/bridgebot/internal/database"
	"github.com/edgard/bridgebot/internal/relay"
	"github.com/edgard/bridgebot/internal/telegram"
)

// NewMessageHandler returns the default handler of platform. It routes
// commands the registry did not match, feeds report text to the conversation
// controller and relays source chat traffic.
func NewMessageHandler(deps *HandlerDeps, platform relay.Platform) bot.HandlerFunc {
	h := &messageHandler{deps: deps, platform: platform, commands: make(map[string]bot.HandlerFunc)}
	for name, reg := range RegisterAllCommands(deps, platform) {
		h.commands[name] = reg.Final()
	}
	return h.Handle
}

type messageHandler struct {
	deps     *HandlerDeps
	platform relay.Platform
	commands map[string]bot.HandlerFunc
}

func (h *messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	log := h.deps.Logger.With("handler", "message", "platform", h.platform)
	msg := telegram.ToInbound(h.platform, update.Message)

	// Bale does not always attach command entities, and "/cmd@bot" forms
	// are not matched by the registry.
	if name, ok := msg.Command(); ok {
		if cmd, known := h.commands[name]; known {
			cmd(ctx, b, update)
			return
		}
	}

	escalation, err := h.deps.Controller.Submit(ctx, msg)
	if err != nil {
		log.ErrorContext(ctx, "Failed to answer reporter", "chat_id", msg.ChatID, "error", err)
	}
	if escalation != nil {
		h.recordReport(ctx, log, msg, escalation.Err)
		return
	}

	if h.platform != relay.PlatformTelegram {
		log.DebugContext(ctx, "Ignoring message outside a report session", "chat_id", msg.ChatID)
		return
	}
	if err := h.deps.Scope.Check(msg); err != nil {
		log.DebugContext(ctx, "Dropping message", "reason", err)
		return
	}

	h.relay(ctx, b, log, msg)
}

func (h *messageHandler) relay(ctx context.Context, b *bot.Bot, log *slog.Logger, msg relay.InboundMessage) {
	relayID := uuid.NewString()
	log = log.With("relay_id", relayID, "chat_id", msg.ChatID, "message_id", msg.MessageID)

	outcome, err := h.deps.Dispatcher.Relay(ctx, msg)

	rec := &database.RelayRecord{
		RelayID:   relayID,
		Platform:  string(msg.Platform),
		ChatID:    msg.ChatID,
		MessageID: int64(msg.MessageID),
		UserID:    msg.Sender.ID,
		Kind:      outcome.Kind.String(),
		Status:    database.StatusOK,
	}
	switch {
	case err != nil:
		rec.Status = database.StatusFailed
		rec.Error = err.Error()
	case outcome.Apologized:
		rec.Status = database.StatusApology
	}
	if jerr := h.deps.Store.RecordRelay(ctx, rec); jerr != nil {
		log.WarnContext(ctx, "Failed to journal relay", "error", jerr)
	}

	if err == nil {
		log.InfoContext(ctx, "Message relayed", "kind", outcome.Kind.String(), "apologized", outcome.Apologized)
		return
	}
	if errors.Is(err, context.Canceled) {
		log.InfoContext(ctx, "Relay abandoned on shutdown", "kind", outcome.Kind.String())
		return
	}

	log.ErrorContext(ctx, "Relay failed", "kind", outcome.Kind.String(), "timeout", relay.IsTimeout(err), "error", err)
	reply(ctx, b, log, msg.ChatID, h.deps.Config.Messages.RelayFailed)
}

func (h *messageHandler) recordReport(ctx context.Context, log *slog.Logger, msg relay.InboundMessage, escalationErr error) {
	rec := &database.ReportRecord{
		Platform: string(msg.Platform),
		ChatID:   msg.ChatID,
		UserID:   msg.Sender.ID,
		Status:   database.StatusOK,
	}
	if escalationErr != nil {
		rec.Status = database.StatusFailed
		rec.Error = escalationErr.Error()
	}
	if err := h.deps.Store.RecordReport(ctx, rec); err != nil {
		log.WarnContext(ctx, "Failed to journal report", "error", err)
	}
}
