package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/bridgebot/internal/relay"
	"github.com/edgard/bridgebot/internal/telegram"
)

// NewReportHandler returns a handler for the /report command.
func NewReportHandler(deps *HandlerDeps, platform relay.Platform) bot.HandlerFunc {
	return reportHandler{deps: deps, platform: platform}.Handle
}

type reportHandler struct {
	deps     *HandlerDeps
	platform relay.Platform
}

func (h reportHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	msg := telegram.ToInbound(h.platform, update.Message)
	if err := h.deps.Controller.Start(ctx, msg); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to start report", "handler", "report",
			"platform", h.platform, "chat_id", msg.ChatID, "error", err)
	}
}

// NewCancelHandler returns a handler for the /cancel command.
func NewCancelHandler(deps *HandlerDeps, platform relay.Platform) bot.HandlerFunc {
	return cancelHandler{deps: deps, platform: platform}.Handle
}

type cancelHandler struct {
	deps     *HandlerDeps
	platform relay.Platform
}

func (h cancelHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	msg := telegram.ToInbound(h.platform, update.Message)
	if err := h.deps.Controller.Cancel(ctx, msg); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to cancel report", "handler", "cancel",
			"platform", h.platform, "chat_id", msg.ChatID, "error", err)
	}
}
