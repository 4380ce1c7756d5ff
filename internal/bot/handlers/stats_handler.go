package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/bridgebot/internal/database"
	"github.com/edgard/bridgebot/internal/relay"
)

const statsWindow = 24 * time.Hour

// NewStatsHandler returns a handler for the creator-only /stats command.
func NewStatsHandler(deps *HandlerDeps, platform relay.Platform) bot.HandlerFunc {
	return statsHandler{deps: deps, platform: platform}.Handle
}

type statsHandler struct {
	deps     *HandlerDeps
	platform relay.Platform
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats", "platform", h.platform)
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	stats, err := h.deps.Store.StatsSince(ctx, time.Now().Add(-statsWindow))
	if err != nil {
		log.ErrorContext(ctx, "Failed to load journal stats", "error", err)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.ReportFailed)
		return
	}
	reply(ctx, b, log, chatID, FormatStats(h.deps.Config.Messages.StatsHeader, stats))
}

// FormatStats renders journal counts for the /stats reply.
func FormatStats(header string, stats *database.Stats) string {
	var sb strings.Builder
	sb.WriteString(header)
	fmt.Fprintf(&sb, "\n✅ Relayed: %d", stats.Relays[database.StatusOK])
	fmt.Fprintf(&sb, "\n⚠️ Sticker apologies: %d", stats.Relays[database.StatusApology])
	fmt.Fprintf(&sb, "\n❌ Failed: %d", stats.Relays[database.StatusFailed])
	fmt.Fprintf(&sb, "\n📩 Reports: %d delivered, %d failed", stats.Reports[database.StatusOK], stats.Reports[database.StatusFailed])
	return sb.String()
}
