package handlers

import (
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/bridgebot/internal/relay"
)

// RegisteredHandler represents a command handler with its middleware.
// It encapsulates all information needed to register a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// Final returns the handler wrapped in its middleware.
func (r RegisteredHandler) Final() tgbot.HandlerFunc {
	return applyMiddleware(r.Handler, r.Middleware)
}

func command(pattern string, h tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
	return RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     pattern,
		Handler:     h,
		Middleware:  mw,
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
}

// RegisterAllCommands returns the commands available on platform, keyed by
// command name without the slash.
func RegisterAllCommands(deps *HandlerDeps, platform relay.Platform) map[string]RegisteredHandler {
	start := NewStartHandler(deps, platform)
	handlers := map[string]RegisteredHandler{
		"start":  command("start", start),
		"help":   command("help", start),
		"report": command("report", NewReportHandler(deps, platform)),
		"cancel": command("cancel", NewCancelHandler(deps, platform)),
	}

	if platform == relay.PlatformTelegram {
		handlers["stats"] = command("stats", NewStatsHandler(deps, platform), CreatorOnly(deps, platform))
	}
	return handlers
}

// RegisterHandlers registers command handlers with a bot instance, applying
// each handler's middleware.
func RegisterHandlers(b *tgbot.Bot, logger *slog.Logger, registeredHandlers map[string]RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	if len(registeredHandlers) == 0 {
		log.Warn("No handlers provided for registration.")
		return nil
	}

	for name, regHandler := range registeredHandlers {
		if regHandler.Handler == nil {
			log.Warn("Skipping registration for nil handler", "command", name)
			continue
		}
		b.RegisterHandler(regHandler.HandlerType, regHandler.Pattern, regHandler.MatchType, regHandler.Final())
		log.Debug("Registered handler", "command", name, "match_type", regHandler.MatchType, "middleware_count", len(regHandler.Middleware))
	}

	log.Info("Registered command handlers successfully", "count", len(registeredHandlers))
	return nil
}
