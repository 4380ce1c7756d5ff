package handlers

import (
	"log/slog"

	"github.com/edgard/bridgebot/internal/config"
	"github.com/edgard/bridgebot/internal/database"
	"github.com/edgard/bridgebot/internal/relay"
	"github.com/edgard/bridgebot/internal/report"
)

// HandlerDeps provides dependencies for the command and message handlers of
// both platforms. Handlers read it at call time, so it may be completed after
// the bot instances are constructed and before they start polling.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Store      database.Store
	Controller *report.Controller
	Dispatcher *relay.Dispatcher
	Scope      relay.ScopeFilter
}

// CreatorID returns the creator identity configured for platform.
func (d *HandlerDeps) CreatorID(platform relay.Platform) int64 {
	switch platform {
	case relay.PlatformTelegram:
		return d.Config.Telegram.CreatorID
	case relay.PlatformBale:
		return d.Config.Bale.CreatorID
	default:
		return 0
	}
}
