// Package tasks implements the scheduled maintenance tasks of the bridge bot:
// journal maintenance, journal retention and the transfer directory sweep.
package tasks

import (
	"log/slog"

	"github.com/edgard/bridgebot/internal/config"
	"github.com/edgard/bridgebot/internal/database"
	"github.com/edgard/bridgebot/internal/relay"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Store   database.Store
	Buffers *relay.BufferPool
	Config  *config.Config
}
