// Package bot implements the bridge bot's lifecycle management: supervised
// platform listeners and the maintenance scheduler, run as one group.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/bridgebot/internal/config"
	"github.com/edgard/bridgebot/internal/database"
)

// Listener is one platform's update loop. Run blocks until ctx is cancelled
// or the loop ends on its own.
type Listener struct {
	Name string
	Run  func(ctx context.Context)
}

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	cfg       config.SupervisorConfig
	store     database.Store
	scheduler *Scheduler
	listeners []Listener
}

// NewBot creates the orchestrator for the given listeners.
func NewBot(logger *slog.Logger, cfg config.SupervisorConfig, store database.Store, scheduler *Scheduler, listeners ...Listener) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		cfg:       cfg,
		store:     store,
		scheduler: scheduler,
		listeners: listeners,
	}
}

// Run starts every listener and the scheduler, and blocks until ctx is
// cancelled or a component fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	if b.store != nil {
		if err := b.store.Ping(ctx); err != nil {
			return fmt.Errorf("journal database unavailable: %w", err)
		}
	}

	g, gCtx := errgroup.WithContext(ctx)

	for _, l := range b.listeners {
		g.Go(func() error {
			b.supervise(gCtx, l)
			return nil
		})
	}

	if b.scheduler != nil {
		g.Go(func() error {
			b.logger.Info("Starting scheduler...")
			if err := b.scheduler.Start(); err != nil {
				b.logger.Error("Failed to start scheduler", "error", err)
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			b.logger.Info("Shutdown signal received, stopping scheduler...")

			if err := b.scheduler.Stop(); err != nil {
				b.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

// supervise keeps l running until ctx is cancelled. A panic or an unexpected
// return is logged and the listener restarts after a delay that doubles up to
// the configured maximum. A run that stayed up longer than the maximum delay
// resets the back-off.
func (b *Bot) supervise(ctx context.Context, l Listener) {
	log := b.logger.With("listener", l.Name)
	delay := b.cfg.RestartDelay

	for {
		log.Info("Starting listener...")
		started := time.Now()
		b.runListener(ctx, log, l)

		if ctx.Err() != nil {
			log.Info("Listener stopped.")
			return
		}

		if time.Since(started) > b.cfg.MaxRestartDelay {
			delay = b.cfg.RestartDelay
		}
		log.Warn("Listener stopped unexpectedly, restarting", "restart_delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("Listener stopped.")
			return
		case <-timer.C:
		}
		delay = min(delay*2, b.cfg.MaxRestartDelay)
	}
}

func (b *Bot) runListener(ctx context.Context, log *slog.Logger, l Listener) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Listener panicked", "panic", r)
		}
	}()
	l.Run(ctx)
}
