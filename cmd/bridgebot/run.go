package main

import (
	"context"
	"errors"
	"net/http"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/bridgebot/internal/bot"
	"github.com/edgard/bridgebot/internal/bot/handlers"
	"github.com/edgard/bridgebot/internal/bot/tasks"
	"github.com/edgard/bridgebot/internal/config"
	"github.com/edgard/bridgebot/internal/database"
	"github.com/edgard/bridgebot/internal/logger"
	"github.com/edgard/bridgebot/internal/relay"
	"github.com/edgard/bridgebot/internal/report"
	"github.com/edgard/bridgebot/internal/telegram"
)

// run wires every component and blocks until ctx is cancelled or a
// component fails.
func run(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		return fail(log, "Failed to connect to database", err, "path", cfg.Database.Path)
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	buffers, err := relay.NewBufferPool(cfg.Relay.WorkDir, log)
	if err != nil {
		return fail(log, "Failed to prepare work directory", err, "dir", cfg.Relay.WorkDir)
	}

	// Handlers read deps when updates arrive, after the clients below exist.
	deps := &handlers.HandlerDeps{
		Logger: log,
		Config: cfg,
		Store:  store,
		Scope:  relay.NewScopeFilter(relay.PlatformTelegram, cfg.Telegram.SourceChatID),
	}

	tgAPI, err := newPlatformBot(deps, relay.PlatformTelegram, cfg.Telegram.Token, cfg.Telegram.ServerURL)
	if err != nil {
		return fail(log, "Failed to create Telegram bot", err)
	}
	baleAPI, err := newPlatformBot(deps, relay.PlatformBale, cfg.Bale.Token, cfg.Bale.ServerURL)
	if err != nil {
		return fail(log, "Failed to create Bale bot", err)
	}

	httpClient := &http.Client{}
	tgClient := telegram.NewClient(tgAPI, relay.PlatformTelegram, log,
		telegram.WithHTTPClient(httpClient), telegram.WithMaxFileSize(cfg.Relay.MaxFileSize))
	baleClient := telegram.NewClient(baleAPI, relay.PlatformBale, log,
		telegram.WithHTTPClient(httpClient), telegram.WithMaxFileSize(cfg.Relay.MaxFileSize))

	escalator := relay.NewEscalator(log,
		relay.Target{Name: string(relay.PlatformTelegram), Client: tgClient, ChatID: cfg.Telegram.CreatorID},
		relay.Target{Name: string(relay.PlatformBale), Client: baleClient, ChatID: cfg.Bale.CreatorID},
	)
	deps.Controller = report.NewController(log, report.NewStore(), escalator,
		map[relay.Platform]relay.TextSender{
			relay.PlatformTelegram: tgClient,
			relay.PlatformBale:     baleClient,
		},
		report.Messages{
			Prompt:          cfg.Messages.ReportPrompt,
			Success:         cfg.Messages.ReportSuccess,
			Failed:          cfg.Messages.ReportFailed,
			Cancelled:       cfg.Messages.ReportCancelled,
			NothingToCancel: cfg.Messages.NothingToCancel,
		})
	deps.Dispatcher = relay.NewDispatcher(log, tgClient, baleClient, buffers, relay.DispatcherConfig{
		DestinationChatID: cfg.Bale.DestinationChatID,
		DownloadTimeout:   cfg.Relay.DownloadTimeout,
		UploadTimeout:     cfg.Relay.UploadTimeout,
		StickerApology:    cfg.Messages.StickerApology,
	})

	for platform, api := range map[relay.Platform]*tgbot.Bot{relay.PlatformTelegram: tgAPI, relay.PlatformBale: baleAPI} {
		if err := handlers.RegisterHandlers(api, log.With("platform", platform), handlers.RegisterAllCommands(deps, platform)); err != nil {
			return fail(log, "Failed to register handlers", err, "platform", platform)
		}
	}

	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{Logger: log, Store: store, Buffers: buffers, Config: cfg})
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, taskMap)
	if err != nil {
		return fail(log, "Failed to create scheduler", err)
	}

	// A previous process may have been killed mid-transfer.
	if removed, err := buffers.Sweep(0); err != nil {
		log.Warn("Startup temp sweep incomplete", "removed", removed, "error", err)
	}

	app := bot.NewBot(log, cfg.Supervisor, store, sched,
		bot.Listener{Name: string(relay.PlatformTelegram), Run: tgAPI.Start},
		bot.Listener{Name: string(relay.PlatformBale), Run: baleAPI.Start},
	)

	log.Info("Starting bot...", "source_chat_id", cfg.Telegram.SourceChatID, "destination_chat_id", cfg.Bale.DestinationChatID)
	runErr := app.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fail(log, "Bot stopped due to error", runErr)
	}

	log.Info("Bot stopped gracefully.")
	return nil
}

// newPlatformBot builds one platform's bot with update logging, panic
// recovery and the default message handler.
func newPlatformBot(deps *handlers.HandlerDeps, platform relay.Platform, token, serverURL string) (*tgbot.Bot, error) {
	opts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(deps.Logger, string(platform)), handlers.Recover(deps, platform)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(deps, platform)),
	}
	return telegram.NewBot(platform, token, serverURL, deps.Logger, opts...)
}
