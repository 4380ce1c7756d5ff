// Package handlers contains the command and message handlers of both
// platforms, along with their registration logic and middleware.
package handlers

import (
	"context"
	"runtime/debug"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/bridgebot/internal/relay"
)

// CreatorOnly creates a middleware that checks if the message sender is the
// creator configured for platform. Others get a "Not Authorized" reply.
func CreatorOnly(deps *HandlerDeps, platform relay.Platform) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				return
			}

			userID := update.Message.From.ID
			if userID != deps.CreatorID(platform) {
				chatID := update.Message.Chat.ID
				log := deps.Logger.With("middleware", "CreatorOnly", "platform", platform)
				log.WarnContext(ctx, "Unauthorized access attempt", "user_id", userID, "chat_id", chatID)

				_, err := bot.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   deps.Config.Messages.NotAuthorized,
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, bot, update)
		}
	}
}

// Recover keeps a panicking handler from taking the listener down with it.
func Recover(deps *HandlerDeps, platform relay.Platform) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					deps.Logger.ErrorContext(ctx, "Recovered from handler panic",
						"platform", platform, "update_id", update.ID, "panic", r, "stack", string(debug.Stack()))
				}
			}()
			next(ctx, bot, update)
		}
	}
}

// applyMiddleware wraps a handler function with a slice of middleware.
// Middleware are applied in reverse order so the first one in the slice is the outermost.
func applyMiddleware(handler tgbot.HandlerFunc, mw []tgbot.Middleware) tgbot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}
