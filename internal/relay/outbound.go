package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Downloader fetches a media file from the source platform into a local path.
type Downloader interface {
	Download(ctx context.Context, fileID, dst string) error
}

// TextSender delivers plain text to a chat.
type TextSender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Payload is one outbound file delivery.
type Payload struct {
	ChatID   int64
	Path     string
	Filename string
	Caption  string
	Duration int
}

// Outbound is the destination platform's send surface.
type Outbound interface {
	TextSender
	SendPhoto(ctx context.Context, p Payload) error
	SendVideo(ctx context.Context, p Payload) error
	SendVoice(ctx context.Context, p Payload) error
	SendAudio(ctx context.Context, p Payload) error
	SendAnimation(ctx context.Context, p Payload) error
	SendDocument(ctx context.Context, p Payload) error
	SendVideoNote(ctx context.Context, p Payload) error
	SendLocation(ctx context.Context, chatID int64, loc Location) error
}

// Target is one escalation recipient.
type Target struct {
	Name   string
	Client TextSender
	ChatID int64
}

// Escalator delivers a report to every creator identity.
type Escalator struct {
	targets []Target
	logger  *slog.Logger
}

// NewEscalator creates an escalator over targets, attempted in the given order.
func NewEscalator(logger *slog.Logger, targets ...Target) *Escalator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Escalator{targets: targets, logger: logger.With("component", "escalator")}
}

// Escalate sends text to every target. A failure on one target never prevents
// the others from being attempted; all failures are joined, each wrapping
// ErrEscalation and naming its target.
func (e *Escalator) Escalate(ctx context.Context, text string) error {
	var errs []error
	for _, t := range e.targets {
		if err := t.Client.SendText(ctx, t.ChatID, text); err != nil {
			e.logger.ErrorContext(ctx, "Failed to deliver report", "target", t.Name, "chat_id", t.ChatID, "error", err)
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrEscalation, t.Name, err))
			continue
		}
		e.logger.InfoContext(ctx, "Report delivered", "target", t.Name, "chat_id", t.ChatID)
	}
	return errors.Join(errs...)
}
