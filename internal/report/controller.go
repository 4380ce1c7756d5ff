package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/edgard/bridgebot/internal/relay"
)

// Messages are the replies sent to the reporter.
type Messages struct {
	Prompt          string
	Success         string
	Failed          string
	Cancelled       string
	NothingToCancel string
}

// Escalation is what became of one submitted report.
type Escalation struct {
	Session Session
	Sender  relay.User
	// Err is nil when every creator received the report.
	Err error
}

// Controller drives the report state machine for every chat on both platforms.
type Controller struct {
	logger    *slog.Logger
	store     *Store
	escalator *relay.Escalator
	repliers  map[relay.Platform]relay.TextSender
	messages  Messages
}

// NewController creates a controller. repliers send answers back to the chat
// the report conversation happens in, keyed by platform.
func NewController(logger *slog.Logger, store *Store, escalator *relay.Escalator, repliers map[relay.Platform]relay.TextSender, messages Messages) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		logger:    logger.With("component", "report_controller"),
		store:     store,
		escalator: escalator,
		repliers:  repliers,
		messages:  messages,
	}
}

// Start handles /report. Issuing it again while a session is open restarts
// the session and repeats the instructions. The session opens only once the
// instructions have been delivered.
func (c *Controller) Start(ctx context.Context, msg relay.InboundMessage) error {
	key := KeyOf(msg)
	unlock := c.store.Lock(key)
	defer unlock()

	if err := c.reply(ctx, key, c.messages.Prompt); err != nil {
		return err
	}
	restarted := c.store.Begin(key, msg.Sender.ID)
	c.logger.InfoContext(ctx, "Report session opened",
		"platform", key.Platform, "chat_id", key.ChatID, "user_id", msg.Sender.ID, "restarted", restarted)
	return nil
}

// Cancel handles /cancel.
func (c *Controller) Cancel(ctx context.Context, msg relay.InboundMessage) error {
	key := KeyOf(msg)
	unlock := c.store.Lock(key)
	defer unlock()

	if !c.store.Cancel(key) {
		return c.reply(ctx, key, c.messages.NothingToCancel)
	}
	c.logger.InfoContext(ctx, "Report session cancelled", "platform", key.Platform, "chat_id", key.ChatID)
	return c.reply(ctx, key, c.messages.Cancelled)
}

// Submit consumes msg as report text when its chat is awaiting a report.
// Commands and messages without text are never consumed. The returned
// Escalation is nil when msg was not consumed.
func (c *Controller) Submit(ctx context.Context, msg relay.InboundMessage) (*Escalation, error) {
	body := strings.TrimSpace(msg.Text)
	if body == "" {
		return nil, nil
	}
	if _, isCommand := msg.Command(); isCommand {
		return nil, nil
	}

	key := KeyOf(msg)
	unlock := c.store.Lock(key)
	defer unlock()

	sess, ok := c.store.Take(key)
	if !ok {
		return nil, nil
	}

	result := &Escalation{Session: sess, Sender: msg.Sender}
	result.Err = c.escalator.Escalate(ctx, Compose(key.Platform, msg.Sender, msg.Text))

	reply := c.messages.Success
	if result.Err != nil {
		c.logger.ErrorContext(ctx, "Report escalation failed",
			"platform", key.Platform, "chat_id", key.ChatID, "user_id", msg.Sender.ID, "error", result.Err)
		reply = c.messages.Failed
	} else {
		c.logger.InfoContext(ctx, "Report escalated", "platform", key.Platform, "chat_id", key.ChatID, "user_id", msg.Sender.ID)
	}
	return result, c.reply(ctx, key, reply)
}

// Active reports whether the chat of msg is awaiting report text.
func (c *Controller) Active(msg relay.InboundMessage) bool {
	return c.store.Active(KeyOf(msg))
}

func (c *Controller) reply(ctx context.Context, key Key, text string) error {
	sender, ok := c.repliers[key.Platform]
	if !ok {
		return fmt.Errorf("no reply client for platform %s", key.Platform)
	}
	if err := sender.SendText(ctx, key.ChatID, text); err != nil {
		return fmt.Errorf("failed to reply on %s: %w", key.Platform, err)
	}
	return nil
}

// Compose renders the report delivered to the creators.
func Compose(platform relay.Platform, sender relay.User, body string) string {
	text := fmt.Sprintf("📩 New report from %s:\n%s📜 Report:\n%s",
		platform.DisplayName(), relay.SenderBlock(sender), body)
	return relay.Truncate(text, relay.MaxTextLength)
}
