// Package telegram builds go-telegram/bot instances for both platforms and
// adapts them to the relay engine. Bale speaks the Telegram Bot API, so the
// same client serves it when pointed at the Bale server URL.
package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-telegram/bot"

	"github.com/edgard/bridgebot/internal/relay"
)

// PollTimeout is the long-poll window for getUpdates. It also bounds Bot API
// requests whose context carries no deadline of its own.
const PollTimeout = time.Minute

// NewBot creates a bot instance for platform. An empty serverURL keeps the
// library default (the Telegram API).
//
// Updates are handled one at a time in arrival order, so a /report and the
// text that follows it reach the handlers in sequence, and Start returns only
// after the update in flight has finished. Caller options are applied last.
func NewBot(platform relay.Platform, token, serverURL string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("%s bot token cannot be empty", platform)
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "bot_client", "platform", platform)

	base := []bot.Option{
		bot.WithNotAsyncHandlers(),
		bot.WithWorkers(1),
		bot.WithHTTPClient(PollTimeout, NewAPIHTTPClient(PollTimeout)),
	}
	if serverURL != "" {
		base = append(base, bot.WithServerURL(serverURL))
	}
	opts = append(base, opts...)

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create bot instance", "error", err)
		return nil, fmt.Errorf("failed to create %s bot: %w", platform, err)
	}

	log.Info("Bot instance created successfully", "token_prefix", tokenPrefix(token))
	return b, nil
}

func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return "..."
	}
	return token[:8] + "..."
}

// NewAPIHTTPClient returns the HTTP client used for Bot API calls. A request
// whose context has a deadline is bounded by that deadline alone, so upload
// timeouts set by the caller are not cut short. Other requests get fallback.
func NewAPIHTTPClient(fallback time.Duration) bot.HttpClient {
	return &deadlineClient{client: &http.Client{}, fallback: fallback}
}

type deadlineClient struct {
	client   *http.Client
	fallback time.Duration
}

func (c *deadlineClient) Do(req *http.Request) (*http.Response, error) {
	if _, ok := req.Context().Deadline(); ok || c.fallback <= 0 {
		return c.client.Do(req)
	}
	ctx, cancel := context.WithTimeout(req.Context(), c.fallback)
	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelOnClose releases the fallback timer once the body has been consumed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}
