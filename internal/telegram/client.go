package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/bridgebot/internal/relay"
)

// ErrFileTooLarge is returned when a media file exceeds the configured limit.
var ErrFileTooLarge = errors.New("file too large")

var (
	_ relay.Downloader = (*Client)(nil)
	_ relay.Outbound   = (*Client)(nil)
)

// Client adapts a bot instance to the relay download and send interfaces.
type Client struct {
	api         *bot.Bot
	platform    relay.Platform
	httpClient  *http.Client
	maxFileSize int64
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the client used for file downloads.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMaxFileSize limits downloads to n bytes; zero disables the limit.
func WithMaxFileSize(n int64) ClientOption {
	return func(c *Client) {
		c.maxFileSize = n
	}
}

// NewClient wraps api for platform.
func NewClient(api *bot.Bot, platform relay.Platform, logger *slog.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Client{
		api:        api,
		platform:   platform,
		httpClient: http.DefaultClient,
		logger:     logger.With("component", "platform_client", "platform", platform),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Platform returns the platform this client talks to.
func (c *Client) Platform() relay.Platform {
	return c.platform
}

// API returns the underlying bot instance.
func (c *Client) API() *bot.Bot {
	return c.api
}

// Download resolves fileID and streams the file into dst.
func (c *Client) Download(ctx context.Context, fileID, dst string) error {
	file, err := c.api.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return fmt.Errorf("failed to resolve file: %w", err)
	}
	if c.maxFileSize > 0 && int64(file.FileSize) > c.maxFileSize {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, file.FileSize)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.api.FileDownloadLink(file), nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download file: unexpected status %s", resp.Status)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create local file: %w", err)
	}

	var body io.Reader = resp.Body
	if c.maxFileSize > 0 {
		body = io.LimitReader(resp.Body, c.maxFileSize+1)
	}
	n, copyErr := io.Copy(out, body)
	closeErr := out.Close()
	switch {
	case copyErr != nil:
		return fmt.Errorf("failed to write local file: %w", copyErr)
	case closeErr != nil:
		return fmt.Errorf("failed to close local file: %w", closeErr)
	case c.maxFileSize > 0 && n > c.maxFileSize:
		return fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, c.maxFileSize)
	}

	c.logger.DebugContext(ctx, "Downloaded file", "file_id", fileID, "bytes", n)
	return nil
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := c.api.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	return err
}

func (c *Client) SendPhoto(ctx context.Context, p relay.Payload) error {
	return withUpload(p, func(f models.InputFile) error {
		_, err := c.api.SendPhoto(ctx, &bot.SendPhotoParams{ChatID: p.ChatID, Photo: f, Caption: p.Caption})
		return err
	})
}

func (c *Client) SendVideo(ctx context.Context, p relay.Payload) error {
	return withUpload(p, func(f models.InputFile) error {
		_, err := c.api.SendVideo(ctx, &bot.SendVideoParams{ChatID: p.ChatID, Video: f, Duration: p.Duration, Caption: p.Caption})
		return err
	})
}

func (c *Client) SendVoice(ctx context.Context, p relay.Payload) error {
	return withUpload(p, func(f models.InputFile) error {
		_, err := c.api.SendVoice(ctx, &bot.SendVoiceParams{ChatID: p.ChatID, Voice: f, Duration: p.Duration, Caption: p.Caption})
		return err
	})
}

func (c *Client) SendAudio(ctx context.Context, p relay.Payload) error {
	return withUpload(p, func(f models.InputFile) error {
		_, err := c.api.SendAudio(ctx, &bot.SendAudioParams{ChatID: p.ChatID, Audio: f, Duration: p.Duration, Caption: p.Caption})
		return err
	})
}

func (c *Client) SendAnimation(ctx context.Context, p relay.Payload) error {
	return withUpload(p, func(f models.InputFile) error {
		_, err := c.api.SendAnimation(ctx, &bot.SendAnimationParams{ChatID: p.ChatID, Animation: f, Duration: p.Duration, Caption: p.Caption})
		return err
	})
}

func (c *Client) SendDocument(ctx context.Context, p relay.Payload) error {
	return withUpload(p, func(f models.InputFile) error {
		_, err := c.api.SendDocument(ctx, &bot.SendDocumentParams{ChatID: p.ChatID, Document: f, Caption: p.Caption})
		return err
	})
}

// SendVideoNote uploads a round video. Video notes carry no caption.
func (c *Client) SendVideoNote(ctx context.Context, p relay.Payload) error {
	return withUpload(p, func(f models.InputFile) error {
		_, err := c.api.SendVideoNote(ctx, &bot.SendVideoNoteParams{ChatID: p.ChatID, VideoNote: f, Duration: p.Duration})
		return err
	})
}

func (c *Client) SendLocation(ctx context.Context, chatID int64, loc relay.Location) error {
	_, err := c.api.SendLocation(ctx, &bot.SendLocationParams{ChatID: chatID, Latitude: loc.Latitude, Longitude: loc.Longitude})
	return err
}

// withUpload opens the payload file for the duration of send.
func withUpload(p relay.Payload, send func(models.InputFile) error) error {
	f, err := os.Open(p.Path)
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	return send(&models.InputFileUpload{Filename: p.Filename, Data: f})
}
