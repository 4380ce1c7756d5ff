package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DispatcherConfig holds the static relay settings.
type DispatcherConfig struct {
	DestinationChatID int64
	DownloadTimeout   time.Duration
	UploadTimeout     time.Duration
	StickerApology    string
}

// Outcome describes a completed relay.
type Outcome struct {
	Kind Kind
	// Apologized is set when a sticker could not be delivered and the apology
	// text was sent in its place.
	Apologized bool
}

// Dispatcher classifies inbound messages and runs the matching transfer
// strategy against the destination chat.
type Dispatcher struct {
	logger  *slog.Logger
	source  Downloader
	dest    Outbound
	buffers *BufferPool
	convert ConvertFunc
	cfg     DispatcherConfig
}

// NewDispatcher wires the source downloader, destination client and buffer pool.
func NewDispatcher(logger *slog.Logger, source Downloader, dest Outbound, buffers *BufferPool, cfg DispatcherConfig) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		logger:  logger.With("component", "dispatcher"),
		source:  source,
		dest:    dest,
		buffers: buffers,
		convert: ConvertWebPToPNG,
		cfg:     cfg,
	}
}

// WithConverter replaces the static sticker converter.
func (d *Dispatcher) WithConverter(fn ConvertFunc) *Dispatcher {
	d.convert = fn
	return d
}

// Relay forwards msg to the destination chat. Every local file created on the
// way is removed before Relay returns, whatever the outcome.
func (d *Dispatcher) Relay(ctx context.Context, msg InboundMessage) (Outcome, error) {
	kind := Classify(msg)
	out := Outcome{Kind: kind}
	header := Header(msg)

	d.logger.DebugContext(ctx, "Relaying message", "kind", kind.String(), "chat_id", msg.ChatID, "message_id", msg.MessageID)

	var err error
	switch kind {
	case KindText:
		err = d.sendText(ctx, kind, Truncate(header+msg.Text, MaxTextLength))
	case KindPhoto:
		photo, _ := LargestPhoto(msg.Photo)
		media := &Media{FileID: photo.FileID}
		err = d.transfer(ctx, msg, header, media, transferSpec{
			kind: kind, label: "📎 File", ext: ".jpg", filename: photo.FileID + ".jpg", send: d.dest.SendPhoto,
		})
	case KindVideo:
		err = d.transfer(ctx, msg, header, msg.Video, transferSpec{
			kind: kind, label: "📎 File", ext: ".mp4",
			filename: ResolveFilename(msg.Video.FileID, msg.Video.FileName, msg.Video.MimeType, ".mp4"),
			send:     d.dest.SendVideo,
		})
	case KindVoice:
		err = d.transfer(ctx, msg, header, msg.Voice, transferSpec{
			kind: kind, label: "🎵 Voice", ext: ".ogg", filename: msg.Voice.FileID + ".ogg", send: d.dest.SendVoice,
		})
	case KindAudio:
		err = d.transfer(ctx, msg, header, msg.Audio, transferSpec{
			kind: kind, label: "🎶 Audio", ext: ".mp3",
			filename: ResolveFilename(msg.Audio.FileID, msg.Audio.FileName, msg.Audio.MimeType, ".mp3"),
			send:     d.dest.SendAudio,
		})
	case KindAnimation:
		err = d.transfer(ctx, msg, header, msg.Animation, transferSpec{
			kind: kind, label: "🎬 Animation", ext: ".mp4",
			filename: ResolveFilename(msg.Animation.FileID, msg.Animation.FileName, msg.Animation.MimeType, ".gif"),
			send:     d.dest.SendAnimation,
		})
	case KindSticker:
		out.Apologized, err = d.relaySticker(ctx, msg, header)
	case KindLocation:
		err = d.relayLocation(ctx, msg, header)
	case KindVideoNote:
		err = d.relayVideoNote(ctx, msg, header)
	case KindDocument:
		err = d.transfer(ctx, msg, header, msg.Document, transferSpec{
			kind: kind, label: "📎 File", ext: ".bin",
			filename: ResolveFilename(msg.Document.FileID, msg.Document.FileName, msg.Document.MimeType, ".bin"),
			send:     d.dest.SendDocument,
		})
	case KindUnknown:
		err = d.sendText(ctx, kind, header+"❓ Type: unknown")
	default:
		err = fmt.Errorf("no transfer strategy for kind %s", kind)
	}
	return out, err
}

type transferSpec struct {
	kind     Kind
	label    string
	ext      string
	filename string
	send     func(context.Context, Payload) error
}

// transfer downloads one media file into a private buffer, reuploads it with
// a captioned header and removes the buffer on every exit path.
func (d *Dispatcher) transfer(ctx context.Context, msg InboundMessage, header string, media *Media, spec transferSpec) error {
	buf, err := d.buffers.Open(media.FileID)
	if err != nil {
		return &TransferError{Op: OpDownload, Kind: spec.kind, FileID: media.FileID, Err: err}
	}
	defer d.release(ctx, buf)

	path := buf.Path(media.FileID, localExt(spec.filename, spec.ext))
	if err := d.download(ctx, spec.kind, media.FileID, path); err != nil {
		return err
	}

	payload := Payload{
		ChatID:   d.cfg.DestinationChatID,
		Path:     path,
		Filename: spec.filename,
		Caption:  Truncate(mediaCaption(header, spec.label, spec.filename, msg.Caption), MaxCaptionLength),
		Duration: media.Duration,
	}
	return d.upload(ctx, spec.kind, media.FileID, func(ctx context.Context) error {
		return spec.send(ctx, payload)
	})
}

// relaySticker re-delivers animated stickers as animations and converts static
// ones to PNG photos. Any failure inside the branch is answered with the
// apology text; the returned error is non-nil only if the apology also fails.
func (d *Dispatcher) relaySticker(ctx context.Context, msg InboundMessage, header string) (bool, error) {
	sticker := msg.Sticker
	caption := Truncate(header+"🎭 Sticker", MaxCaptionLength)

	err := func() error {
		buf, err := d.buffers.Open(sticker.FileID)
		if err != nil {
			return &TransferError{Op: OpDownload, Kind: KindSticker, FileID: sticker.FileID, Err: err}
		}
		defer d.release(ctx, buf)

		if sticker.Animated || sticker.Video {
			ext := ".tgs"
			if sticker.Video {
				ext = ".webm"
			}
			path := buf.Path(sticker.FileID, ext)
			if err := d.download(ctx, KindSticker, sticker.FileID, path); err != nil {
				return err
			}
			return d.upload(ctx, KindSticker, sticker.FileID, func(ctx context.Context) error {
				return d.dest.SendAnimation(ctx, Payload{
					ChatID:   d.cfg.DestinationChatID,
					Path:     path,
					Filename: SafeName(sticker.FileID) + ext,
					Caption:  caption,
				})
			})
		}

		src := buf.Path(sticker.FileID, ".webp")
		dst := buf.Path(sticker.FileID, ".png")
		if err := d.download(ctx, KindSticker, sticker.FileID, src); err != nil {
			return err
		}
		if err := d.convert(src, dst); err != nil {
			return &TransferError{Op: OpConvert, Kind: KindSticker, FileID: sticker.FileID, Err: err}
		}
		return d.upload(ctx, KindSticker, sticker.FileID, func(ctx context.Context) error {
			return d.dest.SendPhoto(ctx, Payload{
				ChatID:   d.cfg.DestinationChatID,
				Path:     dst,
				Filename: SafeName(sticker.FileID) + ".png",
				Caption:  caption,
			})
		})
	}()
	if err == nil {
		return false, nil
	}

	d.logger.ErrorContext(ctx, "Sticker relay failed, sending apology",
		"file_id", sticker.FileID, "animated", sticker.Animated, "error", fmt.Errorf("%w: %w", ErrStickerConversion, err))
	if apologyErr := d.sendText(ctx, KindSticker, d.cfg.StickerApology); apologyErr != nil {
		return true, errors.Join(err, apologyErr)
	}
	return true, nil
}

func (d *Dispatcher) relayLocation(ctx context.Context, msg InboundMessage, header string) error {
	loc := *msg.Location
	text := fmt.Sprintf("%s📍 Location: %s, %s", header,
		strconv.FormatFloat(loc.Latitude, 'f', -1, 64), strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	if err := d.sendText(ctx, KindLocation, text); err != nil {
		return err
	}
	return d.upload(ctx, KindLocation, "", func(ctx context.Context) error {
		return d.dest.SendLocation(ctx, d.cfg.DestinationChatID, loc)
	})
}

// relayVideoNote sends the header as text first because video notes carry no caption.
func (d *Dispatcher) relayVideoNote(ctx context.Context, msg InboundMessage, header string) error {
	note := msg.VideoNote
	filename := note.FileID + ".mp4"
	if err := d.sendText(ctx, KindVideoNote, Truncate(mediaCaption(header, "🎥 Video note", filename, msg.Caption), MaxTextLength)); err != nil {
		return err
	}

	buf, err := d.buffers.Open(note.FileID)
	if err != nil {
		return &TransferError{Op: OpDownload, Kind: KindVideoNote, FileID: note.FileID, Err: err}
	}
	defer d.release(ctx, buf)

	path := buf.Path(note.FileID, ".mp4")
	if err := d.download(ctx, KindVideoNote, note.FileID, path); err != nil {
		return err
	}
	return d.upload(ctx, KindVideoNote, note.FileID, func(ctx context.Context) error {
		return d.dest.SendVideoNote(ctx, Payload{
			ChatID:   d.cfg.DestinationChatID,
			Path:     path,
			Filename: filename,
			Duration: note.Duration,
		})
	})
}

func (d *Dispatcher) sendText(ctx context.Context, kind Kind, text string) error {
	return d.upload(ctx, kind, "", func(ctx context.Context) error {
		return d.dest.SendText(ctx, d.cfg.DestinationChatID, text)
	})
}

func (d *Dispatcher) download(ctx context.Context, kind Kind, fileID, dst string) error {
	dctx, cancel := withTimeout(ctx, d.cfg.DownloadTimeout)
	defer cancel()
	if err := d.source.Download(dctx, fileID, dst); err != nil {
		return &TransferError{Op: OpDownload, Kind: kind, FileID: fileID, Err: err}
	}
	return nil
}

func (d *Dispatcher) upload(ctx context.Context, kind Kind, fileID string, send func(context.Context) error) error {
	uctx, cancel := withTimeout(ctx, d.cfg.UploadTimeout)
	defer cancel()
	if err := send(uctx); err != nil {
		return &TransferError{Op: OpUpload, Kind: kind, FileID: fileID, Err: err}
	}
	return nil
}

func (d *Dispatcher) release(ctx context.Context, buf *Buffer) {
	if err := buf.Close(); err != nil {
		d.logger.ErrorContext(ctx, "Failed to release transfer buffer", "dir", buf.Dir(), "error", err)
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// localExt keeps the upload's extension for the local file when it is a
// plain alphanumeric suffix, otherwise it returns fallback.
func localExt(name, fallback string) string {
	ext := filepath.Ext(name)
	if len(ext) < 2 || len(ext) > 10 {
		return fallback
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return fallback
		}
	}
	return strings.ToLower(ext)
}
