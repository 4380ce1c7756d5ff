package relay

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const transferDirPrefix = "transfer-"

// BufferPool hands out private scratch directories for relay transfers under
// one work directory.
type BufferPool struct {
	dir    string
	logger *slog.Logger
}

// NewBufferPool creates the work directory if needed.
func NewBufferPool(dir string, logger *slog.Logger) (*BufferPool, error) {
	if dir == "" {
		return nil, errors.New("buffer work dir cannot be empty")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create work dir %s: %w", dir, err)
	}
	return &BufferPool{dir: dir, logger: logger.With("component", "transfer_buffer")}, nil
}

// Dir returns the work directory.
func (p *BufferPool) Dir() string {
	return p.dir
}

// Open allocates a buffer for one transfer. The directory name is derived
// from the media file id so concurrent transfers never collide.
func (p *BufferPool) Open(fileID string) (*Buffer, error) {
	dir, err := os.MkdirTemp(p.dir, transferDirPrefix+SafeName(fileID)+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create transfer dir: %w", err)
	}
	return &Buffer{dir: dir, logger: p.logger}, nil
}

// Sweep removes transfer directories older than maxAge; maxAge <= 0 removes
// all of them. Used at startup and by the periodic sweep task to clear what a
// crashed process left behind.
func (p *BufferPool) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list work dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	var errs []error
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), transferDirPrefix) {
			continue
		}
		if maxAge > 0 {
			info, err := entry.Info()
			if err != nil || info.ModTime().After(cutoff) {
				continue
			}
		}
		if err := os.RemoveAll(filepath.Join(p.dir, entry.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		p.logger.Info("Swept stale transfer directories", "count", removed, "dir", p.dir)
	}
	return removed, errors.Join(errs...)
}

// Buffer is the temporary storage of a single transfer. Everything inside it
// is deleted by Close, which is safe to call more than once.
type Buffer struct {
	dir    string
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Path returns the local path for a file named after fileID with extension ext.
func (b *Buffer) Path(fileID, ext string) string {
	return filepath.Join(b.dir, SafeName(fileID)+ext)
}

// Dir returns the buffer's private directory.
func (b *Buffer) Dir() string {
	return b.dir
}

// Close deletes the buffer directory and every file in it.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	if err := os.RemoveAll(b.dir); err != nil {
		b.logger.Error("Failed to remove transfer dir", "dir", b.dir, "error", err)
		return fmt.Errorf("failed to remove transfer dir: %w", err)
	}
	return nil
}

// SafeName maps s to a string usable as a file name component.
func SafeName(s string) string {
	const maxLen = 100
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
		if sb.Len() >= maxLen {
			break
		}
	}
	if sb.Len() == 0 {
		return "file"
	}
	return sb.String()
}
