package relay

import (
	"fmt"
	"image/png"
	"os"

	"golang.org/x/image/webp"
)

// ConvertFunc converts the file at src into a file at dst.
type ConvertFunc func(src, dst string) error

// ConvertWebPToPNG decodes a static WebP sticker and writes it as PNG.
func ConvertWebPToPNG(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open sticker: %w", err)
	}
	defer in.Close()

	img, err := webp.Decode(in)
	if err != nil {
		return fmt.Errorf("failed to decode webp: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create png: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close png: %w", closeErr)
		}
	}()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
