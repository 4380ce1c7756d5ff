package relay

import (
	"context"
	"errors"
	"fmt"
)

// Error classes of the relay engine.
var (
	ErrUnauthorizedChat  = errors.New("unauthorized chat")
	ErrDownload          = errors.New("download failed")
	ErrUpload            = errors.New("upload failed")
	ErrStickerConversion = errors.New("sticker conversion failed")
	ErrEscalation        = errors.New("escalation failed")
)

// Op names a stage of a transfer.
type Op string

// Transfer stages.
const (
	OpDownload Op = "download"
	OpUpload   Op = "upload"
	OpConvert  Op = "convert"
)

func (op Op) sentinel() error {
	switch op {
	case OpDownload:
		return ErrDownload
	case OpConvert:
		return ErrStickerConversion
	default:
		return ErrUpload
	}
}

// TransferError describes a failed transfer stage. It unwraps to both the
// stage's error class and the underlying cause.
type TransferError struct {
	Op     Op
	Kind   Kind
	FileID string
	Err    error
}

func (e *TransferError) Error() string {
	if e.FileID == "" {
		return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s (file %s): %v", e.Kind, e.Op, e.FileID, e.Err)
}

// Unwrap exposes the error class and the cause to errors.Is and errors.As.
func (e *TransferError) Unwrap() []error {
	return []error{e.Op.sentinel(), e.Err}
}

// Timeout reports whether the stage ran out of time.
func (e *TransferError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// IsTimeout reports whether err was caused by a deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
