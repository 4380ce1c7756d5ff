package relay

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Placeholders for optional sender fields.
const (
	NoUsername = "no username"
	NoName     = "no name"
)

// Platform size limits, counted in characters.
const (
	MaxTextLength    = 4096
	MaxCaptionLength = 1024
)

const dateLayout = "2006-01-02 15:04:05"

// SenderBlock renders the sender identity lines shared by relay headers and reports.
func SenderBlock(u User) string {
	username := NoUsername
	if u.Username != "" {
		username = "@" + u.Username
	}
	name := NoName
	if u.FirstName != "" {
		name = u.FirstName
	}
	return fmt.Sprintf("👤 ID: %d\n📛 Username: %s\n🧑 Name: %s\n", u.ID, username, name)
}

// Header composes the metadata block prepended to every relayed payload.
// The date line is omitted when the message has no timestamp.
func Header(msg InboundMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📬 Message from %s:\n", msg.Platform.DisplayName())
	sb.WriteString(SenderBlock(msg.Sender))
	if !msg.Date.IsZero() {
		fmt.Fprintf(&sb, "📅 Date: %s\n", msg.Date.UTC().Format(dateLayout))
	}
	return sb.String()
}

// mediaCaption renders header, a file line and the optional original caption.
func mediaCaption(header, label, filename, caption string) string {
	var sb strings.Builder
	sb.WriteString(header)
	fmt.Fprintf(&sb, "%s: %s", label, filename)
	if caption != "" {
		fmt.Fprintf(&sb, "\n📝 Caption: %s", caption)
	}
	return sb.String()
}

// Truncate shortens s to at most limit characters, ending with an ellipsis when cut.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}
