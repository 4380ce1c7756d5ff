// Package relay implements the relay engine between the source and destination
// platforms: message classification, the per-kind transfer pipeline, scoped
// temporary storage for downloaded media, and the escalation path used by the
// report workflow.
package relay

import (
	"strings"
	"time"
)

// Platform identifies a chat platform.
type Platform string

// Supported platforms.
const (
	PlatformTelegram Platform = "telegram"
	PlatformBale     Platform = "bale"
)

// DisplayName returns the human-readable platform name used in headers.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformTelegram:
		return "Telegram"
	case PlatformBale:
		return "Bale"
	default:
		return string(p)
	}
}

// User is the sender of an inbound message. Username and FirstName may be empty.
type User struct {
	ID        int64
	Username  string
	FirstName string
}

// PhotoSize is one resolution variant of a photo.
type PhotoSize struct {
	FileID   string
	Width    int
	Height   int
	FileSize int
}

// Media references a downloadable file on the source platform. The size is
// unknown until the file is fetched.
type Media struct {
	FileID   string
	FileName string
	MimeType string
	Duration int
	// Animated is set for animated (TGS) stickers, Video for video (WebM) stickers.
	Animated bool
	Video    bool
}

// Location is a pair of geographic coordinates.
type Location struct {
	Latitude  float64
	Longitude float64
}

// InboundMessage is a platform-neutral view of one received message.
// At most one of the attachment fields is expected to be set; when several
// are, Classify decides by priority.
type InboundMessage struct {
	Platform  Platform
	ChatID    int64
	MessageID int
	Sender    User
	Date      time.Time

	Text    string
	Caption string

	Photo     []PhotoSize
	Video     *Media
	Voice     *Media
	Audio     *Media
	Animation *Media
	Sticker   *Media
	Location  *Location
	VideoNote *Media
	Document  *Media
}

// HasAttachment reports whether the message carries any media or a location.
func (m InboundMessage) HasAttachment() bool {
	return len(m.Photo) > 0 ||
		m.Video != nil ||
		m.Voice != nil ||
		m.Audio != nil ||
		m.Animation != nil ||
		m.Sticker != nil ||
		m.Location != nil ||
		m.VideoNote != nil ||
		m.Document != nil
}

// Command returns the lower-cased command name when the message text is a
// bot command such as "/report" or "/report@somebot".
func (m InboundMessage) Command() (string, bool) {
	return ParseCommand(m.Text)
}

// ParseCommand extracts the command name from text. The leading slash and any
// "@botname" suffix are stripped.
func ParseCommand(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	word := strings.Fields(text)[0][1:]
	if at := strings.IndexByte(word, '@'); at >= 0 {
		word = word[:at]
	}
	if word == "" {
		return "", false
	}
	return strings.ToLower(word), true
}

// LargestPhoto picks the highest-resolution variant, breaking ties by file size.
func LargestPhoto(sizes []PhotoSize) (PhotoSize, bool) {
	if len(sizes) == 0 {
		return PhotoSize{}, false
	}
	best := sizes[0]
	for _, s := range sizes[1:] {
		area, bestArea := s.Width*s.Height, best.Width*best.Height
		if area > bestArea || (area == bestArea && s.FileSize > best.FileSize) {
			best = s
		}
	}
	return best, true
}
