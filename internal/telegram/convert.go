package telegram

import (
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/bridgebot/internal/relay"
)

// ToInbound converts a received message into the platform-neutral form.
func ToInbound(platform relay.Platform, m *models.Message) relay.InboundMessage {
	msg := relay.InboundMessage{
		Platform:  platform,
		ChatID:    m.Chat.ID,
		MessageID: m.ID,
		Text:      m.Text,
		Caption:   m.Caption,
	}
	if m.Date > 0 {
		msg.Date = time.Unix(int64(m.Date), 0).UTC()
	}
	if m.From != nil {
		msg.Sender = relay.User{ID: m.From.ID, Username: m.From.Username, FirstName: m.From.FirstName}
	}

	for _, p := range m.Photo {
		msg.Photo = append(msg.Photo, relay.PhotoSize{FileID: p.FileID, Width: p.Width, Height: p.Height, FileSize: p.FileSize})
	}
	if v := m.Video; v != nil {
		msg.Video = &relay.Media{FileID: v.FileID, FileName: v.FileName, MimeType: v.MimeType, Duration: v.Duration}
	}
	if v := m.Voice; v != nil {
		msg.Voice = &relay.Media{FileID: v.FileID, MimeType: v.MimeType, Duration: v.Duration}
	}
	if a := m.Audio; a != nil {
		msg.Audio = &relay.Media{FileID: a.FileID, FileName: a.FileName, MimeType: a.MimeType, Duration: a.Duration}
	}
	if a := m.Animation; a != nil {
		msg.Animation = &relay.Media{FileID: a.FileID, FileName: a.FileName, MimeType: a.MimeType, Duration: a.Duration}
	}
	if s := m.Sticker; s != nil {
		msg.Sticker = &relay.Media{FileID: s.FileID, Animated: s.IsAnimated, Video: s.IsVideo}
	}
	if l := m.Location; l != nil {
		msg.Location = &relay.Location{Latitude: l.Latitude, Longitude: l.Longitude}
	}
	if n := m.VideoNote; n != nil {
		msg.VideoNote = &relay.Media{FileID: n.FileID, Duration: n.Duration}
	}
	if d := m.Document; d != nil {
		msg.Document = &relay.Media{FileID: d.FileID, FileName: d.FileName, MimeType: d.MimeType}
	}
	return msg
}
