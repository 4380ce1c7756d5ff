package relay_test

import (
	"testing"

	"github.com/edgard/bridgebot/internal/relay"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	media := &relay.Media{FileID: "f"}
	tests := []struct {
		name string
		msg  relay.InboundMessage
		want relay.Kind
	}{
		{"text only", relay.InboundMessage{Text: "hello"}, relay.KindText},
		{"photo", relay.InboundMessage{Photo: []relay.PhotoSize{{FileID: "p"}}}, relay.KindPhoto},
		{"photo with caption", relay.InboundMessage{Caption: "c", Photo: []relay.PhotoSize{{FileID: "p"}}}, relay.KindPhoto},
		{"video", relay.InboundMessage{Video: media}, relay.KindVideo},
		{"voice", relay.InboundMessage{Voice: media}, relay.KindVoice},
		{"audio", relay.InboundMessage{Audio: media}, relay.KindAudio},
		{"animation", relay.InboundMessage{Animation: media}, relay.KindAnimation},
		{"animation beats document", relay.InboundMessage{Animation: media, Document: media}, relay.KindAnimation},
		{"sticker", relay.InboundMessage{Sticker: media}, relay.KindSticker},
		{"location", relay.InboundMessage{Location: &relay.Location{Latitude: 1, Longitude: 2}}, relay.KindLocation},
		{"video note", relay.InboundMessage{VideoNote: media}, relay.KindVideoNote},
		{"document", relay.InboundMessage{Document: media}, relay.KindDocument},
		{"text with attachment is not text", relay.InboundMessage{Text: "x", Document: media}, relay.KindDocument},
		{"empty", relay.InboundMessage{}, relay.KindUnknown},
		{"caption only", relay.InboundMessage{Caption: "orphan"}, relay.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := relay.Classify(tt.msg); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for k := relay.KindText; k <= relay.KindUnknown; k++ {
		name := k.String()
		if name == "invalid" || seen[name] {
			t.Errorf("kind %d has bad or duplicate name %q", k, name)
		}
		seen[name] = true
	}
	if relay.Kind(99).String() != "invalid" {
		t.Errorf("out of range kind should be invalid")
	}
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"/report", "report", true},
		{"/REPORT", "report", true},
		{"/report@bridge_bot", "report", true},
		{"  /cancel now", "cancel", true},
		{"report", "", false},
		{"/", "", false},
		{"/@bot", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := relay.ParseCommand(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseCommand(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLargestPhoto(t *testing.T) {
	t.Parallel()

	sizes := []relay.PhotoSize{
		{FileID: "small", Width: 90, Height: 90},
		{FileID: "big", Width: 1280, Height: 960, FileSize: 10},
		{FileID: "big-heavier", Width: 960, Height: 1280, FileSize: 20},
		{FileID: "medium", Width: 320, Height: 240},
	}
	got, ok := relay.LargestPhoto(sizes)
	if !ok || got.FileID != "big-heavier" {
		t.Errorf("LargestPhoto() = %+v, %v; want big-heavier", got, ok)
	}
	if _, ok := relay.LargestPhoto(nil); ok {
		t.Errorf("LargestPhoto(nil) ok = true")
	}
}
