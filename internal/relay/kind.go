package relay

// Kind is the mutually exclusive classification of an inbound message payload.
type Kind int

// Kinds in classification priority order.
const (
	KindText Kind = iota
	KindPhoto
	KindVideo
	KindVoice
	KindAudio
	KindAnimation
	KindSticker
	KindLocation
	KindVideoNote
	KindDocument
	KindUnknown
)

var kindNames = [...]string{
	KindText:      "text",
	KindPhoto:     "photo",
	KindVideo:     "video",
	KindVoice:     "voice",
	KindAudio:     "audio",
	KindAnimation: "animation",
	KindSticker:   "sticker",
	KindLocation:  "location",
	KindVideoNote: "video_note",
	KindDocument:  "document",
	KindUnknown:   "unknown",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// Classify decides the kind of msg exactly once. The first matching rule wins:
// text without attachment, photo, video, voice, audio, animation, sticker,
// location, video note, document, and finally unknown.
func Classify(msg InboundMessage) Kind {
	switch {
	case msg.Text != "" && !msg.HasAttachment():
		return KindText
	case len(msg.Photo) > 0:
		return KindPhoto
	case msg.Video != nil:
		return KindVideo
	case msg.Voice != nil:
		return KindVoice
	case msg.Audio != nil:
		return KindAudio
	case msg.Animation != nil:
		return KindAnimation
	case msg.Sticker != nil:
		return KindSticker
	case msg.Location != nil:
		return KindLocation
	case msg.VideoNote != nil:
		return KindVideoNote
	case msg.Document != nil:
		return KindDocument
	default:
		return KindUnknown
	}
}
