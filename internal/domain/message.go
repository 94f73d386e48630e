package domain

// MessageKind classifies a LINE message by its content type.
type MessageKind int

const (
	KindOther MessageKind = iota
	KindText
	KindImage
	KindVideo
	KindAudio
	KindFile
	KindSticker
)

func (k MessageKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindFile:
		return "file"
	case KindSticker:
		return "sticker"
	default:
		return "other"
	}
}

// HasAttachment reports whether the kind carries binary content that must be
// downloaded before forwarding.
func (k MessageKind) HasAttachment() bool {
	switch k {
	case KindImage, KindVideo, KindAudio, KindFile:
		return true
	default:
		return false
	}
}

// SourceKind distinguishes group chat traffic from direct messages.
type SourceKind int

const (
	SourceUser SourceKind = iota
	SourceGroup
)

func (s SourceKind) String() string {
	if s == SourceGroup {
		return "group"
	}
	return "user"
}

// InboundEvent is one webhook message event, normalized from the LINE
// envelope. Created per delivery, immutable, discarded after processing.
type InboundEvent struct {
	Kind      MessageKind
	Source    SourceKind
	GroupID   string // empty for direct messages
	UserID    string // empty when the sender has not friended any bot
	MessageID string
	Text      string // text messages only
	StickerID string // sticker messages only
}

// UserOverride substitutes the webhook's default sender identity on Discord.
// The zero value means no override.
type UserOverride struct {
	Username  string
	AvatarURL string
}

func (o UserOverride) Empty() bool {
	return o.Username == "" && o.AvatarURL == ""
}

// Attachment is downloaded message content ready for a webhook upload.
type Attachment struct {
	Filename string
	Data     []byte
}
