package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"linecord/internal/domain"
)

// SignatureHeader carries the webhook body signature.
const SignatureHeader = "X-Line-Signature"

// webhookBody mirrors the LINE webhook envelope, limited to the fields the
// bridge consumes.
type webhookBody struct {
	Destination string         `json:"destination"`
	Events      []webhookEvent `json:"events"`
}

type webhookEvent struct {
	Type    string         `json:"type"`
	Source  webhookSource  `json:"source"`
	Message webhookMessage `json:"message"`
}

type webhookSource struct {
	Type    string `json:"type"` // "user" | "group" | "room"
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}

type webhookMessage struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Text      string `json:"text"`
	StickerID string `json:"stickerId"`
}

// VerifySignature checks an X-Line-Signature value against the raw request
// body: base64(HMAC-SHA256(channel secret, body)).
func VerifySignature(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseWebhook decodes a verified webhook body into normalized events.
// Non-message events and unrecognized message types come back as KindOther so
// the router's default arm can log and drop them.
func ParseWebhook(body []byte) ([]domain.InboundEvent, error) {
	var wb webhookBody
	if err := json.Unmarshal(body, &wb); err != nil {
		return nil, fmt.Errorf("parse webhook body: %w", err)
	}
	events := make([]domain.InboundEvent, 0, len(wb.Events))
	for _, ev := range wb.Events {
		events = append(events, normalizeEvent(ev))
	}
	return events, nil
}

func normalizeEvent(ev webhookEvent) domain.InboundEvent {
	out := domain.InboundEvent{
		Kind:      domain.KindOther,
		Source:    domain.SourceUser,
		GroupID:   ev.Source.GroupID,
		UserID:    ev.Source.UserID,
		MessageID: ev.Message.ID,
		Text:      ev.Message.Text,
		StickerID: ev.Message.StickerID,
	}
	// Source kind follows the presence of a group id; room sources carry
	// neither and are treated as direct messages from their sender.
	if ev.Source.GroupID != "" {
		out.Source = domain.SourceGroup
	}
	if ev.Type != "message" {
		return out
	}
	switch ev.Message.Type {
	case "text":
		out.Kind = domain.KindText
	case "image":
		out.Kind = domain.KindImage
	case "video":
		out.Kind = domain.KindVideo
	case "audio":
		out.Kind = domain.KindAudio
	case "file":
		out.Kind = domain.KindFile
	case "sticker":
		out.Kind = domain.KindSticker
	}
	return out
}
