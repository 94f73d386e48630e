package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"linecord/internal/domain"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature_Valid(t *testing.T) {
	body := []byte(`{"events":[]}`)
	if !VerifySignature("secret", body, sign("secret", body)) {
		t.Error("valid signature should verify")
	}
}

func TestVerifySignature_Invalid(t *testing.T) {
	if VerifySignature("secret", []byte("body"), "bm90LXRoZS1zaWduYXR1cmU=") {
		t.Error("invalid signature should not verify")
	}
}

func TestVerifySignature_Empty(t *testing.T) {
	if VerifySignature("secret", []byte("body"), "") {
		t.Error("empty signature should not verify")
	}
}

func TestParseWebhook_GroupText(t *testing.T) {
	body := []byte(`{
		"destination": "Ubot",
		"events": [{
			"type": "message",
			"source": {"type": "group", "groupId": "G1", "userId": "U1"},
			"message": {"id": "M1", "type": "text", "text": "hello"}
		}]
	}`)
	events, err := ParseWebhook(body)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Kind != domain.KindText {
		t.Errorf("expected text kind, got %s", ev.Kind)
	}
	if ev.Source != domain.SourceGroup {
		t.Errorf("expected group source, got %s", ev.Source)
	}
	if ev.GroupID != "G1" || ev.UserID != "U1" || ev.Text != "hello" || ev.MessageID != "M1" {
		t.Errorf("unexpected event fields: %+v", ev)
	}
}

func TestParseWebhook_DirectSticker(t *testing.T) {
	body := []byte(`{
		"events": [{
			"type": "message",
			"source": {"type": "user", "userId": "U1"},
			"message": {"id": "M2", "type": "sticker", "stickerId": "52002734"}
		}]
	}`)
	events, err := ParseWebhook(body)
	if err != nil {
		t.Fatal(err)
	}
	ev := events[0]
	if ev.Kind != domain.KindSticker {
		t.Errorf("expected sticker kind, got %s", ev.Kind)
	}
	if ev.Source != domain.SourceUser {
		t.Errorf("expected user source, got %s", ev.Source)
	}
	if ev.StickerID != "52002734" {
		t.Errorf("expected sticker id, got %s", ev.StickerID)
	}
}

func TestParseWebhook_NonMessageEvent(t *testing.T) {
	body := []byte(`{
		"events": [{
			"type": "follow",
			"source": {"type": "user", "userId": "U1"}
		}]
	}`)
	events, err := ParseWebhook(body)
	if err != nil {
		t.Fatal(err)
	}
	if events[0].Kind != domain.KindOther {
		t.Errorf("expected other kind, got %s", events[0].Kind)
	}
}

func TestParseWebhook_UnknownMessageType(t *testing.T) {
	body := []byte(`{
		"events": [{
			"type": "message",
			"source": {"type": "group", "groupId": "G1", "userId": "U1"},
			"message": {"id": "M3", "type": "location"}
		}]
	}`)
	events, err := ParseWebhook(body)
	if err != nil {
		t.Fatal(err)
	}
	if events[0].Kind != domain.KindOther {
		t.Errorf("expected other kind, got %s", events[0].Kind)
	}
	if events[0].Source != domain.SourceGroup {
		t.Errorf("expected group source, got %s", events[0].Source)
	}
}

func TestParseWebhook_InvalidJSON(t *testing.T) {
	if _, err := ParseWebhook([]byte("not json")); err == nil {
		t.Error("expected error for invalid body")
	}
}

func TestParseWebhook_EmptyEvents(t *testing.T) {
	events, err := ParseWebhook([]byte(`{"events":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}
