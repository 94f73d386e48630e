package bridge

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"linecord/internal/domain"
)

const attachmentBaseName = "attachment"

// attachment fetches binary content for kinds that carry it, nil otherwise.
func (b *Bridge) attachment(ctx context.Context, ev domain.InboundEvent) (*domain.Attachment, error) {
	if !ev.Kind.HasAttachment() {
		return nil, nil
	}
	data, contentType, err := b.line.GetMessageContent(ctx, ev.MessageID)
	if err != nil {
		return nil, fmt.Errorf("fetch message content: %w", err)
	}
	return &domain.Attachment{
		Filename: attachmentBaseName + ExtensionFor(contentType),
		Data:     data,
	}, nil
}

// ExtensionFor derives a filename extension from a content type using the
// platform mimetype table. The result is total: every content type maps to a
// defined, possibly empty, extension.
func ExtensionFor(contentType string) string {
	return deriveExtension(contentType, guessExtensions)
}

func guessExtensions(mediaType string) []string {
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil {
		return nil
	}
	return exts
}

// deriveExtension applies the mapping rules: first guessed extension; .mp3
// for otherwise-unmapped audio types (Discord only renders an inline player
// for that extension); empty when unmapped; and .jpe normalized to .jpg
// (Discord does not recognize .jpe).
func deriveExtension(contentType string, guess func(string) []string) string {
	mediaType := contentType
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = mt
	}
	ext := ""
	if exts := guess(mediaType); len(exts) > 0 {
		ext = exts[0]
	}
	if ext == "" && strings.HasPrefix(mediaType, "audio/") {
		ext = ".mp3"
	}
	if ext == ".jpe" {
		ext = ".jpg"
	}
	return ext
}
