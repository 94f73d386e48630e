package bridge

import (
	"bytes"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"linecord/internal/domain"
)

// stickerAssetURL is the fixed template for LINE sticker images; the android
// variant is a plain PNG Discord can embed.
const stickerAssetURL = "https://stickershop.line-scdn.net/stickershop/v1/sticker/%s/android/sticker.png"

// minUsernameLen is Discord's minimum webhook username length.
const minUsernameLen = 2

// DefaultFiller pads short display names. U+2800 BRAILLE PATTERN BLANK
// renders as blank on Discord but counts toward the username minimum.
const DefaultFiller = '⠀'

// Translate reshapes one classified event into a Discord webhook submission.
// Pure: the only inputs are the event, its resolved attachment (nil when the
// kind carries none), and the identity override.
func Translate(ev domain.InboundEvent, att *domain.Attachment, override domain.UserOverride, filler rune) *discordgo.WebhookParams {
	params := &discordgo.WebhookParams{}
	if !override.Empty() {
		params.Username = PadUsername(override.Username, filler)
		params.AvatarURL = override.AvatarURL
	}
	switch ev.Kind {
	case domain.KindText:
		params.Content = ev.Text
	case domain.KindSticker:
		params.Embeds = []*discordgo.MessageEmbed{{
			Image: &discordgo.MessageEmbedImage{URL: fmt.Sprintf(stickerAssetURL, ev.StickerID)},
		}}
	case domain.KindImage, domain.KindVideo, domain.KindAudio, domain.KindFile:
		if att != nil {
			params.Files = []*discordgo.File{{
				Name:   att.Filename,
				Reader: bytes.NewReader(att.Data),
			}}
		}
	}
	return params
}

// PadUsername pads names shorter than Discord's two-character minimum with
// an invisible filler, alternating after and before the original name so it
// stays centered. Names of two or more runes pass through unchanged.
func PadUsername(name string, filler rune) string {
	if filler == 0 {
		filler = DefaultFiller
	}
	runes := []rune(name)
	if len(runes) >= minUsernameLen {
		return name
	}
	for i := 0; len(runes) < minUsernameLen; i++ {
		if i%2 == 0 {
			runes = append(runes, filler)
		} else {
			runes = append([]rune{filler}, runes...)
		}
	}
	return string(runes)
}
