// Package bridge routes normalized LINE events to the configured Discord
// webhooks and reshapes them into webhook payloads.
package bridge

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"linecord/internal/domain"
	"linecord/internal/line"
	"linecord/internal/metrics"
)

// LineAPI is the subset of the LINE client the bridge consumes.
type LineAPI interface {
	GetGroupMemberProfile(ctx context.Context, groupID, userID string) (*line.Profile, error)
	GetMessageContent(ctx context.Context, messageID string) ([]byte, string, error)
}

// WebhookSender delivers a payload to a Discord webhook URL.
type WebhookSender interface {
	Send(ctx context.Context, webhookURL string, params *discordgo.WebhookParams) error
}

// Config is the immutable routing configuration, constructed once at startup.
type Config struct {
	GroupIDs            []string // listening set, membership probed in order
	RepeatWebhookURL    string
	BroadcastWebhookURL string
	UsernameFiller      rune
	Logger              *slog.Logger
}

// Bridge processes one inbound event at a time, start to finish, with no
// mutable state shared across events.
type Bridge struct {
	cfg    Config
	line   LineAPI
	sender WebhookSender
	logger *slog.Logger
}

func New(cfg Config, lineAPI LineAPI, sender WebhookSender) *Bridge {
	if cfg.UsernameFiller == 0 {
		cfg.UsernameFiller = DefaultFiller
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Bridge{cfg: cfg, line: lineAPI, sender: sender, logger: cfg.Logger}
}

// HandleEvent routes and forwards a single event. The returned error is a
// LINE API failure during handling; routing drops and Discord delivery
// failures are not errors.
func (b *Bridge) HandleEvent(ctx context.Context, ev domain.InboundEvent) error {
	if ev.Source == domain.SourceGroup {
		return b.handleGroupEvent(ctx, ev)
	}
	return b.handleDirectEvent(ctx, ev)
}

func (b *Bridge) handleGroupEvent(ctx context.Context, ev domain.InboundEvent) error {
	if !b.listening(ev.GroupID) {
		b.drop(ev, "group not in listening set")
		return nil
	}
	if ev.Kind == domain.KindOther {
		b.drop(ev, "unhandled message kind")
		return nil
	}
	override, err := b.overrides(ctx, ev.GroupID, ev.UserID)
	if err != nil {
		return err
	}
	att, err := b.attachment(ctx, ev)
	if err != nil {
		return err
	}
	params := Translate(ev, att, override, b.cfg.UsernameFiller)
	_ = b.sender.Send(ctx, b.cfg.RepeatWebhookURL, params)
	metrics.ForwardedRepeat.Inc()
	b.logger.Info("forwarded group event", "kind", ev.Kind.String(), "group_id", ev.GroupID)
	return nil
}

func (b *Bridge) handleDirectEvent(ctx context.Context, ev domain.InboundEvent) error {
	// Stickers from direct messages are explicitly unsupported, member or not.
	if ev.Kind == domain.KindSticker {
		b.drop(ev, "direct sticker messages are not forwarded")
		return nil
	}
	if ev.Kind == domain.KindOther {
		b.drop(ev, "unhandled message kind")
		return nil
	}
	if !b.IsMember(ctx, ev.UserID) {
		b.drop(ev, "sender is not a member of a listening group")
		return nil
	}
	att, err := b.attachment(ctx, ev)
	if err != nil {
		return err
	}
	// No identity override on broadcasts: the sender appears as the bot.
	params := Translate(ev, att, domain.UserOverride{}, b.cfg.UsernameFiller)
	_ = b.sender.Send(ctx, b.cfg.BroadcastWebhookURL, params)
	metrics.ForwardedBroadcast.Inc()
	b.logger.Info("forwarded direct event", "kind", ev.Kind.String(), "user_id", ev.UserID)
	return nil
}

func (b *Bridge) listening(groupID string) bool {
	for _, gid := range b.cfg.GroupIDs {
		if gid == groupID {
			return true
		}
	}
	return false
}

func (b *Bridge) drop(ev domain.InboundEvent, reason string) {
	metrics.EventsDropped.Inc()
	b.logger.Info("dropped event",
		"reason", reason,
		"kind", ev.Kind.String(),
		"source", ev.Source.String(),
		"group_id", ev.GroupID,
		"user_id", ev.UserID,
	)
}
