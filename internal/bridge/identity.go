package bridge

import (
	"context"
	"fmt"

	"linecord/internal/domain"
)

// overrides resolves the sender's display name and avatar for impersonation,
// fresh on every event. An absent user id yields the empty override: the
// message then renders under the webhook's default identity, which should be
// configured to read as an "Unknown User" placeholder.
func (b *Bridge) overrides(ctx context.Context, groupID, userID string) (domain.UserOverride, error) {
	if userID == "" {
		b.logger.Info("event carries no user id, forwarding without identity override", "group_id", groupID)
		return domain.UserOverride{}, nil
	}
	p, err := b.line.GetGroupMemberProfile(ctx, groupID, userID)
	if err != nil {
		return domain.UserOverride{}, fmt.Errorf("resolve sender identity: %w", err)
	}
	b.logger.Debug("resolved sender identity", "username", p.DisplayName, "avatar_url", p.PictureURL)
	return domain.UserOverride{Username: p.DisplayName, AvatarURL: p.PictureURL}, nil
}
