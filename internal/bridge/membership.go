package bridge

import "context"

// IsMember reports whether userID belongs to any listening group. The first
// successful profile fetch short-circuits in listening-set order; every
// lookup failure (not-found or API error) counts as a negative signal and is
// never surfaced.
func (b *Bridge) IsMember(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	for _, gid := range b.cfg.GroupIDs {
		if _, err := b.line.GetGroupMemberProfile(ctx, gid, userID); err == nil {
			return true
		}
	}
	return false
}
