// Package privacy decides whether a viewer may see content owned by another user.
// Results are never cached because relationships change between requests.
package privacy

import (
	"context"
	"fmt"

	"github.com/anonto42/socialnet/backend/internal/models"
)

// FriendChecker answers friendship questions for VisibleTo
type FriendChecker interface {
	AreFriends(ctx context.Context, a, b uint) (bool, error)
}

// Visible applies the tier rules for a single piece of content.
func Visible(viewer, owner uint, tier models.Tier, isFriend bool) bool {
	switch tier {
	case models.TierPublic:
		return true
	case models.TierFriends:
		return viewer == owner || isFriend
	default:
		return viewer == owner
	}
}

// VisibleTo is Visible with the friendship looked up only when the tier needs it.
func VisibleTo(ctx context.Context, rel FriendChecker, viewer, owner uint, tier models.Tier) (bool, error) {
	if tier != models.TierFriends || viewer == owner {
		return Visible(viewer, owner, tier, false), nil
	}
	friends, err := rel.AreFriends(ctx, viewer, owner)
	if err != nil {
		return false, fmt.Errorf("checking friendship: %w", err)
	}
	return Visible(viewer, owner, tier, friends), nil
}

// AllowedTiers lists the post tiers a viewer may see on someone's profile.
func AllowedTiers(isOwner, isFriend bool) []models.Tier {
	switch {
	case isOwner:
		return []models.Tier{models.TierPublic, models.TierFriends, models.TierPrivate}
	case isFriend:
		return []models.Tier{models.TierPublic, models.TierFriends}
	default:
		return []models.Tier{models.TierPublic}
	}
}

// ParseTier validates a tier, returning fallback for an empty value.
func ParseTier(raw string, fallback models.Tier) (models.Tier, error) {
	if raw == "" {
		return fallback, nil
	}
	tier := models.Tier(raw)
	if !tier.Valid() {
		return "", fmt.Errorf("invalid privacy tier %q", raw)
	}
	return tier, nil
}
