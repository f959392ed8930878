package models

// Tier is the visibility level of a post or profile
type Tier string

const (
	TierPublic  Tier = "public"
	TierFriends Tier = "friends"
	TierPrivate Tier = "private"
)

func (t Tier) Valid() bool {
	switch t {
	case TierPublic, TierFriends, TierPrivate:
		return true
	}
	return false
}

// Privacy groups the per-user visibility settings
type Privacy struct {
	Profile Tier `json:"profile"`
	Posts   Tier `json:"posts"`
}
