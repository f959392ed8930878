package models

import "time"

// ReactionKind is the typed reaction a user leaves on a post
type ReactionKind string

const (
	ReactionLike  ReactionKind = "like"
	ReactionLove  ReactionKind = "love"
	ReactionCare  ReactionKind = "care"
	ReactionHaha  ReactionKind = "haha"
	ReactionWow   ReactionKind = "wow"
	ReactionSad   ReactionKind = "sad"
	ReactionAngry ReactionKind = "angry"
)

func (k ReactionKind) Valid() bool {
	switch k {
	case ReactionLike, ReactionLove, ReactionCare, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// ReactionOutcome describes what a reaction toggle did
type ReactionOutcome string

const (
	ReactionAdded   ReactionOutcome = "added"
	ReactionChanged ReactionOutcome = "changed"
	ReactionRemoved ReactionOutcome = "removed"
)

// Reaction is keyed by UserID: a post holds at most one per user
type Reaction struct {
	UserID    uint         `json:"user_id" bson:"user_id"`
	Kind      ReactionKind `json:"type" bson:"type"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
}

// Like is a kindless presence marker on a comment or reply
type Like struct {
	UserID    uint      `json:"user_id" bson:"user_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// toggleLike adds or removes userID and reports whether it is now present
func toggleLike(likes []Like, userID uint, now time.Time) ([]Like, bool) {
	for i, l := range likes {
		if l.UserID == userID {
			return append(likes[:i], likes[i+1:]...), false
		}
	}
	return append(likes, Like{UserID: userID, CreatedAt: now}), true
}
