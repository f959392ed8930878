package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is the aggregate root stored in MongoDB. Reactions, comments, replies
// and shares live inside the document and change only through its methods.
type Post struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	AuthorID       uint                `json:"author_id" bson:"author_id"`
	PageID         *primitive.ObjectID `json:"page_id,omitempty" bson:"page_id,omitempty"`
	GroupID        *primitive.ObjectID `json:"group_id,omitempty" bson:"group_id,omitempty"`
	Content        string              `json:"content" bson:"content"`
	Images         []string            `json:"images" bson:"images"`
	Privacy        Tier                `json:"privacy" bson:"privacy"`
	Reactions      []Reaction          `json:"reactions" bson:"reactions"`
	Comments       []Comment           `json:"comments" bson:"comments"`
	Shares         []Share             `json:"shares" bson:"shares"`
	OriginalPostID *primitive.ObjectID `json:"original_post_id,omitempty" bson:"original_post_id,omitempty"`
	Tags           []string            `json:"tags" bson:"tags"`
	Location       string              `json:"location,omitempty" bson:"location,omitempty"`
	IsEdited       bool                `json:"is_edited" bson:"is_edited"`
	EditedAt       *time.Time          `json:"edited_at,omitempty" bson:"edited_at,omitempty"`
	Version        int64               `json:"-" bson:"version"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" bson:"updated_at"`
}

// Share records that a user re-posted this post
type Share struct {
	UserID    uint      `json:"user_id" bson:"user_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type CreatePostRequest struct {
	Content  string   `json:"content" validate:"required,min=1,max=10000"`
	Images   []string `json:"images,omitempty" validate:"omitempty,max=10,dive,url"`
	Privacy  Tier     `json:"privacy,omitempty" validate:"omitempty,tier"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	Location string   `json:"location,omitempty" validate:"omitempty,max=100"`
	PageID   string   `json:"pageId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	GroupID  string   `json:"groupId,omitempty" validate:"omitempty,len=24,hexadecimal"`
}

type UpdatePostRequest struct {
	Content *string `json:"content,omitempty" validate:"omitempty,min=1,max=10000"`
	Privacy Tier    `json:"privacy,omitempty" validate:"omitempty,tier"`
}

type ReactRequest struct {
	Type ReactionKind `json:"type,omitempty" validate:"omitempty,reaction"`
}

type CommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

type ShareRequest struct {
	Content string `json:"content,omitempty" validate:"omitempty,max=10000"`
	Privacy Tier   `json:"privacy,omitempty" validate:"omitempty,tier"`
}

// ReactionResult is returned by reaction toggles
type ReactionResult struct {
	Applied   ReactionOutcome `json:"applied"`
	Reactions []Reaction      `json:"reactions"`
}

// LikeResult is returned by the boolean like toggles
type LikeResult struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}
