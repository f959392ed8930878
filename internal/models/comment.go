package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrReplyNotFound   = errors.New("reply not found")
)

// Comment is embedded in a Post and addressed by its generated ID
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	UserID    uint      `json:"user_id" bson:"user_id"`
	Content   string    `json:"content" bson:"content"`
	Likes     []Like    `json:"likes" bson:"likes"`
	Replies   []Reply   `json:"replies" bson:"replies"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Reply is embedded in a Comment
type Reply struct {
	ID        string    `json:"id" bson:"id"`
	UserID    uint      `json:"user_id" bson:"user_id"`
	Content   string    `json:"content" bson:"content"`
	Likes     []Like    `json:"likes" bson:"likes"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func newEmbeddedID() string {
	return primitive.NewObjectID().Hex()
}

func (c *Comment) FindReply(replyID string) (*Reply, error) {
	for i := range c.Replies {
		if c.Replies[i].ID == replyID {
			return &c.Replies[i], nil
		}
	}
	return nil, ErrReplyNotFound
}
