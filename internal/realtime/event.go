// Package realtime delivers live events to connected users.
package realtime

import (
	"context"
	"strconv"
	"time"

	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/google/uuid"
)

// EventNotification is the only event type pushed to clients
const EventNotification = "notification"

// Publisher pushes an event to every connection in a room
type Publisher interface {
	Publish(ctx context.Context, room string, event Event) error
}

// Event is the payload of a live notification
type Event struct {
	ID        string                  `json:"id"`
	Type      models.NotificationType `json:"type"`
	ActorID   uint                    `json:"actorId"`
	PostID    string                  `json:"postId,omitempty"`
	CommentID string                  `json:"commentId,omitempty"`
	ReplyID   string                  `json:"replyId,omitempty"`
	Reaction  models.ReactionKind     `json:"reaction,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}

// Envelope is the frame written to the websocket
type Envelope struct {
	Type    string `json:"type"`
	Payload Event  `json:"payload"`
}

// NewEvent builds the live counterpart of a stored notification
func NewEvent(n *models.Notification, reaction models.ReactionKind) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      n.Type,
		ActorID:   n.ActorID,
		PostID:    n.PostID,
		CommentID: n.CommentID,
		ReplyID:   n.ReplyID,
		Reaction:  reaction,
		CreatedAt: n.CreatedAt,
	}
}

const userRoomPrefix = "user:"

// UserRoom is the room every connection of a user joins
func UserRoom(userID uint) string {
	return userRoomPrefix + strconv.FormatUint(uint64(userID), 10)
}
