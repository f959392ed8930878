package models

import "time"

// NotificationType is the closed set of events that produce notifications
type NotificationType string

const (
	NotificationPostCreate    NotificationType = "post:create"
	NotificationPostLike      NotificationType = "post:like"
	NotificationPostReact     NotificationType = "post:react"
	NotificationPostComment   NotificationType = "post:comment"
	NotificationPostShare     NotificationType = "post:share"
	NotificationCommentLike   NotificationType = "comment:like"
	NotificationReplyCreate   NotificationType = "reply:create"
	NotificationReplyLike     NotificationType = "reply:like"
	NotificationFriendRequest NotificationType = "friend:request"
	NotificationFriendAccept  NotificationType = "friend:accept"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationPostCreate, NotificationPostLike, NotificationPostReact, NotificationPostComment,
		NotificationPostShare, NotificationCommentLike, NotificationReplyCreate, NotificationReplyLike,
		NotificationFriendRequest, NotificationFriendAccept:
		return true
	}
	return false
}

// Notification is immutable once written except for Read
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RecipientID uint             `json:"recipient_id" gorm:"index:idx_notification_recipient_created,priority:1"`
	ActorID     uint             `json:"actor_id" gorm:"index"`
	Type        NotificationType `json:"type" gorm:"size:30"`
	PostID      string           `json:"post_id,omitempty" gorm:"size:24"`
	CommentID   string           `json:"comment_id,omitempty" gorm:"size:24"`
	ReplyID     string           `json:"reply_id,omitempty" gorm:"size:24"`
	Read        bool             `json:"read" gorm:"default:false;index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index:idx_notification_recipient_created,priority:2"`
}

// NotificationView is a notification with the actor's card attached
type NotificationView struct {
	Notification
	Actor *UserCompact `json:"actor,omitempty"`
}

// NotificationPage is the response of the notification listing
type NotificationPage struct {
	Items       []NotificationView `json:"items"`
	UnreadCount int64              `json:"unreadCount"`
	Page        int                `json:"page"`
	Limit       int                `json:"limit"`
}
