package models

import "time"

// FriendRequest is a pending request from Sender to Receiver
type FriendRequest struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SenderID   uint      `json:"sender_id" gorm:"uniqueIndex:idx_friend_request_pair"`
	ReceiverID uint      `json:"receiver_id" gorm:"uniqueIndex:idx_friend_request_pair;index"`
	CreatedAt  time.Time `json:"created_at"`
}

// Friendship is one direction of a symmetric friend edge. Both directions are
// written and removed together.
type Friendship struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	FriendID  uint      `json:"friend_id" gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `json:"created_at"`
}

// Block records that Blocker does not want to see Blocked
type Block struct {
	BlockerID uint      `json:"blocker_id" gorm:"primaryKey;autoIncrement:false"`
	BlockedID uint      `json:"blocked_id" gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Block) TableName() string {
	return "user_blocks"
}

type SendFriendRequestInput struct {
	RecipientID uint `json:"recipientId" validate:"required"`
}

type RespondFriendRequestInput struct {
	RequesterID uint `json:"requesterId" validate:"required"`
}

// IncomingRequest is a pending request together with the sender's card
type IncomingRequest struct {
	From UserCompact `json:"from"`
	At   time.Time   `json:"created_at"`
}
