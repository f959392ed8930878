package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page is a public profile managed by its admins. Followers are kept in page_follows.
type Page struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	CreatedBy   uint               `json:"created_by" bson:"created_by"`
	Admins      []uint             `json:"admins" bson:"admins"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

func (p *Page) IsAdmin(userID uint) bool {
	return containsID(p.Admins, userID)
}

// PageView is a page with its follower count as seen by one user
type PageView struct {
	Page
	Followers int64 `json:"followers"`
	Following bool  `json:"following"`
}

type GroupPrivacy string

const (
	GroupPublic  GroupPrivacy = "public"
	GroupPrivate GroupPrivacy = "private"
)

type Group struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	CreatedBy   uint               `json:"created_by" bson:"created_by"`
	Admins      []uint             `json:"admins" bson:"admins"`
	Members     []uint             `json:"members" bson:"members"`
	Privacy     GroupPrivacy       `json:"privacy" bson:"privacy"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

func (g *Group) IsMember(userID uint) bool {
	return containsID(g.Members, userID)
}

func (g *Group) IsAdmin(userID uint) bool {
	return containsID(g.Admins, userID)
}

type CreatePageRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

type CreateGroupRequest struct {
	Name        string       `json:"name" validate:"required,min=1,max=100"`
	Description string       `json:"description,omitempty" validate:"omitempty,max=1000"`
	Privacy     GroupPrivacy `json:"privacy,omitempty" validate:"omitempty,oneof=public private"`
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
