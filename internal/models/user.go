package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	FirstName      string    `json:"first_name" gorm:"size:50"`
	LastName       string    `json:"last_name" gorm:"size:50"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:255"`
	Password       string    `json:"-"`
	FirebaseUID    *string   `json:"-" gorm:"uniqueIndex"`
	Bio            string    `json:"bio" gorm:"size:500"`
	Location       string    `json:"location" gorm:"size:100"`
	Website        string    `json:"website" gorm:"size:255"`
	Avatar         string    `json:"avatar"`
	ProfilePrivacy Tier      `json:"-" gorm:"size:10;default:public"`
	PostsPrivacy   Tier      `json:"-" gorm:"size:10;default:friends"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) Privacy() Privacy {
	return Privacy{Profile: u.ProfilePrivacy, Posts: u.PostsPrivacy}
}

// UserCompact is the public card embedded in lists and notifications
type UserCompact struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Avatar: u.Avatar}
}

// Profile is a user as returned to API callers, including privacy settings
type Profile struct {
	User
	Privacy  Privacy `json:"privacy"`
	IsFriend bool    `json:"is_friend"`
}

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=50"`
	LastName  string `json:"last_name" validate:"required,min=1,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=50"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Location  *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Website   *string `json:"website,omitempty" validate:"omitempty,max=255"`
	Avatar    *string `json:"avatar,omitempty" validate:"omitempty,url"`
}

type UpdatePrivacyRequest struct {
	Profile Tier `json:"profile,omitempty" validate:"omitempty,tier"`
	Posts   Tier `json:"posts,omitempty" validate:"omitempty,tier"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
