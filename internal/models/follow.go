package models

import "time"

// PageFollow links a user to a page they follow
type PageFollow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_page_follow"`
	PageID    string    `json:"page_id" gorm:"size:24;index;uniqueIndex:idx_user_page_follow"`
	CreatedAt time.Time `json:"created_at"`
}
